// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package models defines the shared data types for WorkAround: the persisted
// study-space record, request-scoped filter criteria, ranking weights, and
// the standard API response envelope.
package models

import (
	"time"

	"github.com/goccy/go-json"
)

// Category is the venue category a place was discovered under.
type Category string

// Closed category set. CategoryAny is the filter sentinel meaning
// "no category constraint"; it is never persisted on a record.
const (
	CategoryCafe    Category = "cafe"
	CategoryLibrary Category = "library"
	CategoryAny     Category = "any"
)

// Categories lists the queryable venue categories in crawl order. Cafes are
// queried first, so a venue matching both categories is stored as a cafe
// (first-write-wins).
var Categories = []Category{CategoryCafe, CategoryLibrary}

// Valid reports whether c is a persistable category.
func (c Category) Valid() bool {
	return c == CategoryCafe || c == CategoryLibrary
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpenHours is a daily-repeating opening window in local "HH:MM" form.
// The window reflects whichever weekday the crawl ran on; per-weekday
// schedules are not persisted.
type OpenHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Place is one persisted study space. Records are created only by the
// crawler and replaced wholesale on re-ingestion of the same ID, so
// randomized attributes reset on every crawl pass.
type Place struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Category    Category    `json:"category"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	PriceTier   int     `json:"price_tier"`

	Hours       *OpenHours `json:"hours,omitempty"`
	FeatureTags []string   `json:"feature_tags"`

	// Study attributes, integers in [1,5]. Synthesized from category-biased
	// random defaults when the source has no data; callers must not rely on
	// specific values surviving a re-crawl.
	NoiseLevel          int `json:"noise_level"`
	OccupancyLevel      int `json:"occupancy_level"`
	WifiQuality         int `json:"wifi_quality"`
	OutletAvailability  int `json:"outlet_availability"`
	ParkingAvailability int `json:"parking_availability"`

	HasFood       bool `json:"has_food"`
	HasStudyRooms bool `json:"has_study_rooms"`
	MaxGroupSize  int  `json:"max_group_size"`

	// RawSource is the provider payload the record was derived from, kept
	// for audit and debugging. Never consulted by the ranking path.
	RawSource json.RawMessage `json:"raw_source,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// ScoredPlace is a place annotated with its composite suitability score.
type ScoredPlace struct {
	Place
	Score float64 `json:"score"`
}

// BoundingBox is an inclusive lat/lng range.
type BoundingBox struct {
	MinLat float64 `json:"min_lat" koanf:"min_lat"`
	MaxLat float64 `json:"max_lat" koanf:"max_lat"`
	MinLng float64 `json:"min_lng" koanf:"min_lng"`
	MaxLng float64 `json:"max_lng" koanf:"max_lng"`
}

// Contains reports whether the point falls inside the box, inclusive of all
// four edges.
func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

// Valid reports whether the box describes a plausible WGS84 region.
func (b BoundingBox) Valid() bool {
	return b.MinLat >= -90 && b.MaxLat <= 90 && b.MinLat <= b.MaxLat &&
		b.MinLng >= -180 && b.MaxLng <= 180 && b.MinLng <= b.MaxLng
}

// FilterCriteria is the request-scoped filter applied before scoring.
// Zero values mean "no constraint" except OpenNow, which defaults to true at
// the API boundary.
type FilterCriteria struct {
	MinRating    float64  `json:"min_rating"`
	Category     Category `json:"category"`
	MaxGroupSize int      `json:"max_group_size"`
	Query        string   `json:"query"`

	MinParking int `json:"min_parking"`
	MinOutlets int `json:"min_outlets"`
	MinWifi    int `json:"min_wifi"`

	RequireFood       bool `json:"require_food"`
	RequireStudyRooms bool `json:"require_study_rooms"`
	OpenNow           bool `json:"open_now"`

	Bounds *BoundingBox `json:"bounds,omitempty"`
}
