// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package places implements the client for the external places provider
// (Google Places Nearby Search wire format). The provider is a black box
// with a pagination contract: an absent next_page_token ends pagination, and
// a returned token is only valid after a fixed backoff has elapsed.
package places

import (
	"github.com/goccy/go-json"

	"github.com/workaround-app/workaround/internal/models"
)

// RawPlace is one provider result. Pointer fields distinguish "absent" from
// zero so the synthesizer can apply category defaults only where the source
// has no data.
type RawPlace struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	Vicinity         string        `json:"vicinity,omitempty"`
	FormattedAddress string        `json:"formatted_address,omitempty"`
	Geometry         *Geometry     `json:"geometry,omitempty"`
	Rating           *float64      `json:"rating,omitempty"`
	UserRatingsTotal *int          `json:"user_ratings_total,omitempty"`
	PriceLevel       *int          `json:"price_level,omitempty"`
	OpeningHours     *OpeningHours `json:"opening_hours,omitempty"`
	Types            []string      `json:"types,omitempty"`

	// Raw is the verbatim provider payload this result was decoded from.
	// Persisted on the record for audit; never used in ranking.
	Raw json.RawMessage `json:"-"`
}

// Geometry carries the place location.
type Geometry struct {
	Location models.Coordinates `json:"location"`
}

// OpeningHours is the provider's weekly schedule.
type OpeningHours struct {
	Periods []Period `json:"periods,omitempty"`
}

// Period is one open/close span. Close may be absent for always-open
// venues.
type Period struct {
	Open  *PeriodPoint `json:"open,omitempty"`
	Close *PeriodPoint `json:"close,omitempty"`
}

// PeriodPoint is a weekday (0=Sunday, provider convention) plus a "HHMM"
// local time.
type PeriodPoint struct {
	Day  int    `json:"day"`
	Time string `json:"time"`
}

// Page is one page of search results. An empty NextToken ends pagination.
type Page struct {
	Results   []RawPlace
	NextToken string
}

// searchResponse is the provider's wire envelope.
type searchResponse struct {
	Results       []json.RawMessage `json:"results"`
	NextPageToken string            `json:"next_page_token"`
	Status        string            `json:"status"`
	ErrorMessage  string            `json:"error_message,omitempty"`
}
