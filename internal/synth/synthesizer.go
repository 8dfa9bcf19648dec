// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package synth derives the normalized, persisted study-space record from a
// raw provider result. Fields absent from the source get category-biased
// defaults; the study attributes the provider cannot supply at all are
// generated uniform-random within category-dependent bounds. The randomness
// is a deliberate placeholder for unavailable source data, so callers must
// not rely on specific values surviving a re-crawl.
package synth

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/workaround-app/workaround/internal/models"
	"github.com/workaround-app/workaround/internal/places"
)

// ErrMissingIdentity indicates a source record without a stable identity.
// Such records are dropped; every other field has a default.
var ErrMissingIdentity = errors.New("source record has no identity")

// Category default opening windows, applied when the provider has no
// schedule entry for the ingestion weekday.
var (
	libraryDefaultHours = models.OpenHours{Open: "10:00", Close: "18:00"}
	cafeDefaultHours    = models.OpenHours{Open: "07:00", Close: "21:00"}
)

// Synthesizer turns raw provider results into persisted records.
//
// The random source is injected so tests can seed it and assert exact
// outputs; a mutex guards it because *rand.Rand is not safe for concurrent
// use and tile workers synthesize concurrently. The clock is injected so
// the ingestion-weekday hours derivation is testable.
type Synthesizer struct {
	rng *rand.Rand
	mu  sync.Mutex
	now func() time.Time
}

// New creates a Synthesizer. A nil rng falls back to a time-seeded source;
// a nil now falls back to time.Now.
func New(rng *rand.Rand, now func() time.Time) *Synthesizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // non-cryptographic placeholder attributes
	}
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{rng: rng, now: now}
}

// Synthesize derives the full record for a raw place discovered under the
// given category. Returns ErrMissingIdentity when the source has no stable
// identity; every other absent field is defaulted, never an error.
func (s *Synthesizer) Synthesize(raw places.RawPlace, category models.Category) (*models.Place, error) {
	if raw.PlaceID == "" {
		return nil, ErrMissingIdentity
	}
	if !category.Valid() {
		return nil, fmt.Errorf("invalid category %q", category)
	}

	isLibrary := category == models.CategoryLibrary
	now := s.now()

	place := &models.Place{
		ID:        raw.PlaceID,
		Name:      raw.Name,
		Category:  category,
		Address:   s.address(raw),
		RawSource: raw.Raw,
		CreatedAt: now,
	}

	if raw.Geometry != nil {
		place.Coordinates = raw.Geometry.Location
	}

	// Source value wins when present; otherwise category-biased default.
	if raw.Rating != nil {
		place.Rating = *raw.Rating
	} else if isLibrary {
		place.Rating = 4.5
	} else {
		place.Rating = 4.0
	}

	if raw.UserRatingsTotal != nil && *raw.UserRatingsTotal > 0 {
		place.ReviewCount = *raw.UserRatingsTotal
	} else {
		place.ReviewCount = s.randInt(20, 120)
	}

	if raw.PriceLevel != nil {
		place.PriceTier = *raw.PriceLevel
	} else if isLibrary {
		place.PriceTier = 0
	} else {
		place.PriceTier = 2
	}

	place.Hours = s.deriveHours(raw.OpeningHours, category, now)

	if isLibrary {
		place.NoiseLevel = s.randInt(1, 2)
	} else {
		place.NoiseLevel = s.randInt(2, 4)
	}
	place.OccupancyLevel = s.randInt(2, 4)
	place.WifiQuality = s.randInt(3, 4)
	place.OutletAvailability = s.randInt(2, 4)
	place.ParkingAvailability = s.randInt(2, 4)

	place.HasFood = !isLibrary
	place.HasStudyRooms = isLibrary && s.randFloat() < 0.7
	if isLibrary {
		place.MaxGroupSize = 6
	} else {
		place.MaxGroupSize = 4
	}

	place.FeatureTags = buildFeatureTags(place)

	return place, nil
}

// address prefers the short vicinity over the formatted address.
func (s *Synthesizer) address(raw places.RawPlace) string {
	if raw.Vicinity != "" {
		return raw.Vicinity
	}
	if raw.FormattedAddress != "" {
		return raw.FormattedAddress
	}
	return "Address not available"
}

// deriveHours resolves the provider's weekly schedule against the weekday
// at ingestion time and falls back to the category default window. The
// persisted hours are treated downstream as a daily-repeating schedule, so
// they reflect only the weekday the crawl ran on.
func (s *Synthesizer) deriveHours(oh *places.OpeningHours, category models.Category, now time.Time) *models.OpenHours {
	if oh != nil {
		today := int(now.Weekday()) // provider convention: 0 = Sunday
		for _, period := range oh.Periods {
			if period.Open == nil || period.Open.Day != today {
				continue
			}
			if period.Close == nil {
				break
			}
			open := formatHHMM(period.Open.Time, "0800")
			closeAt := formatHHMM(period.Close.Time, "2000")
			return &models.OpenHours{Open: open, Close: closeAt}
		}
	}

	if category == models.CategoryLibrary {
		hours := libraryDefaultHours
		return &hours
	}
	hours := cafeDefaultHours
	return &hours
}

// formatHHMM converts the provider's "HHMM" form to "HH:MM".
func formatHHMM(t, fallback string) string {
	if len(t) != 4 {
		t = fallback
	}
	return t[:2] + ":" + t[2:]
}

// buildFeatureTags assembles tags in fixed order: food flag, study-room
// flag, the constant connectivity tag, then the category ambience tag.
func buildFeatureTags(place *models.Place) []string {
	tags := make([]string, 0, 4)
	if place.HasFood {
		tags = append(tags, "Food")
	}
	if place.HasStudyRooms {
		tags = append(tags, "Study rooms")
	}
	tags = append(tags, "Wi-Fi")
	if place.Category == models.CategoryLibrary {
		tags = append(tags, "Quiet")
	} else {
		tags = append(tags, "Cafe vibe")
	}
	return tags
}

// randInt returns a uniform integer in [min, max].
func (s *Synthesizer) randInt(min, max int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(max-min+1) + min
}

func (s *Synthesizer) randFloat() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
