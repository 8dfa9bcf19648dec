// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package synth

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/workaround-app/workaround/internal/models"
	"github.com/workaround-app/workaround/internal/places"
)

func newTestSynthesizer(seed int64, now time.Time) *Synthesizer {
	return New(rand.New(rand.NewSource(seed)), func() time.Time { return now })
}

func float64Ptr(v float64) *float64 { return &v }
func intPtr(v int) *int             { return &v }

func TestSynthesizeMissingIdentity(t *testing.T) {
	s := newTestSynthesizer(1, time.Now())

	_, err := s.Synthesize(places.RawPlace{Name: "No ID Cafe"}, models.CategoryCafe)
	if !errors.Is(err, ErrMissingIdentity) {
		t.Errorf("expected ErrMissingIdentity, got %v", err)
	}
}

func TestSynthesizeInvalidCategory(t *testing.T) {
	s := newTestSynthesizer(1, time.Now())

	_, err := s.Synthesize(places.RawPlace{PlaceID: "p1"}, models.Category("museum"))
	if err == nil {
		t.Error("expected error for invalid category")
	}
}

func TestSynthesizeSourceFieldsWin(t *testing.T) {
	s := newTestSynthesizer(42, time.Now())

	raw := places.RawPlace{
		PlaceID:          "p1",
		Name:             "Corner Cafe",
		Vicinity:         "12 Main St",
		Rating:           float64Ptr(3.7),
		UserRatingsTotal: intPtr(250),
		PriceLevel:       intPtr(1),
		Geometry:         &places.Geometry{Location: models.Coordinates{Lat: 33.5, Lng: -117.8}},
	}

	place, err := s.Synthesize(raw, models.CategoryCafe)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if place.ID != "p1" {
		t.Errorf("ID = %q, want p1", place.ID)
	}
	if place.Rating != 3.7 {
		t.Errorf("Rating = %v, want source value 3.7", place.Rating)
	}
	if place.ReviewCount != 250 {
		t.Errorf("ReviewCount = %d, want source value 250", place.ReviewCount)
	}
	if place.PriceTier != 1 {
		t.Errorf("PriceTier = %d, want source value 1", place.PriceTier)
	}
	if place.Address != "12 Main St" {
		t.Errorf("Address = %q, want vicinity", place.Address)
	}
	if place.Coordinates.Lat != 33.5 || place.Coordinates.Lng != -117.8 {
		t.Errorf("Coordinates = %+v, want source geometry", place.Coordinates)
	}
}

func TestSynthesizeCategoryDefaults(t *testing.T) {
	tests := []struct {
		name         string
		category     models.Category
		wantRating   float64
		wantPrice    int
		wantFood     bool
		wantGroup    int
		noiseMin     int
		noiseMax     int
	}{
		{"library", models.CategoryLibrary, 4.5, 0, false, 6, 1, 2},
		{"cafe", models.CategoryCafe, 4.0, 2, true, 4, 2, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSynthesizer(7, time.Now())

			place, err := s.Synthesize(places.RawPlace{PlaceID: "p1", Name: "Venue"}, tt.category)
			if err != nil {
				t.Fatalf("Synthesize failed: %v", err)
			}

			if place.Rating != tt.wantRating {
				t.Errorf("Rating = %v, want %v", place.Rating, tt.wantRating)
			}
			if place.PriceTier != tt.wantPrice {
				t.Errorf("PriceTier = %d, want %d", place.PriceTier, tt.wantPrice)
			}
			if place.HasFood != tt.wantFood {
				t.Errorf("HasFood = %v, want %v", place.HasFood, tt.wantFood)
			}
			if place.MaxGroupSize != tt.wantGroup {
				t.Errorf("MaxGroupSize = %d, want %d", place.MaxGroupSize, tt.wantGroup)
			}
			if place.NoiseLevel < tt.noiseMin || place.NoiseLevel > tt.noiseMax {
				t.Errorf("NoiseLevel = %d, want within [%d, %d]", place.NoiseLevel, tt.noiseMin, tt.noiseMax)
			}
			if place.ReviewCount < 20 || place.ReviewCount > 120 {
				t.Errorf("ReviewCount = %d, want within [20, 120]", place.ReviewCount)
			}
			if place.OccupancyLevel < 2 || place.OccupancyLevel > 4 {
				t.Errorf("OccupancyLevel = %d, want within [2, 4]", place.OccupancyLevel)
			}
			if place.WifiQuality < 3 || place.WifiQuality > 4 {
				t.Errorf("WifiQuality = %d, want within [3, 4]", place.WifiQuality)
			}
			if place.OutletAvailability < 2 || place.OutletAvailability > 4 {
				t.Errorf("OutletAvailability = %d, want within [2, 4]", place.OutletAvailability)
			}
			if place.ParkingAvailability < 2 || place.ParkingAvailability > 4 {
				t.Errorf("ParkingAvailability = %d, want within [2, 4]", place.ParkingAvailability)
			}
		})
	}
}

func TestSynthesizeCafeNeverHasStudyRooms(t *testing.T) {
	s := newTestSynthesizer(99, time.Now())

	for i := 0; i < 50; i++ {
		place, err := s.Synthesize(places.RawPlace{PlaceID: "p1"}, models.CategoryCafe)
		if err != nil {
			t.Fatalf("Synthesize failed: %v", err)
		}
		if place.HasStudyRooms {
			t.Fatal("cafe got study rooms")
		}
	}
}

func TestSynthesizeDeterministicWithSeed(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	raw := places.RawPlace{PlaceID: "p1", Name: "Stacks Library"}

	a, err := newTestSynthesizer(1234, now).Synthesize(raw, models.CategoryLibrary)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	b, err := newTestSynthesizer(1234, now).Synthesize(raw, models.CategoryLibrary)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if a.NoiseLevel != b.NoiseLevel || a.OccupancyLevel != b.OccupancyLevel ||
		a.WifiQuality != b.WifiQuality || a.OutletAvailability != b.OutletAvailability ||
		a.ParkingAvailability != b.ParkingAvailability || a.ReviewCount != b.ReviewCount ||
		a.HasStudyRooms != b.HasStudyRooms {
		t.Error("same seed produced different attributes")
	}
}

func TestSynthesizeAddressFallbacks(t *testing.T) {
	s := newTestSynthesizer(1, time.Now())

	place, err := s.Synthesize(places.RawPlace{PlaceID: "p1", FormattedAddress: "100 Long Form Ave"}, models.CategoryCafe)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if place.Address != "100 Long Form Ave" {
		t.Errorf("Address = %q, want formatted address fallback", place.Address)
	}

	place, err = s.Synthesize(places.RawPlace{PlaceID: "p2"}, models.CategoryCafe)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if place.Address != "Address not available" {
		t.Errorf("Address = %q, want placeholder", place.Address)
	}
}

func TestSynthesizeDefaultHours(t *testing.T) {
	s := newTestSynthesizer(1, time.Now())

	lib, _ := s.Synthesize(places.RawPlace{PlaceID: "l1"}, models.CategoryLibrary)
	if lib.Hours == nil || lib.Hours.Open != "10:00" || lib.Hours.Close != "18:00" {
		t.Errorf("library hours = %+v, want 10:00-18:00", lib.Hours)
	}

	cafe, _ := s.Synthesize(places.RawPlace{PlaceID: "c1"}, models.CategoryCafe)
	if cafe.Hours == nil || cafe.Hours.Open != "07:00" || cafe.Hours.Close != "21:00" {
		t.Errorf("cafe hours = %+v, want 07:00-21:00", cafe.Hours)
	}
}

func TestSynthesizeHoursFromSchedule(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	today := int(now.Weekday())
	s := newTestSynthesizer(1, now)

	raw := places.RawPlace{
		PlaceID: "p1",
		OpeningHours: &places.OpeningHours{
			Periods: []places.Period{
				{
					Open:  &places.PeriodPoint{Day: (today + 1) % 7, Time: "0600"},
					Close: &places.PeriodPoint{Day: (today + 1) % 7, Time: "1400"},
				},
				{
					Open:  &places.PeriodPoint{Day: today, Time: "0930"},
					Close: &places.PeriodPoint{Day: today, Time: "2230"},
				},
			},
		},
	}

	place, err := s.Synthesize(raw, models.CategoryCafe)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if place.Hours == nil || place.Hours.Open != "09:30" || place.Hours.Close != "22:30" {
		t.Errorf("Hours = %+v, want today's period 09:30-22:30", place.Hours)
	}
}

func TestSynthesizeHoursScheduleWithoutToday(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	other := (int(now.Weekday()) + 3) % 7
	s := newTestSynthesizer(1, now)

	raw := places.RawPlace{
		PlaceID: "p1",
		OpeningHours: &places.OpeningHours{
			Periods: []places.Period{
				{
					Open:  &places.PeriodPoint{Day: other, Time: "0600"},
					Close: &places.PeriodPoint{Day: other, Time: "1400"},
				},
			},
		},
	}

	place, err := s.Synthesize(raw, models.CategoryLibrary)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if place.Hours == nil || place.Hours.Open != "10:00" || place.Hours.Close != "18:00" {
		t.Errorf("Hours = %+v, want library default when today absent", place.Hours)
	}
}

func TestFeatureTagOrder(t *testing.T) {
	// A library with study rooms carries the full tag set in fixed order.
	place := &models.Place{Category: models.CategoryLibrary, HasStudyRooms: true}
	tags := buildFeatureTags(place)
	want := []string{"Study rooms", "Wi-Fi", "Quiet"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}

	place = &models.Place{Category: models.CategoryCafe, HasFood: true}
	tags = buildFeatureTags(place)
	want = []string{"Food", "Wi-Fi", "Cafe vibe"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestSynthesizePreservesRawSource(t *testing.T) {
	s := newTestSynthesizer(1, time.Now())
	payload := json.RawMessage(`{"place_id":"p1","name":"Raw Cafe","extra":true}`)

	place, err := s.Synthesize(places.RawPlace{PlaceID: "p1", Raw: payload}, models.CategoryCafe)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if string(place.RawSource) != string(payload) {
		t.Errorf("RawSource = %s, want original payload", place.RawSource)
	}
}
