// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package rank

import (
	"math"
	"testing"

	"github.com/workaround-app/workaround/internal/models"
)

func TestNormalizeAttr(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		invert bool
		want   float64
	}{
		{"floor", 1, false, 0.0},
		{"ceiling", 5, false, 1.0},
		{"midpoint", 3, false, 0.5},
		{"clamped high", 9, false, 1.0},
		{"missing", 0, false, 0.0},
		{"negative treated as missing", -2, false, 0.0},
		{"inverted floor", 1, true, 1.0},
		{"inverted ceiling", 5, true, 0.0},
		{"inverted midpoint", 3, true, 0.5},
		{"inverted missing", 0, true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeAttr(tt.value, tt.invert)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("normalizeAttr(%d, %v) = %v, want %v", tt.value, tt.invert, got, tt.want)
			}
		})
	}
}

func TestScoreIdealSpace(t *testing.T) {
	// Quiet, empty, best wifi/outlets/parking maximizes every dimension.
	place := &models.Place{
		NoiseLevel:          1,
		OccupancyLevel:      1,
		WifiQuality:         5,
		OutletAvailability:  5,
		ParkingAvailability: 5,
	}
	weights := models.DefaultWeights()

	got := Score(place, weights)
	if math.Abs(got-weights.Sum()) > 1e-9 {
		t.Errorf("Score = %v, want weight sum %v", got, weights.Sum())
	}
}

func TestScoreWorstSpace(t *testing.T) {
	place := &models.Place{
		NoiseLevel:          5,
		OccupancyLevel:      5,
		WifiQuality:         1,
		OutletAvailability:  1,
		ParkingAvailability: 1,
	}

	got := Score(place, models.DefaultWeights())
	if got != 0 {
		t.Errorf("Score = %v, want 0", got)
	}
}

func TestScoreWifiMonotonic(t *testing.T) {
	base := models.Place{
		NoiseLevel:          3,
		OccupancyLevel:      3,
		WifiQuality:         2,
		OutletAvailability:  3,
		ParkingAvailability: 3,
	}
	better := base
	better.WifiQuality = 5

	weights := models.DefaultWeights()
	if Score(&better, weights) <= Score(&base, weights) {
		t.Error("raising wifi quality did not raise the score")
	}
}

func TestScoreNoiseInverted(t *testing.T) {
	quiet := models.Place{
		NoiseLevel:          1,
		OccupancyLevel:      3,
		WifiQuality:         3,
		OutletAvailability:  3,
		ParkingAvailability: 3,
	}
	loud := quiet
	loud.NoiseLevel = 5

	weights := models.DefaultWeights()
	if Score(&quiet, weights) <= Score(&loud, weights) {
		t.Error("quieter space did not outscore louder space")
	}
}

func TestScoreZeroWeights(t *testing.T) {
	place := &models.Place{
		NoiseLevel:          1,
		OccupancyLevel:      1,
		WifiQuality:         5,
		OutletAvailability:  5,
		ParkingAvailability: 5,
	}

	if got := Score(place, models.Weights{}); got != 0 {
		t.Errorf("Score with zero weights = %v, want 0", got)
	}
}
