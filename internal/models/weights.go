// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package models

// Weights maps the five study-attribute dimensions to non-negative scoring
// weights. Weights need not sum to 1; the composite score is bounded by
// their sum.
type Weights struct {
	NoiseLevel          float64 `json:"noise_level" koanf:"noise_level"`
	OccupancyLevel      float64 `json:"occupancy_level" koanf:"occupancy_level"`
	WifiQuality         float64 `json:"wifi_quality" koanf:"wifi_quality"`
	OutletAvailability  float64 `json:"outlet_availability" koanf:"outlet_availability"`
	ParkingAvailability float64 `json:"parking_availability" koanf:"parking_availability"`
}

// DefaultWeights returns the operator defaults: quiet matters most, parking
// least.
func DefaultWeights() Weights {
	return Weights{
		NoiseLevel:          0.3,
		OccupancyLevel:      0.25,
		WifiQuality:         0.2,
		OutletAvailability:  0.15,
		ParkingAvailability: 0.1,
	}
}

// Sum returns the total weight mass, the upper bound of any composite score.
func (w Weights) Sum() float64 {
	return w.NoiseLevel + w.OccupancyLevel + w.WifiQuality +
		w.OutletAvailability + w.ParkingAvailability
}

// NonNegative reports whether every dimension carries a weight >= 0.
func (w Weights) NonNegative() bool {
	return w.NoiseLevel >= 0 && w.OccupancyLevel >= 0 && w.WifiQuality >= 0 &&
		w.OutletAvailability >= 0 && w.ParkingAvailability >= 0
}

// WeightsPatch is a partial weight update. Nil fields keep their prior
// value (merge-overwrite semantics for the weights admin endpoint).
type WeightsPatch struct {
	NoiseLevel          *float64 `json:"noise_level,omitempty"`
	OccupancyLevel      *float64 `json:"occupancy_level,omitempty"`
	WifiQuality         *float64 `json:"wifi_quality,omitempty"`
	OutletAvailability  *float64 `json:"outlet_availability,omitempty"`
	ParkingAvailability *float64 `json:"parking_availability,omitempty"`
}
