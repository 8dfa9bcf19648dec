// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package rank

import (
	"github.com/workaround-app/workaround/internal/models"
)

// Study attribute raw domain.
const (
	attrMin = 1
	attrMax = 5
)

// normalizeAttr maps a raw attribute value into [0,1] by clamping into
// [attrMin, attrMax] and scaling. Inverted dimensions (noise, occupancy)
// flip the scale so that lower raw values score higher. Missing values
// (zero, below the domain floor after clamping semantics of the source)
// normalize to 0 rather than erroring.
func normalizeAttr(value int, invert bool) float64 {
	if value <= 0 {
		return 0.0
	}

	clamped := value
	if clamped < attrMin {
		clamped = attrMin
	}
	if clamped > attrMax {
		clamped = attrMax
	}

	norm := float64(clamped-attrMin) / float64(attrMax-attrMin)
	if invert {
		return 1 - norm
	}
	return norm
}

// Score computes the weighted composite suitability score of a place. The
// result is non-negative and bounded by weights.Sum().
func Score(place *models.Place, weights models.Weights) float64 {
	noiseScore := normalizeAttr(place.NoiseLevel, true)
	occupancyScore := normalizeAttr(place.OccupancyLevel, true)
	wifiScore := normalizeAttr(place.WifiQuality, false)
	outletScore := normalizeAttr(place.OutletAvailability, false)
	parkingScore := normalizeAttr(place.ParkingAvailability, false)

	return weights.NoiseLevel*noiseScore +
		weights.OccupancyLevel*occupancyScore +
		weights.WifiQuality*wifiScore +
		weights.OutletAvailability*outletScore +
		weights.ParkingAvailability*parkingScore
}
