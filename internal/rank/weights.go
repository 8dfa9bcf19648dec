// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package rank

import (
	"fmt"
	"sync"

	"github.com/workaround-app/workaround/internal/models"
)

// WeightRegistry owns the process-wide ranking weights. All access goes
// through the lock: ranking calls snapshot the weights under a read lock at
// the start of each call, so concurrent admin updates can never produce a
// torn weight set mid-score.
type WeightRegistry struct {
	mu sync.RWMutex
	w  models.Weights
}

// NewWeightRegistry creates a registry seeded with the given weights.
func NewWeightRegistry(initial models.Weights) *WeightRegistry {
	return &WeightRegistry{w: initial}
}

// Current returns a snapshot of the weights.
func (r *WeightRegistry) Current() models.Weights {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.w
}

// Merge applies a partial update; nil fields keep their prior value.
// Negative weights are rejected and the registry is left unchanged.
func (r *WeightRegistry) Merge(patch models.WeightsPatch) (models.Weights, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := r.w
	if patch.NoiseLevel != nil {
		merged.NoiseLevel = *patch.NoiseLevel
	}
	if patch.OccupancyLevel != nil {
		merged.OccupancyLevel = *patch.OccupancyLevel
	}
	if patch.WifiQuality != nil {
		merged.WifiQuality = *patch.WifiQuality
	}
	if patch.OutletAvailability != nil {
		merged.OutletAvailability = *patch.OutletAvailability
	}
	if patch.ParkingAvailability != nil {
		merged.ParkingAvailability = *patch.ParkingAvailability
	}

	if !merged.NonNegative() {
		return r.w, fmt.Errorf("weights must be non-negative")
	}

	r.w = merged
	return merged, nil
}
