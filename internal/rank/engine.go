// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package rank implements the read path: a composable filter over study
// spaces, a weighted suitability scorer, and the deterministic ordering the
// query surface returns.
package rank

import (
	"fmt"
	"sort"
	"time"

	"github.com/workaround-app/workaround/internal/models"
)

// Engine orchestrates filter, score and sort. Stateless per call except for
// the weight registry, which is snapshotted at the start of each Rank call.
type Engine struct {
	weights *WeightRegistry
	now     func() time.Time
}

// NewEngine creates a ranking engine. A nil now falls back to time.Now;
// tests inject a fixed clock to pin the open-now predicate.
func NewEngine(weights *WeightRegistry, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{weights: weights, now: now}
}

// Rank applies the bounding-box pre-filter (when criteria carries bounds),
// then the filter predicates, scores every surviving record and returns the
// full sequence ordered by score descending. Ties break by identity
// ascending so output is deterministic. No pagination is applied here.
func (e *Engine) Rank(records []*models.Place, criteria models.FilterCriteria) []models.ScoredPlace {
	weights := e.weights.Current()
	now := e.now()
	timeOfDay := fmt.Sprintf("%02d:%02d", now.Hour(), now.Minute())

	ranked := make([]models.ScoredPlace, 0, len(records))
	for _, place := range records {
		if place == nil {
			continue
		}
		if criteria.Bounds != nil && !criteria.Bounds.Contains(place.Coordinates) {
			continue
		}
		if !Matches(place, criteria, timeOfDay) {
			continue
		}

		ranked = append(ranked, models.ScoredPlace{
			Place: *place,
			Score: Score(place, weights),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})

	return ranked
}

// Weights exposes the registry for the admin surface.
func (e *Engine) Weights() *WeightRegistry {
	return e.weights
}
