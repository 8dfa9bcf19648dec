// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package api provides the HTTP query surface for WorkAround: the ranked
// study-space query, single-record lookup, ranking-weights administration,
// and health endpoints.
//
// All handlers follow a consistent pattern:
//  1. Parameter parsing with boundary validation
//  2. Store read with request context
//  3. JSON response in the standard envelope with query timing metadata
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/workaround-app/workaround/internal/models"
	"github.com/workaround-app/workaround/internal/rank"
	"github.com/workaround-app/workaround/internal/store"
)

// Handler bundles the dependencies of the HTTP surface.
type Handler struct {
	records store.RecordStore
	engine  *rank.Engine
}

// NewHandler creates the API handler set.
func NewHandler(records store.RecordStore, engine *rank.Engine) *Handler {
	return &Handler{records: records, engine: engine}
}

// spacesRequest mirrors the query parameters of GET /api/v1/spaces for
// range validation.
type spacesRequest struct {
	MinRating    float64 `validate:"min=0,max=5"`
	MaxGroupSize int     `validate:"min=0"`
	MinParking   int     `validate:"min=0,max=5"`
	MinOutlets   int     `validate:"min=0,max=5"`
	MinWifi      int     `validate:"min=0,max=5"`
	Category     string  `validate:"oneof=any cafe library"`
}

// Spaces returns the ranked, filtered study spaces.
//
// Method: GET
// Path: /api/v1/spaces
//
// Query parameters: min_rating, type, max_group_size, q, min_parking,
// min_outlets, min_wifi, require_food, require_study_rooms, open_now
// (default true), and the optional bounding box min_lat/max_lat/
// min_lng/max_lng (all four or none).
func (h *Handler) Spaces(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseFilterCriteria(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), err)
		return
	}

	req := spacesRequest{
		MinRating:    criteria.MinRating,
		MaxGroupSize: criteria.MaxGroupSize,
		MinParking:   criteria.MinParking,
		MinOutlets:   criteria.MinOutlets,
		MinWifi:      criteria.MinWifi,
		Category:     string(criteria.Category),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	start := time.Now()
	records, err := h.records.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load study spaces", err)
		return
	}

	ranked := h.engine.Rank(records, *criteria)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   ranked,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Count:       len(ranked),
		},
	})
}

// SpaceByID returns a single study space.
//
// Method: GET
// Path: /api/v1/spaces/{id}
func (h *Handler) SpaceByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Missing space id", nil)
		return
	}

	start := time.Now()
	place, err := h.records.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Space not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "STORE_ERROR", "Failed to load space", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   place,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetWeights returns the current ranking weights.
//
// Method: GET
// Path: /api/v1/ranking-weights
func (h *Handler) GetWeights(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     h.engine.Weights().Current(),
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// UpdateWeights merge-overwrites the ranking weights. Keys absent from the
// request body keep their prior value; negative weights are rejected.
//
// Method: PUT
// Path: /api/v1/ranking-weights
func (h *Handler) UpdateWeights(w http.ResponseWriter, r *http.Request) {
	var patch models.WeightsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid weights payload", err)
		return
	}

	merged, err := h.engine.Weights().Merge(patch)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     merged,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// parseFilterCriteria builds FilterCriteria from query parameters,
// rejecting malformed values at the boundary. Defaults: category "any",
// open_now true, numeric minimums absent means unconstrained.
func parseFilterCriteria(r *http.Request) (*models.FilterCriteria, error) {
	criteria := &models.FilterCriteria{
		Category: models.CategoryAny,
		Query:    r.URL.Query().Get("q"),
	}

	var err error
	if criteria.MinRating, err = getFloatParam(r, "min_rating", 0); err != nil {
		return nil, err
	}
	if rawType := r.URL.Query().Get("type"); rawType != "" {
		criteria.Category = models.Category(rawType)
	}
	if criteria.MaxGroupSize, err = getIntParam(r, "max_group_size", 0); err != nil {
		return nil, err
	}
	if criteria.MinParking, err = getIntParam(r, "min_parking", 0); err != nil {
		return nil, err
	}
	if criteria.MinOutlets, err = getIntParam(r, "min_outlets", 0); err != nil {
		return nil, err
	}
	if criteria.MinWifi, err = getIntParam(r, "min_wifi", 0); err != nil {
		return nil, err
	}
	if criteria.RequireFood, err = getBoolParam(r, "require_food", false); err != nil {
		return nil, err
	}
	if criteria.RequireStudyRooms, err = getBoolParam(r, "require_study_rooms", false); err != nil {
		return nil, err
	}
	if criteria.OpenNow, err = getBoolParam(r, "open_now", true); err != nil {
		return nil, err
	}

	bounds, err := parseBounds(r)
	if err != nil {
		return nil, err
	}
	criteria.Bounds = bounds

	return criteria, nil
}

// parseBounds reads the optional map bounds. All four parameters must be
// supplied together.
func parseBounds(r *http.Request) (*models.BoundingBox, error) {
	keys := []string{"min_lat", "max_lat", "min_lng", "max_lng"}
	present := 0
	for _, key := range keys {
		if r.URL.Query().Get(key) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present != len(keys) {
		return nil, errors.New("bounding box requires min_lat, max_lat, min_lng and max_lng together")
	}

	var bounds models.BoundingBox
	var err error
	if bounds.MinLat, err = getFloatParam(r, "min_lat", 0); err != nil {
		return nil, err
	}
	if bounds.MaxLat, err = getFloatParam(r, "max_lat", 0); err != nil {
		return nil, err
	}
	if bounds.MinLng, err = getFloatParam(r, "min_lng", 0); err != nil {
		return nil, err
	}
	if bounds.MaxLng, err = getFloatParam(r, "max_lng", 0); err != nil {
		return nil, err
	}

	if !bounds.Valid() {
		return nil, errors.New("bounding box coordinates out of range")
	}
	return &bounds, nil
}
