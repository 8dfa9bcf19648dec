// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package api

import (
	"net/http"
	"time"

	"github.com/workaround-app/workaround/internal/models"
)

// healthStatus is the payload of the health endpoints.
type healthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Count  int    `json:"count,omitempty"`
}

// HealthLive reports process liveness. Always 200 while the process runs.
//
// Method: GET
// Path: /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     healthStatus{Status: "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady reports readiness: the record store must answer a read.
//
// Method: GET
// Path: /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.records == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Record store not available", nil)
		return
	}

	records, err := h.records.List(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR", "Record store not ready", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     healthStatus{Status: "ready", Store: "ok", Count: len(records)},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
