// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package services

import (
	"context"
	"time"

	"github.com/workaround-app/workaround/internal/logging"
)

// GarbageCollector is satisfied by the Badger-backed record store.
type GarbageCollector interface {
	RunGC() error
}

// StoreGCService periodically runs value-log garbage collection on the
// record store. Badger only reclaims value-log space when asked, so a
// long-running server needs this loop.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	name     string
}

// NewStoreGCService creates the GC loop with the given interval.
func NewStoreGCService(store GarbageCollector, interval time.Duration) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		name:     "store-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	logger := logging.With("store-gc")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.store.RunGC(); err != nil {
				logger.Warn().Err(err).Msg("Value log GC failed")
				continue
			}
			logger.Debug().Msg("Value log GC cycle complete")
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *StoreGCService) String() string {
	return s.name
}
