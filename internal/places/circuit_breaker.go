// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package places

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/workaround-app/workaround/internal/logging"
	"github.com/workaround-app/workaround/internal/metrics"
	"github.com/workaround-app/workaround/internal/models"
)

const (
	// breakerInterval resets failure counts after this long closed.
	breakerInterval = time.Minute

	// breakerTimeout is the open-to-half-open wait.
	breakerTimeout = 2 * time.Minute
)

// BreakerSearcher wraps a Searcher with a circuit breaker so a degraded
// provider fails fast instead of stalling every tile worker on timeouts.
//
// The breaker uses real time for its interval and timeout calculations;
// tests should stub the inner Searcher rather than mock the breaker.
type BreakerSearcher struct {
	inner Searcher
	cb    *gobreaker.CircuitBreaker[*Page]
	name  string
}

// NewBreakerSearcher wraps inner with circuit breaker protection.
// Configuration: opens at >=60% failures over a minimum of 10 requests in a
// 1-minute window, waits 2 minutes before half-open, allows 3 trial requests
// in half-open state.
func NewBreakerSearcher(inner Searcher) *BreakerSearcher {
	cbName := "places-provider"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[*Page](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    breakerInterval,
		Timeout:     breakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &BreakerSearcher{
		inner: inner,
		cb:    cb,
		name:  cbName,
	}
}

// Search implements Searcher through the breaker.
func (b *BreakerSearcher) Search(ctx context.Context, center models.Coordinates, radiusMeters int, category models.Category, pageToken string) (*Page, error) {
	page, err := b.cb.Execute(func() (*Page, error) {
		return b.inner.Search(ctx, center, radiusMeters, category, pageToken)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		}
		metrics.ProviderRequests.WithLabelValues(string(category), "failure").Inc()
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.ProviderRequests.WithLabelValues(string(category), "success").Inc()
	return page, nil
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
