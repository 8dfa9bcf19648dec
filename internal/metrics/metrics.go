// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package metrics provides Prometheus instrumentation for WorkAround:
// provider request outcomes, crawl progress, store latency, API throughput,
// and circuit breaker state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_provider_requests_total",
			Help: "Total number of places provider requests",
		},
		[]string{"category", "status"}, // status: "success", "failure", "rejected"
	)

	ProviderPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "places_provider_pages_total",
			Help: "Total number of result pages consumed from the provider",
		},
		[]string{"category"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "places_provider_request_duration_seconds",
			Help:    "Duration of places provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"category"},
	)

	// Crawl metrics
	CrawlAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_records_accepted_total",
			Help: "Total number of records synthesized and upserted",
		},
	)

	CrawlDuplicates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_records_duplicate_total",
			Help: "Total number of records skipped because the identity was already seen",
		},
	)

	CrawlSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_records_skipped_total",
			Help: "Total number of records dropped during ingestion",
		},
		[]string{"reason"}, // "missing_identity", "persist_error"
	)

	CrawlPageErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_page_errors_total",
			Help: "Total number of provider pages skipped due to errors",
		},
	)

	CrawlTilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "crawl_tiles_processed_total",
			Help: "Total number of grid tiles fully processed",
		},
	)

	// Store metrics
	StoreUpsertDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_upsert_duration_seconds",
			Help:    "Duration of record store upserts in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of record store errors",
		},
		[]string{"operation"}, // "upsert", "get", "list"
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"endpoint", "method", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)
)
