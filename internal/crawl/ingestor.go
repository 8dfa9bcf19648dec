// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package crawl implements the batch ingestion pass: it tiles the configured
// region into a fixed grid, issues paginated category searches per tile
// centroid, deduplicates venues across overlapping tiles and categories, and
// upserts synthesized records.
//
// This is a batch, not a service. A single run traverses the whole grid and
// terminates; re-running is safe because persistence is an idempotent
// upsert keyed by identity. No error below the configuration level aborts a
// run: bad pages and failed upserts are logged, counted and skipped.
package crawl

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workaround-app/workaround/internal/logging"
	"github.com/workaround-app/workaround/internal/metrics"
	"github.com/workaround-app/workaround/internal/models"
	"github.com/workaround-app/workaround/internal/places"
	"github.com/workaround-app/workaround/internal/store"
	"github.com/workaround-app/workaround/internal/synth"
)

// Config tunes one ingestion run.
type Config struct {
	// Region is the bounding box to tile.
	Region models.BoundingBox

	// GridSize partitions the region into GridSize x GridSize tiles.
	GridSize int

	// Workers is the number of concurrent tile workers. Tiles are
	// independent; page chains within one query stay sequential.
	Workers int

	// RadiusMeters is the search radius per tile query. Adjacent tiles
	// overlap when the radius exceeds the tile spacing; the dedup set
	// absorbs venues surfacing from multiple tiles.
	RadiusMeters int

	// PageBackoff is the wait before a continuation token becomes valid.
	// The provider contract requires roughly 2s.
	PageBackoff time.Duration

	// Categories to query per tile, in order. Defaults to the full
	// closed set; order matters because a venue matching two categories
	// is stored under whichever query found it first.
	Categories []models.Category
}

// Summary aggregates one run's outcome. Accepted is the only statistic the
// run is required to report; the rest aid debugging.
type Summary struct {
	RunID      string        `json:"run_id"`
	Accepted   int64         `json:"accepted"`
	Duplicates int64         `json:"duplicates"`
	Skipped    int64         `json:"skipped"`
	PageErrors int64         `json:"page_errors"`
	Tiles      int           `json:"tiles"`
	Duration   time.Duration `json:"duration"`
}

// Ingestor runs ingestion passes.
type Ingestor struct {
	provider places.Searcher
	records  store.RecordStore
	synth    *synth.Synthesizer
	cfg      Config
	logger   zerolog.Logger
}

// New creates an Ingestor. Missing Config fields get working defaults.
func New(provider places.Searcher, records store.RecordStore, synthesizer *synth.Synthesizer, cfg Config) *Ingestor {
	if cfg.GridSize < 1 {
		cfg.GridSize = 10
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.RadiusMeters <= 0 {
		cfg.RadiusMeters = 5000
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = models.Categories
	}

	return &Ingestor{
		provider: provider,
		records:  records,
		synth:    synthesizer,
		cfg:      cfg,
		logger:   logging.With("crawl"),
	}
}

// tile is one grid cell, identified by its row/column for logging.
type tile struct {
	row, col int
	center   models.Coordinates
}

// seenSet is the process-lifetime dedup set shared by all tile workers.
// Losing the race (two workers both deciding "not seen") is harmless
// because upserts are idempotent, but the mutex makes it not happen.
type seenSet struct {
	mu sync.Mutex
	m  map[string]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{m: make(map[string]struct{})}
}

// add records the identity, reporting whether it was new.
func (s *seenSet) add(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[id]; ok {
		return false
	}
	s.m[id] = struct{}{}
	return true
}

// Run executes one full ingestion pass. It returns the run summary and a
// non-nil error only when the context was canceled before the grid was
// fully traversed; per-page and per-record failures are counted, not
// propagated.
func (ing *Ingestor) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		RunID: uuid.NewString(),
		Tiles: ing.cfg.GridSize * ing.cfg.GridSize,
	}
	start := time.Now()

	ing.logger.Info().
		Str("run_id", summary.RunID).
		Int("grid_size", ing.cfg.GridSize).
		Int("workers", ing.cfg.Workers).
		Msg("Starting ingestion run")

	var accepted, duplicates, skipped, pageErrors atomic.Int64
	seen := newSeenSet()

	tiles := make(chan tile)
	var wg sync.WaitGroup
	for w := 0; w < ing.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tiles {
				ing.processTile(ctx, t, seen, &accepted, &duplicates, &skipped, &pageErrors)
				metrics.CrawlTilesProcessed.Inc()
			}
		}()
	}

	latStep := (ing.cfg.Region.MaxLat - ing.cfg.Region.MinLat) / float64(ing.cfg.GridSize)
	lngStep := (ing.cfg.Region.MaxLng - ing.cfg.Region.MinLng) / float64(ing.cfg.GridSize)

feed:
	for i := 0; i < ing.cfg.GridSize; i++ {
		for j := 0; j < ing.cfg.GridSize; j++ {
			t := tile{
				row: i,
				col: j,
				center: models.Coordinates{
					Lat: ing.cfg.Region.MinLat + (float64(i)+0.5)*latStep,
					Lng: ing.cfg.Region.MinLng + (float64(j)+0.5)*lngStep,
				},
			}
			select {
			case tiles <- t:
			case <-ctx.Done():
				break feed
			}
		}
	}
	close(tiles)
	wg.Wait()

	summary.Accepted = accepted.Load()
	summary.Duplicates = duplicates.Load()
	summary.Skipped = skipped.Load()
	summary.PageErrors = pageErrors.Load()
	summary.Duration = time.Since(start)

	ing.logger.Info().
		Str("run_id", summary.RunID).
		Int64("accepted", summary.Accepted).
		Int64("duplicates", summary.Duplicates).
		Int64("skipped", summary.Skipped).
		Int64("page_errors", summary.PageErrors).
		Dur("duration", summary.Duration).
		Msg("Ingestion run complete")

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processTile runs every category query for one tile.
func (ing *Ingestor) processTile(ctx context.Context, t tile, seen *seenSet, accepted, duplicates, skipped, pageErrors *atomic.Int64) {
	for _, category := range ing.cfg.Categories {
		if ctx.Err() != nil {
			return
		}
		ing.fetchCategory(ctx, t, category, seen, accepted, duplicates, skipped, pageErrors)
	}
}

// fetchCategory follows one query's page chain to completion. Pages within
// the chain are strictly sequential: each continuation token is valid only
// after the backoff elapses, so this loop must not be parallelized.
func (ing *Ingestor) fetchCategory(ctx context.Context, t tile, category models.Category, seen *seenSet, accepted, duplicates, skipped, pageErrors *atomic.Int64) {
	logger := ing.logger.With().
		Int("row", t.row).Int("col", t.col).
		Str("category", string(category)).
		Logger()

	pageToken := ""
	for {
		page, err := ing.provider.Search(ctx, t.center, ing.cfg.RadiusMeters, category, pageToken)
		if err != nil {
			// A bad page kills this query's chain, not the run.
			logger.Warn().Err(err).Msg("Provider page failed, skipping query")
			pageErrors.Add(1)
			metrics.CrawlPageErrors.Inc()
			return
		}
		metrics.ProviderPages.WithLabelValues(string(category)).Inc()

		for i := range page.Results {
			ing.processResult(ctx, &page.Results[i], category, seen, accepted, duplicates, skipped, logger)
		}

		// Absent token ends pagination; zero results is not an error.
		if page.NextToken == "" {
			return
		}
		pageToken = page.NextToken

		// The continuation token is not valid until the backoff elapses.
		select {
		case <-time.After(ing.cfg.PageBackoff):
		case <-ctx.Done():
			return
		}
	}
}

// processResult synthesizes and persists one provider result. Failures are
// counted and skipped so the run continues.
func (ing *Ingestor) processResult(ctx context.Context, raw *places.RawPlace, category models.Category, seen *seenSet, accepted, duplicates, skipped *atomic.Int64, logger zerolog.Logger) {
	if raw.PlaceID == "" {
		skipped.Add(1)
		metrics.CrawlSkipped.WithLabelValues("missing_identity").Inc()
		return
	}

	if !seen.add(raw.PlaceID) {
		duplicates.Add(1)
		metrics.CrawlDuplicates.Inc()
		return
	}

	record, err := ing.synth.Synthesize(*raw, category)
	if err != nil {
		if !errors.Is(err, synth.ErrMissingIdentity) {
			logger.Warn().Err(err).Str("place_id", raw.PlaceID).Msg("Synthesis failed, skipping record")
		}
		skipped.Add(1)
		metrics.CrawlSkipped.WithLabelValues("missing_identity").Inc()
		return
	}

	if err := ing.records.Upsert(ctx, record); err != nil {
		logger.Warn().Err(err).Str("place_id", record.ID).Msg("Upsert failed, skipping record")
		skipped.Add(1)
		metrics.CrawlSkipped.WithLabelValues("persist_error").Inc()
		return
	}

	accepted.Add(1)
	metrics.CrawlAccepted.Inc()
}
