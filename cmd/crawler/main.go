// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package main is the entry point for the WorkAround crawler.
//
// The crawler tiles the configured region into a grid, queries the
// places provider for cafes and libraries around each tile centroid,
// synthesizes study-suitability attributes for each venue, and upserts
// the records into the store. Runs are idempotent: re-crawling a
// region replaces records in place rather than duplicating them.
//
// # Example Usage
//
//	export PROVIDER_API_KEY=your-key
//	export DATABASE_PATH=/data/workaround
//	./workaround-crawler
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/workaround-app/workaround/internal/config"
	"github.com/workaround-app/workaround/internal/crawl"
	"github.com/workaround-app/workaround/internal/logging"
	"github.com/workaround-app/workaround/internal/places"
	"github.com/workaround-app/workaround/internal/store"
	"github.com/workaround-app/workaround/internal/synth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if err := cfg.RequireProviderKey(); err != nil {
		logging.Fatal().Err(err).Msg("Crawler cannot start")
	}

	logging.Info().
		Float64("min_lat", cfg.Region.Bounds.MinLat).
		Float64("max_lat", cfg.Region.Bounds.MaxLat).
		Float64("min_lng", cfg.Region.Bounds.MinLng).
		Float64("max_lng", cfg.Region.Bounds.MaxLng).
		Int("grid_size", cfg.Crawl.GridSize).
		Msg("Starting crawl")

	records, err := store.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer func() {
		if err := records.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing record store")
		}
	}()

	provider := places.NewBreakerSearcher(places.NewClient(&cfg.Provider))
	synthesizer := synth.New(nil, nil)

	ingestor := crawl.New(provider, records, synthesizer, crawl.Config{
		Region:       cfg.Region.Bounds,
		GridSize:     cfg.Crawl.GridSize,
		Workers:      cfg.Crawl.Workers,
		RadiusMeters: cfg.Provider.RadiusMeters,
		PageBackoff:  cfg.Provider.PageBackoff,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal, stopping crawl")
		cancel()
	}()

	summary, err := ingestor.Run(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("Crawl failed")
	}

	logging.Info().
		Str("run_id", summary.RunID).
		Int64("accepted", summary.Accepted).
		Int64("duplicates", summary.Duplicates).
		Int64("skipped", summary.Skipped).
		Int64("page_errors", summary.PageErrors).
		Int("tiles", summary.Tiles).
		Dur("duration", summary.Duration).
		Msg("Crawl complete")
}
