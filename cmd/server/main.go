// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package main is the entry point for the WorkAround API server.
//
// The server loads previously crawled study venues from the record
// store and serves ranked, filtered results over a REST API.
//
// # Application Architecture
//
// Components are initialized in the following order:
//
//  1. Configuration: layered sources via Koanf v2 (defaults, YAML file,
//     environment variables)
//  2. Record store: BadgerDB keyed by venue ID
//  3. Ranking engine: weighted scoring with a runtime-adjustable
//     weight registry
//  4. HTTP server: Chi router under a suture supervision tree
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (SERVER_PORT, DATABASE_PATH, LOG_LEVEL, ...)
//   - Config file (CONFIG_PATH or ./config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests under a timeout, then the store is closed.
//
// # Example Usage
//
//	export DATABASE_PATH=/data/workaround
//	export SERVER_PORT=3000
//	./workaround-server
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/workaround-app/workaround/internal/api"
	"github.com/workaround-app/workaround/internal/config"
	"github.com/workaround-app/workaround/internal/logging"
	"github.com/workaround-app/workaround/internal/rank"
	"github.com/workaround-app/workaround/internal/store"
	"github.com/workaround-app/workaround/internal/supervisor"
	"github.com/workaround-app/workaround/internal/supervisor/services"
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

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting WorkAround server")

	records, err := store.Open(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer func() {
		if err := records.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing record store")
		}
	}()

	if count, err := records.Count(context.Background()); err == nil {
		logging.Info().Int("venues", count).Msg("Record store opened")
	}

	weights := rank.NewWeightRegistry(cfg.Ranking.Weights)
	engine := rank.NewEngine(weights, nil)

	handler := api.NewHandler(records, engine)
	router := api.NewRouter(handler, &cfg.Server)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewStoreGCService(records, cfg.Database.GCInterval))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
