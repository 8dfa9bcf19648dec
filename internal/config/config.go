// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package config provides layered configuration loading for WorkAround using
// Koanf v2. Precedence, highest wins: environment variables > YAML config
// file > built-in defaults.
package config

import (
	"fmt"
	"time"

	"github.com/workaround-app/workaround/internal/models"
)

// Config is the root configuration for both binaries. The server ignores the
// Provider and Crawl sections; the crawler ignores the Server section.
type Config struct {
	Provider ProviderConfig `koanf:"provider"`
	Region   RegionConfig   `koanf:"region"`
	Crawl    CrawlConfig    `koanf:"crawl"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Ranking  RankingConfig  `koanf:"ranking"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ProviderConfig configures the external places provider.
type ProviderConfig struct {
	// APIKey authenticates against the provider. Required for ingestion;
	// its absence is the only process-fatal configuration error.
	APIKey string `koanf:"api_key"`

	// BaseURL is the nearby-search endpoint. Overridable for tests.
	BaseURL string `koanf:"base_url"`

	// RadiusMeters is the search radius per tile query.
	RadiusMeters int `koanf:"radius_meters"`

	// PageBackoff is the mandatory delay before a continuation token
	// becomes valid. The provider contract requires roughly 2s.
	PageBackoff time.Duration `koanf:"page_backoff"`

	// Timeout bounds a single HTTP request.
	Timeout time.Duration `koanf:"timeout"`

	// RequestsPerSecond caps the aggregate request rate across all tile
	// workers. Zero disables limiting.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

// RegionConfig is the crawl region bounding box.
type RegionConfig struct {
	Bounds models.BoundingBox `koanf:"bounds"`
}

// CrawlConfig tunes the tile ingestor.
type CrawlConfig struct {
	// GridSize partitions the region into GridSize x GridSize tiles.
	GridSize int `koanf:"grid_size"`

	// Workers is the number of concurrent tile workers.
	Workers int `koanf:"workers"`
}

// DatabaseConfig configures the BadgerDB record store.
type DatabaseConfig struct {
	Path string `koanf:"path"`

	// InMemory runs Badger without disk persistence. Tests only.
	InMemory bool `koanf:"in_memory"`

	// GCInterval is how often the value-log garbage collector runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// ServerConfig configures the HTTP query surface.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RankingConfig seeds the weight registry at startup.
type RankingConfig struct {
	Weights models.Weights `koanf:"weights"`
}

// LoggingConfig configures the zerolog facade.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all defaults applied. The region
// defaults to the Orange County bounding box the original deployment
// crawled.
func defaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			APIKey:            "",
			BaseURL:           "https://maps.googleapis.com/maps/api/place/nearbysearch/json",
			RadiusMeters:      5000,
			PageBackoff:       2 * time.Second,
			Timeout:           30 * time.Second,
			RequestsPerSecond: 10,
		},
		Region: RegionConfig{
			Bounds: models.BoundingBox{
				MinLat: 33.4,
				MaxLat: 33.9,
				MinLng: -118.1,
				MaxLng: -117.5,
			},
		},
		Crawl: CrawlConfig{
			GridSize: 10,
			Workers:  4,
		},
		Database: DatabaseConfig{
			Path:       "/data/workaround",
			InMemory:   false,
			GCInterval: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Ranking: RankingConfig{
			Weights: models.DefaultWeights(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks value ranges that apply to both binaries. Provider
// credentials are checked separately by RequireProviderKey because only the
// crawler needs them.
func (c *Config) Validate() error {
	if !c.Region.Bounds.Valid() {
		return fmt.Errorf("region.bounds: invalid bounding box %+v", c.Region.Bounds)
	}
	if c.Crawl.GridSize < 1 {
		return fmt.Errorf("crawl.grid_size must be >= 1, got %d", c.Crawl.GridSize)
	}
	if c.Crawl.Workers < 1 {
		return fmt.Errorf("crawl.workers must be >= 1, got %d", c.Crawl.Workers)
	}
	if c.Provider.RadiusMeters <= 0 {
		return fmt.Errorf("provider.radius_meters must be > 0, got %d", c.Provider.RadiusMeters)
	}
	if c.Provider.PageBackoff < 0 {
		return fmt.Errorf("provider.page_backoff must be >= 0, got %s", c.Provider.PageBackoff)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port)
	}
	if !c.Ranking.Weights.NonNegative() {
		return fmt.Errorf("ranking.weights must all be >= 0")
	}
	return nil
}

// RequireProviderKey returns an error when no provider credential is
// configured. Called by the crawler at startup, before any ingestion begins.
func (c *Config) RequireProviderKey() error {
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required (set PROVIDER_API_KEY)")
	}
	return nil
}
