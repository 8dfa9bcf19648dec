// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched, in
// order. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/workaround/config.yaml",
	"/etc/workaround/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// sliceConfigPaths lists config keys that hold string slices and may arrive
// from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// Load builds the configuration from layered sources:
//
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
//
// Environment variables map section-first: PROVIDER_API_KEY ->
// provider.api_key, SERVER_PORT -> server.port, CRAWL_GRID_SIZE ->
// crawl.grid_size.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the path of the first config file found, or empty.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		return ""
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - PROVIDER_API_KEY -> provider.api_key
//   - REGION_BOUNDS_MIN_LAT -> region.bounds.min_lat
//   - SERVER_CORS_ORIGINS -> server.cors_origins
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	// Explicit mappings for names that don't follow the section_field rule.
	envMappings := map[string]string{
		"provider_api_key":             "provider.api_key",
		"provider_base_url":            "provider.base_url",
		"provider_radius_meters":       "provider.radius_meters",
		"provider_page_backoff":        "provider.page_backoff",
		"provider_timeout":             "provider.timeout",
		"provider_requests_per_second": "provider.requests_per_second",
		"region_bounds_min_lat":        "region.bounds.min_lat",
		"region_bounds_max_lat":        "region.bounds.max_lat",
		"region_bounds_min_lng":        "region.bounds.min_lng",
		"region_bounds_max_lng":        "region.bounds.max_lng",
		"crawl_grid_size":              "crawl.grid_size",
		"crawl_workers":                "crawl.workers",
		"database_path":                "database.path",
		"database_in_memory":           "database.in_memory",
		"database_gc_interval":         "database.gc_interval",
		"server_host":                  "server.host",
		"server_port":                  "server.port",
		"server_read_timeout":          "server.read_timeout",
		"server_write_timeout":         "server.write_timeout",
		"server_shutdown_timeout":      "server.shutdown_timeout",
		"server_cors_origins":          "server.cors_origins",
		"server_rate_limit_reqs":       "server.rate_limit_reqs",
		"server_rate_limit_window":     "server.rate_limit_window",
		"log_level":                    "logging.level",
		"log_format":                   "logging.format",
		"log_caller":                   "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unknown variables are ignored rather than polluting the tree.
	return ""
}

// processSliceFields converts comma-separated env strings into string
// slices for the registered slice-valued keys.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}
