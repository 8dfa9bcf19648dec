// WorkAround - Study Venue Discovery and Ranking
// Copyright 2026 WorkAround Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/workaround-app/workaround

// Package store persists study-space records in BadgerDB with
// create-or-replace semantics keyed by place identity. Replacement is
// wholesale, not a merge, so re-ingesting a place resets its randomized
// attributes.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/workaround-app/workaround/internal/config"
	"github.com/workaround-app/workaround/internal/logging"
	"github.com/workaround-app/workaround/internal/metrics"
	"github.com/workaround-app/workaround/internal/models"
)

// placeKeyPrefix namespaces place records within the keyspace.
const placeKeyPrefix = "place:"

// ErrNotFound indicates no record exists for the requested identity.
var ErrNotFound = errors.New("place not found")

// RecordStore is the persistence contract consumed by the crawler (writes)
// and the ranking engine (reads).
type RecordStore interface {
	// Upsert creates or wholesale-replaces the record stored under its ID.
	Upsert(ctx context.Context, place *models.Place) error

	// Get returns the record for the given identity, or ErrNotFound.
	Get(ctx context.Context, id string) (*models.Place, error)

	// List returns every stored record.
	List(ctx context.Context) ([]*models.Place, error)

	Close() error
}

// BadgerStore implements RecordStore on BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

// Open opens (or creates) the store at the configured path. With
// cfg.InMemory set, the store lives entirely in memory; tests use this.
func Open(cfg *config.DatabaseConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	// Badger's default logger writes unstructured lines; route through a
	// zerolog adapter instead.
	opts = opts.WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", cfg.Path, err)
	}

	return &BadgerStore{db: db}, nil
}

// Upsert stores the record under its identity, replacing any prior value.
func (s *BadgerStore) Upsert(ctx context.Context, place *models.Place) error {
	if place == nil || place.ID == "" {
		return fmt.Errorf("upsert: record has no identity")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(place)
	if err != nil {
		return fmt.Errorf("marshal place %s: %w", place.ID, err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(placeKeyPrefix+place.ID), data)
	})
	metrics.StoreUpsertDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		return fmt.Errorf("upsert place %s: %w", place.ID, err)
	}
	return nil
}

// Get retrieves a record by identity.
func (s *BadgerStore) Get(ctx context.Context, id string) (*models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var place models.Place
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(placeKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get place %s: %w", id, err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &place)
		})
	})

	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			metrics.StoreErrors.WithLabelValues("get").Inc()
		}
		return nil, err
	}
	return &place, nil
}

// List returns all stored records by prefix scan. The full set is read into
// memory; the ranking path filters and scores it per request.
func (s *BadgerStore) List(ctx context.Context) ([]*models.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var places []*models.Place
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(placeKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var place models.Place
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &place)
			})
			if err != nil {
				return fmt.Errorf("decode record %s: %w", it.Item().Key(), err)
			}
			places = append(places, &place)
		}
		return nil
	})

	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, err
	}
	return places, nil
}

// Count returns the number of stored records without decoding values.
func (s *BadgerStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(placeKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

// RunGC runs one value-log garbage collection pass. badger.ErrNoRewrite is
// the normal "nothing to collect" outcome and is not an error to callers.
func (s *BadgerStore) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// badgerLogger adapts Badger's logger interface onto the zerolog facade.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Str("component", "badger").Msgf(format, args...)
}
