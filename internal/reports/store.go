// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package reports persists the outcome of validation runs in BadgerDB.
//
// Only run metadata is stored (variant, dataset path, verdicts, failing
// indices); dataset geometry never is. Report IDs are UUIDv7, so key order
// is creation order and List can walk the keyspace backwards for
// newest-first results.
package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
	"github.com/tomtom215/geocheck/internal/validator"
)

const reportKeyPrefix = "report:"

// ErrReportNotFound is returned by Get for unknown or expired IDs.
var ErrReportNotFound = errors.New("report not found")

// Report describes one completed validation run.
type Report struct {
	ID      string `json:"id"`
	Variant string `json:"variant"`
	Dataset string `json:"dataset"`
	Mode    string `json:"mode"`

	// Index is set for single-feature runs.
	Index *int `json:"index,omitempty"`

	Valid bool `json:"valid"`

	// Predicates is the per-predicate breakdown of dataset and feature runs.
	Predicates []validator.PredicateResult `json:"predicates,omitempty"`

	// Failing lists the failing feature indices of a sweep.
	Failing []int `json:"failing,omitempty"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Config configures a Store.
type Config struct {
	// Path is the BadgerDB directory. Empty keeps everything in memory.
	Path string

	// TTL expires reports after the given age. Zero keeps them forever.
	TTL time.Duration

	// GCInterval is how often Serve runs value log GC. Defaults to 10m.
	GCInterval time.Duration
}

// Store is a BadgerDB-backed report store. It is safe for concurrent use.
type Store struct {
	db  *badger.DB
	cfg Config
}

// Open opens (or creates) the store described by cfg.
func Open(cfg Config) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}
	if cfg.GCInterval <= 0 {
		cfg.GCInterval = 10 * time.Minute
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.Path == "").
		Dur("ttl", cfg.TTL).
		Msg("report store opened")
	return &Store{db: db, cfg: cfg}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save assigns r an ID when it has none and stores it.
func (s *Store) Save(ctx context.Context, r *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("generate report id: %w", err)
		}
		r.ID = id.String()
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(reportKeyPrefix+r.ID), data)
		if s.cfg.TTL > 0 {
			entry = entry.WithTTL(s.cfg.TTL)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("set report: %w", err)
	}

	metrics.RecordReportStored()
	return nil
}

// Get returns the report with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var r Report
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(reportKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrReportNotFound
		}
		if err != nil {
			return fmt.Errorf("get report: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &r)
		})
	})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// List returns up to limit reports, newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Report, error) {
	out := []Report{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = []byte(reportKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		// Reverse iteration seeks to the last key <= the seek key.
		seek := append([]byte(reportKeyPrefix), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(opts.Prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var r Report
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode report %s: %w", it.Item().Key(), err)
			}
			out = append(out, r)
			if limit > 0 && len(out) == limit {
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Serve runs value log garbage collection until ctx ends. It implements
// suture.Service.
func (s *Store) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.GCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runGC()
		}
	}
}

func (s *Store) runGC() {
	if s.cfg.Path == "" {
		return
	}
	for {
		// Badger reclaims at most one file per call.
		err := s.db.RunValueLogGC(0.5)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return
		}
		if err != nil {
			logging.Warn().Err(err).Msg("report store GC failed")
			return
		}
	}
}

// String identifies the service in supervisor logs.
func (s *Store) String() string {
	return "report-store"
}
