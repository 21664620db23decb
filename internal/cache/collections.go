// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
)

// Lookup results recorded in metrics.
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupStale = "stale"
)

type cachedCollection struct {
	collection *feature.Collection
	modTime    time.Time
	size       int64
}

// Collections memoizes feature.Load by cleaned path.
type Collections struct {
	lru      *LRU[cachedCollection]
	load     func(string) (*feature.Collection, error)
	interval time.Duration
}

// NewCollections creates a collection cache holding up to capacity
// datasets for at most ttl each.
func NewCollections(capacity int, ttl time.Duration) *Collections {
	return &Collections{
		lru:      NewLRU[cachedCollection](capacity, ttl),
		load:     feature.Load,
		interval: ttl,
	}
}

// Load returns the collection for path, reading the file only when it is
// not cached or has changed on disk since it was cached. Errors are never
// cached.
func (c *Collections) Load(path string) (*feature.Collection, error) {
	key := filepath.Clean(path)

	info, err := os.Stat(key)
	if err != nil {
		// Let the loader produce its usual classified error.
		c.lru.Remove(key)
		return c.load(path)
	}

	result := lookupMiss
	if entry, ok := c.lru.Get(key); ok {
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			metrics.RecordCacheLookup(lookupHit)
			return entry.collection, nil
		}
		result = lookupStale
	}
	metrics.RecordCacheLookup(result)

	coll, err := c.load(path)
	if err != nil {
		c.lru.Remove(key)
		return nil, err
	}
	c.lru.Add(key, cachedCollection{collection: coll, modTime: info.ModTime(), size: info.Size()})

	logging.Debug().
		Str("path", key).
		Str("lookup", result).
		Int("features", coll.Len()).
		Msg("dataset cached")
	return coll, nil
}

// Stats returns the underlying LRU counters.
func (c *Collections) Stats() Stats {
	return c.lru.Stats()
}

// Purge drops expired entries.
func (c *Collections) Purge() int {
	return c.lru.CleanupExpired()
}

// Serve purges expired entries once per TTL until ctx is cancelled. It
// implements suture.Service.
func (c *Collections) Serve(ctx context.Context) error {
	interval := c.interval
	if interval <= 0 {
		interval = defaultTTL
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if n := c.Purge(); n > 0 {
				logging.Debug().Int("removed", n).Msg("expired datasets purged")
			}
		}
	}
}

func (c *Collections) String() string {
	return "collection-cache"
}
