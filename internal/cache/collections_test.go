// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/geocheck/internal/feature"
)

func writeWKT(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// countingCollections wraps feature.Load to count real reads.
func countingCollections(capacity int) (*Collections, *int) {
	c := NewCollections(capacity, time.Minute)
	loads := 0
	c.load = func(path string) (*feature.Collection, error) {
		loads++
		return feature.Load(path)
	}
	return c, &loads
}

func TestCollections_ReusesUnchangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.wkt")
	writeWKT(t, path, "POINT (1 1)\nPOINT (2 2)\n")

	c, loads := countingCollections(4)

	first, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := c.Load(filepath.Join(filepath.Dir(path), ".", "points.wkt"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if first != second {
		t.Error("unchanged file should return the cached collection")
	}
	if *loads != 1 {
		t.Errorf("loads = %d, want 1", *loads)
	}
	if first.Len() != 2 {
		t.Errorf("Len() = %d, want 2", first.Len())
	}
	if s := c.Stats(); s.Hits != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestCollections_ReloadsChangedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.wkt")
	writeWKT(t, path, "POINT (1 1)\n")

	c, loads := countingCollections(4)
	if _, err := c.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	writeWKT(t, path, "POINT (1 1)\nPOINT (2 2)\nPOINT (3 3)\n")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}

	coll, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if coll.Len() != 3 {
		t.Errorf("Len() = %d, want 3 after rewrite", coll.Len())
	}
	if *loads != 2 {
		t.Errorf("loads = %d, want 2", *loads)
	}
}

func TestCollections_DoesNotCacheErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wkt")
	writeWKT(t, path, "POINT (1 1\n")

	c, loads := countingCollections(4)
	if _, err := c.Load(path); err == nil {
		t.Fatal("malformed WKT should fail")
	}
	if _, err := c.Load(path); err == nil {
		t.Fatal("malformed WKT should fail again")
	}
	if *loads != 2 {
		t.Errorf("loads = %d, want 2", *loads)
	}
	if c.Stats().Size != 0 {
		t.Error("failed load should not be cached")
	}

	_, err := c.Load(filepath.Join(dir, "missing.wkt"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestCollections_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	c := NewCollections(1, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if c.String() != "collection-cache" {
		t.Errorf("String() = %q", c.String())
	}
}
