// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/geocheck/internal/validator"
)

func openTestStore(t *testing.T, cfg Config) *Store {
	t.Helper()
	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, Config{})

	idx := 3
	r := &Report{
		Variant:   "line_topology",
		Dataset:   "roads.geojson",
		Mode:      "feature",
		Index:     &idx,
		Valid:     false,
		StartedAt: time.Now().UTC().Truncate(time.Millisecond),
		Duration:  42 * time.Millisecond,
		Predicates: []validator.PredicateResult{
			{Name: validator.PredicateNoDanglingNodes, Passed: false, Offenders: []int{3}},
		},
	}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if r.ID == "" {
		t.Fatal("Save() did not assign an ID")
	}

	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Variant != r.Variant || got.Dataset != r.Dataset || got.Valid {
		t.Errorf("Get() = %+v", got)
	}
	if got.Index == nil || *got.Index != 3 {
		t.Errorf("Index = %v, want 3", got.Index)
	}
	if !got.StartedAt.Equal(r.StartedAt) || got.Duration != r.Duration {
		t.Errorf("timing = %v/%v, want %v/%v", got.StartedAt, got.Duration, r.StartedAt, r.Duration)
	}
	if len(got.Predicates) != 1 || got.Predicates[0].Name != validator.PredicateNoDanglingNodes {
		t.Errorf("Predicates = %+v", got.Predicates)
	}
}

func TestGetUnknown(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, Config{})

	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrReportNotFound) {
		t.Errorf("Get() error = %v, want ErrReportNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openTestStore(t, Config{})

	var ids []string
	for _, ds := range []string{"a", "b", "c", "d"} {
		r := &Report{Variant: "point_data", Dataset: ds, Mode: "dataset", Valid: true}
		if err := s.Save(ctx, r); err != nil {
			t.Fatalf("Save(%s) error = %v", ds, err)
		}
		ids = append(ids, r.ID)
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List() returned %d reports, want 4", len(all))
	}
	for i, r := range all {
		if want := ids[len(ids)-1-i]; r.ID != want {
			t.Errorf("List()[%d].ID = %s, want %s", i, r.ID, want)
		}
	}

	two, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("List(2) error = %v", err)
	}
	if len(two) != 2 || two[0].Dataset != "d" || two[1].Dataset != "c" {
		t.Errorf("List(2) = %+v", two)
	}
}

func TestListEmpty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, Config{})

	got, err := s.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %v, want empty non-nil slice", got)
	}
}

func TestPersistentStoreSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(Config{Path: dir, TTL: time.Hour})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	r := &Report{Variant: "polygon_data", Dataset: "parcels.wkt", Mode: "dataset"}
	if err := s.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s = openTestStore(t, Config{Path: dir})
	got, err := s.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if got.Dataset != "parcels.wkt" {
		t.Errorf("Dataset = %q", got.Dataset)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, Config{GCInterval: time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestSaveCancelled(t *testing.T) {
	t.Parallel()
	s := openTestStore(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Save(ctx, &Report{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() = %v, want context.Canceled", err)
	}
}
