// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package metrics

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/geocheck/internal/geometry"
)

func TestRecordCheck(t *testing.T) {
	tests := []struct {
		name    string
		variant string
		valid   bool
		failed  []string
		err     error
		result  string
	}{
		{"valid run", "metrics_test_a", true, nil, nil, ResultValid},
		{"invalid run", "metrics_test_b", false, []string{"no_gaps", "no_overlaps"}, nil, ResultInvalid},
		{"errored run", "metrics_test_c", false, nil, errors.New("boom"), ResultError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(ChecksTotal.WithLabelValues(tt.variant, "dataset", tt.result))
			RecordCheck(tt.variant, "dataset", tt.valid, tt.failed, 10*time.Millisecond, tt.err)
			after := testutil.ToFloat64(ChecksTotal.WithLabelValues(tt.variant, "dataset", tt.result))
			if after-before != 1 {
				t.Errorf("ChecksTotal delta = %v, want 1", after-before)
			}
			for _, p := range tt.failed {
				if got := testutil.ToFloat64(PredicateFailures.WithLabelValues(tt.variant, p)); got != 1 {
					t.Errorf("PredicateFailures[%s] = %v, want 1", p, got)
				}
			}
		})
	}
}

func TestLoadErrorKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unsupported format",
			err:  &geometry.LoadError{Path: "a.shp", Err: geometry.ErrUnsupportedFormat},
			want: "unsupported_format",
		},
		{
			name: "missing file",
			err:  &geometry.LoadError{Path: "a.wkt", Err: &fs.PathError{Op: "open", Path: "a.wkt", Err: fs.ErrNotExist}},
			want: "read",
		},
		{
			name: "corrupt data",
			err:  &geometry.LoadError{Path: "a.wkt", Err: errors.New("line 1: ParseException")},
			want: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := loadErrorKind(tt.err); got != tt.want {
				t.Errorf("loadErrorKind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrackInflight(t *testing.T) {
	before := testutil.ToFloat64(WorkerInflight)
	TrackInflight(1)
	if got := testutil.ToFloat64(WorkerInflight); got != before+1 {
		t.Errorf("WorkerInflight = %v, want %v", got, before+1)
	}
	TrackInflight(-1)
	if got := testutil.ToFloat64(WorkerInflight); got != before {
		t.Errorf("WorkerInflight = %v, want %v", got, before)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	RecordHTTPRequest("GET", "/metrics_test", 200, time.Millisecond)
	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics_test", "200")); got != 1 {
		t.Errorf("HTTPRequestsTotal = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	before := testutil.ToFloat64(CollectionCacheLookups.WithLabelValues("stale"))
	RecordCacheLookup("stale")
	RecordCacheLookup("stale")
	if got := testutil.ToFloat64(CollectionCacheLookups.WithLabelValues("stale")); got != before+2 {
		t.Errorf("stale lookups = %v, want %v", got, before+2)
	}
}
