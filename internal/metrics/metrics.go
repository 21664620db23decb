// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package metrics defines the Prometheus instruments for geocheck. All
// collectors register with the default registry through promauto and are
// served by the API at /metrics.
package metrics

import (
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/geocheck/internal/geometry"
)

var (
	// Validation

	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocheck_checks_total",
			Help: "Validation runs by variant, mode and outcome",
		},
		[]string{"variant", "mode", "result"}, // result: valid, invalid, error
	)

	CheckDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "geocheck_check_duration_seconds",
			Help: "Duration of validation runs in seconds",
			// Pairwise checks on large datasets run for minutes.
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"variant", "mode"},
	)

	PredicateFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocheck_predicate_failures_total",
			Help: "Failed predicates by variant and predicate name",
		},
		[]string{"variant", "predicate"},
	)

	LoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocheck_load_errors_total",
			Help: "Dataset load failures by kind",
		},
		[]string{"kind"}, // unsupported_format, read, decode
	)

	// Worker pool

	WorkerInflight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "geocheck_worker_inflight",
			Help: "Validation tasks currently executing on the worker pool",
		},
	)

	// HTTP

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocheck_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "geocheck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Report store

	ReportsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocheck_reports_stored_total",
			Help: "Validation reports written to the report store",
		},
	)

	// Collection cache

	CollectionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocheck_collection_cache_lookups_total",
			Help: "Dataset cache lookups by result (hit, miss, stale)",
		},
		[]string{"result"},
	)
)

// Result labels for ChecksTotal.
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// RecordCheck records one validation run. failed lists the names of the
// predicates that did not pass.
func RecordCheck(variant, mode string, valid bool, failed []string, duration time.Duration, err error) {
	result := ResultValid
	switch {
	case err != nil:
		result = ResultError
	case !valid:
		result = ResultInvalid
	}
	ChecksTotal.WithLabelValues(variant, mode, result).Inc()
	CheckDuration.WithLabelValues(variant, mode).Observe(duration.Seconds())
	for _, p := range failed {
		PredicateFailures.WithLabelValues(variant, p).Inc()
	}
}

// RecordLoadError classifies and counts a dataset load failure.
func RecordLoadError(err error) {
	LoadErrors.WithLabelValues(loadErrorKind(err)).Inc()
}

func loadErrorKind(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, geometry.ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.As(err, &pathErr):
		return "read"
	default:
		return "decode"
	}
}

// TrackInflight adjusts the worker in-flight gauge.
func TrackInflight(delta int) {
	WorkerInflight.Add(float64(delta))
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordReportStored counts a persisted report.
func RecordReportStored() {
	ReportsStored.Inc()
}

// RecordCacheLookup counts a collection cache lookup. result is "hit",
// "miss" or "stale".
func RecordCacheLookup(result string) {
	CollectionCacheLookups.WithLabelValues(result).Inc()
}
