// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package dispatch

import (
	"context"
	"time"

	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
	"github.com/tomtom215/geocheck/internal/validator"
	"github.com/tomtom215/geocheck/internal/worker"
)

// SweepReport lists the outcome of the single-feature check for every
// feature of a dataset.
type SweepReport struct {
	Variant Variant `json:"variant"`
	Total   int     `json:"total"`

	// Failing holds the indices whose single-feature check failed, ascending.
	Failing []int `json:"failing"`

	// Predicates maps each failing index to the predicates it broke.
	Predicates map[int][]validator.Predicate `json:"predicates,omitempty"`
}

// Valid reports whether every feature passed.
func (r SweepReport) Valid() bool {
	return len(r.Failing) == 0
}

// Sweep runs the single-feature check on every index, spreading the work
// over pool. The first error (cancellation or a GEOS failure) aborts the
// sweep. Data variants return a *CapabilityError.
func (v *Validator) Sweep(ctx context.Context, pool *worker.Pool, opts validator.Options) (SweepReport, error) {
	if !v.variant.SupportsFeatureChecks() {
		return SweepReport{}, &CapabilityError{Variant: v.variant, Capability: CapabilitySweep}
	}

	start := time.Now()
	n := v.Len()
	results := make([]validator.Result, n)
	err := pool.ForEach(ctx, n, func(ctx context.Context, i int) error {
		r, err := v.inspectFeature(ctx, i, opts)
		results[i] = r
		return err
	})

	report := SweepReport{Variant: v.variant, Total: n, Failing: []int{}}
	var failed []string
	if err == nil {
		for i, r := range results {
			if r.Valid {
				continue
			}
			report.Failing = append(report.Failing, i)
			if report.Predicates == nil {
				report.Predicates = make(map[int][]validator.Predicate)
			}
			report.Predicates[i] = r.Failed()
			for _, p := range r.Failed() {
				failed = append(failed, string(p))
			}
		}
	}

	elapsed := time.Since(start)
	metrics.RecordCheck(v.variant.String(), string(ModeSweep), err == nil && report.Valid(), failed, elapsed, err)
	logger := logging.CtxWith(ctx).
		Str("component", "dispatch").
		Str("variant", v.variant.String()).
		Str("dataset", v.Dataset()).
		Logger()
	logger.Info().
		Str("event", logging.EventSweepFinished).
		Int("total", n).
		Int("failing", len(report.Failing)).
		Dur("elapsed", elapsed).
		Err(err).
		Msg("sweep finished")

	if err != nil {
		return SweepReport{}, err
	}
	return report, nil
}
