// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"context"

	"github.com/tomtom215/geocheck/internal/feature"
)

// LineData checks a line dataset in isolation. Containment is always
// applied when a boundary reference is present.
type LineData struct {
	base
}

func NewLineData(lines, boundary *feature.Collection) *LineData {
	return &LineData{base: newBase("line_data", lines, boundary)}
}

// Inspect evaluates the line rules. The data variant has no options; opts
// is accepted so all variants share one calling convention.
func (v *LineData) Inspect(ctx context.Context, _ Options) (Result, error) {
	return inspectLines(ctx, &v.base, true)
}

// CheckLineDataValidity reports whether every line predicate passes.
func (v *LineData) CheckLineDataValidity(ctx context.Context) (bool, error) {
	r, err := v.Inspect(ctx, Options{})
	return r.Valid, err
}

// LineTopology adds boundary gating and single-feature checks.
type LineTopology struct {
	base
}

func NewLineTopology(lines, boundary *feature.Collection) *LineTopology {
	return &LineTopology{base: newBase("line_topology", lines, boundary)}
}

func (v *LineTopology) Inspect(ctx context.Context, opts Options) (Result, error) {
	return inspectLines(ctx, &v.base, opts.withinBoundaries())
}

// InspectFeature checks one line: its validity, its own endpoints for
// dangling nodes and its intersections with every other line. Containment
// is not part of the single-feature rules.
func (v *LineTopology) InspectFeature(ctx context.Context, index int, _ Options) (Result, error) {
	target, others, err := v.target(index)
	if err != nil {
		return Result{}, err
	}
	all := v.features.Features()
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, []feature.Feature{target}) },
		func() (PredicateResult, error) { return noDanglingNodes(ctx, all, &index) },
		func() (PredicateResult, error) { return noUnnecessaryIntersectionsOf(ctx, target, others) },
	)
}

func (v *LineTopology) CheckLineTopologyValidity(ctx context.Context, opts Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// CheckSpecificLine reports whether the line at index passes.
func (v *LineTopology) CheckSpecificLine(ctx context.Context, index int) (bool, error) {
	r, err := v.InspectFeature(ctx, index, Options{})
	return r.Valid, err
}

func inspectLines(ctx context.Context, b *base, checkWithin bool) (Result, error) {
	fs := b.features.Features()
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, fs) },
		func() (PredicateResult, error) { return noDanglingNodes(ctx, fs, nil) },
		func() (PredicateResult, error) { return noUnnecessaryIntersections(ctx, fs) },
		func() (PredicateResult, error) { return b.within(ctx, fs, checkWithin) },
	)
}
