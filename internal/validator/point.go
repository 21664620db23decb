// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"context"

	"github.com/tomtom215/geocheck/internal/feature"
)

// PointData checks a point dataset in isolation.
type PointData struct {
	base
}

// NewPointData binds points and an optional boundary reference.
func NewPointData(points, boundary *feature.Collection) *PointData {
	return &PointData{base: newBase("point_data", points, boundary)}
}

// Inspect evaluates validity, duplicates, containment and, when
// opts.LineCollectionOverride is set, proximity to those lines.
func (v *PointData) Inspect(ctx context.Context, opts Options) (Result, error) {
	fs := v.features.Features()
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, fs) },
		func() (PredicateResult, error) { return noDuplicates(ctx, fs) },
		func() (PredicateResult, error) { return v.within(ctx, fs, opts.withinBoundaries()) },
		func() (PredicateResult, error) {
			return v.proximity(ctx, fs, opts.LineCollectionOverride, opts.MaxDistance, false)
		},
	)
}

// CheckPointDataValidity reports whether every point predicate passes.
func (v *PointData) CheckPointDataValidity(ctx context.Context, opts Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// PointTopology adds an owned auxiliary line collection and single-feature
// checks to the point rules.
type PointTopology struct {
	base
	lines *feature.Collection
}

// NewPointTopology binds points, an optional boundary reference and an
// optional auxiliary line collection.
func NewPointTopology(points, boundary, lines *feature.Collection) *PointTopology {
	return &PointTopology{base: newBase("point_topology", points, boundary), lines: lines}
}

// Lines returns the auxiliary line collection, or nil when absent.
func (v *PointTopology) Lines() *feature.Collection { return v.lines }

func (v *PointTopology) Inspect(ctx context.Context, opts Options) (Result, error) {
	fs := v.features.Features()
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, fs) },
		func() (PredicateResult, error) { return noDuplicates(ctx, fs) },
		func() (PredicateResult, error) { return v.within(ctx, fs, opts.withinBoundaries()) },
		func() (PredicateResult, error) { return v.proximityOf(ctx, fs, opts) },
	)
}

// InspectFeature applies the point rules to the feature at index, comparing
// it only against the other n-1 points.
func (v *PointTopology) InspectFeature(ctx context.Context, index int, opts Options) (Result, error) {
	target, others, err := v.target(index)
	if err != nil {
		return Result{}, err
	}
	one := []feature.Feature{target}
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, one) },
		func() (PredicateResult, error) { return noDuplicatesOf(ctx, target, others) },
		func() (PredicateResult, error) { return v.within(ctx, one, opts.withinBoundaries()) },
		func() (PredicateResult, error) { return v.proximityOf(ctx, one, opts) },
	)
}

func (v *PointTopology) proximityOf(ctx context.Context, fs []feature.Feature, opts Options) (PredicateResult, error) {
	if !opts.proximityToLines() {
		return skipped(PredicateProximityToLines), nil
	}
	return v.proximity(ctx, fs, v.lines, opts.MaxDistance, true)
}

// CheckPointTopologyValidity reports whether every point predicate passes.
func (v *PointTopology) CheckPointTopologyValidity(ctx context.Context, opts Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// CheckSpecificPoint reports whether the point at index passes. An index
// outside [0, n) returns an error wrapping feature.ErrIndexOutOfRange.
func (v *PointTopology) CheckSpecificPoint(ctx context.Context, index int, opts Options) (bool, error) {
	r, err := v.InspectFeature(ctx, index, opts)
	return r.Valid, err
}
