// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"context"

	"github.com/tomtom215/geocheck/internal/feature"
)

// PolygonData checks a polygon dataset in isolation.
type PolygonData struct {
	base
}

func NewPolygonData(polygons, boundary *feature.Collection) *PolygonData {
	return &PolygonData{base: newBase("polygon_data", polygons, boundary)}
}

// Inspect evaluates validity, overlaps, gaps, holes (opts.AllowHoles) and
// containment. Containment always runs when a boundary is present.
func (v *PolygonData) Inspect(ctx context.Context, opts Options) (Result, error) {
	return inspectPolygons(ctx, &v.base, opts.AllowHoles, true)
}

func (v *PolygonData) CheckPolygonDataValidity(ctx context.Context, opts Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// PolygonTopology adds boundary gating and single-feature checks.
type PolygonTopology struct {
	base
}

func NewPolygonTopology(polygons, boundary *feature.Collection) *PolygonTopology {
	return &PolygonTopology{base: newBase("polygon_topology", polygons, boundary)}
}

func (v *PolygonTopology) Inspect(ctx context.Context, opts Options) (Result, error) {
	return inspectPolygons(ctx, &v.base, opts.AllowHoles, opts.withinBoundaries())
}

// InspectFeature checks one polygon against the union of the others:
// overlap with any of them, boundary not shared with them, and its own
// holes.
func (v *PolygonTopology) InspectFeature(ctx context.Context, index int, opts Options) (Result, error) {
	target, others, err := v.target(index)
	if err != nil {
		return Result{}, err
	}
	one := []feature.Feature{target}
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, one) },
		func() (PredicateResult, error) { return noOverlapsOf(ctx, target, others) },
		func() (PredicateResult, error) { return noGapOf(ctx, target, others) },
		func() (PredicateResult, error) { return noUnwantedHoles(ctx, one, opts.AllowHoles) },
	)
}

func (v *PolygonTopology) CheckPolygonTopologyValidity(ctx context.Context, opts Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// CheckSpecificPolygon reports whether the polygon at index passes.
func (v *PolygonTopology) CheckSpecificPolygon(ctx context.Context, index int, opts Options) (bool, error) {
	r, err := v.InspectFeature(ctx, index, opts)
	return r.Valid, err
}

func inspectPolygons(ctx context.Context, b *base, allowHoles, checkWithin bool) (Result, error) {
	fs := b.features.Features()
	return evaluate(
		func() (PredicateResult, error) { return geometryValid(ctx, fs) },
		func() (PredicateResult, error) { return noOverlaps(ctx, fs) },
		func() (PredicateResult, error) { return noGaps(ctx, fs) },
		func() (PredicateResult, error) { return noUnwantedHoles(ctx, fs, allowHoles) },
		func() (PredicateResult, error) { return b.within(ctx, fs, checkWithin) },
	)
}
