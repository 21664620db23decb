// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"context"
	"fmt"
	"math"

	"github.com/twpayne/go-geos"

	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/geometry"
)

// The functions in this file are the predicate algorithms shared by the data
// and topology variants. Whole-dataset forms compare every unordered pair
// (i < j); the "Of" forms compare one target against the remaining features.
// All of them poll ctx once per outer iteration.

func geometryValid(ctx context.Context, fs []feature.Feature) (PredicateResult, error) {
	bad := offenderSet{}
	var details []string
	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		if !geometry.IsValid(f.Geometry) {
			bad.add(f.Index)
			details = append(details, fmt.Sprintf("feature %d: %s", f.Index, geometry.ValidReason(f.Geometry)))
		}
	}
	return bad.result(PredicateGeometryValid, details), nil
}

func samePosition(a, b feature.Feature) (bool, error) {
	return geometry.Equal(a.Geometry, b.Geometry), nil
}

func noDuplicates(ctx context.Context, fs []feature.Feature) (PredicateResult, error) {
	return pairwise(ctx, fs, PredicateNoDuplicates, samePosition)
}

func noDuplicatesOf(ctx context.Context, target feature.Feature, others []feature.Feature) (PredicateResult, error) {
	return againstOthers(ctx, target, others, PredicateNoDuplicates, samePosition)
}

// withinBoundary requires every feature to lie within the union of the
// boundary polygons. The union does not depend on boundary order.
func withinBoundary(ctx context.Context, fs []feature.Feature, boundary *feature.Collection) (PredicateResult, error) {
	extent, err := geometry.UnionAll(boundary.Geometries())
	if err != nil {
		return PredicateResult{}, fmt.Errorf("union boundary %s: %w", boundary.Name(), err)
	}

	outside := offenderSet{}
	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		in, err := geometry.Within(f.Geometry, extent)
		if err != nil {
			return PredicateResult{}, fmt.Errorf("feature %d: %w", f.Index, err)
		}
		if !in {
			outside.add(f.Index)
		}
	}
	return outside.result(PredicateWithinBoundary, nil), nil
}

// proximityToLines requires the nearest line of every point to be at most
// maxDistance away. lines must be non-empty; empty points always offend.
func proximityToLines(ctx context.Context, fs []feature.Feature, lines []*geos.Geom, maxDistance float64) (PredicateResult, error) {
	far := offenderSet{}
	var details []string
	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		if geometry.IsEmpty(f.Geometry) {
			far.add(f.Index)
			details = append(details, fmt.Sprintf("feature %d: empty geometry", f.Index))
			continue
		}
		nearest := math.Inf(1)
		for _, l := range lines {
			d, err := geometry.Distance(f.Geometry, l)
			if err != nil {
				return PredicateResult{}, fmt.Errorf("feature %d: %w", f.Index, err)
			}
			nearest = math.Min(nearest, d)
		}
		if nearest > maxDistance {
			far.add(f.Index)
			details = append(details, fmt.Sprintf("feature %d: nearest line at %g", f.Index, nearest))
		}
	}
	return far.result(PredicateProximityToLines, details), nil
}

type endpoint struct {
	owner int
	point *geos.Geom
}

func collectEndpoints(fs []feature.Feature) ([]endpoint, error) {
	var eps []endpoint
	for _, f := range fs {
		if geometry.IsEmpty(f.Geometry) {
			continue
		}
		b, err := geometry.Boundary(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", f.Index, err)
		}
		for _, pt := range geometry.Points(b) {
			eps = append(eps, endpoint{owner: f.Index, point: pt})
		}
	}
	return eps, nil
}

// noDanglingNodes counts, for every line endpoint, how many collected
// endpoints are exactly equal to it. A count of one is a dangling node.
// When only is non-nil, just the endpoints owned by that index are judged,
// still against the endpoints of the whole collection.
func noDanglingNodes(ctx context.Context, fs []feature.Feature, only *int) (PredicateResult, error) {
	eps, err := collectEndpoints(fs)
	if err != nil {
		return PredicateResult{}, err
	}

	dangling := offenderSet{}
	var nodes []string
	for _, e := range eps {
		if only != nil && e.owner != *only {
			continue
		}
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		count := 0
		for _, o := range eps {
			if geometry.Equal(e.point, o.point) {
				count++
			}
		}
		if count == 1 {
			dangling.add(e.owner)
			nodes = append(nodes, geometry.WKT(e.point))
		}
	}
	return dangling.result(PredicateNoDanglingNodes, nodes), nil
}

// unnecessaryIntersection reports whether two lines meet in anything other
// than a single point. Two isolated crossing points (a MultiPoint) count.
func unnecessaryIntersection(a, b feature.Feature) (bool, error) {
	x, err := geometry.Intersection(a.Geometry, b.Geometry)
	if err != nil {
		return false, fmt.Errorf("features %d and %d: %w", a.Index, b.Index, err)
	}
	return !geometry.IsEmpty(x) && !geometry.IsSinglePoint(x), nil
}

func noUnnecessaryIntersections(ctx context.Context, fs []feature.Feature) (PredicateResult, error) {
	return pairwise(ctx, fs, PredicateNoUnnecessaryIntersections, unnecessaryIntersection)
}

func noUnnecessaryIntersectionsOf(ctx context.Context, target feature.Feature, others []feature.Feature) (PredicateResult, error) {
	return againstOthers(ctx, target, others, PredicateNoUnnecessaryIntersections, unnecessaryIntersection)
}

// overlapping reports whether two polygons share positive area. Shared
// edges and corners do not count.
func overlapping(a, b feature.Feature) (bool, error) {
	x, err := geometry.Intersection(a.Geometry, b.Geometry)
	if err != nil {
		return false, fmt.Errorf("features %d and %d: %w", a.Index, b.Index, err)
	}
	return geometry.KindOf(x) == geometry.KindArea, nil
}

func noOverlaps(ctx context.Context, fs []feature.Feature) (PredicateResult, error) {
	return pairwise(ctx, fs, PredicateNoOverlaps, overlapping)
}

func noOverlapsOf(ctx context.Context, target feature.Feature, others []feature.Feature) (PredicateResult, error) {
	return againstOthers(ctx, target, others, PredicateNoOverlaps, overlapping)
}

// noGaps flags any non-empty boundary of the union of all polygons. This
// fires on every dataset that is not a closed tiling, including intentionally
// disjoint polygons.
func noGaps(ctx context.Context, fs []feature.Feature) (PredicateResult, error) {
	if err := ctx.Err(); err != nil {
		return PredicateResult{}, err
	}
	union, err := geometry.UnionAll(feature.Geoms(fs))
	if err != nil {
		return PredicateResult{}, err
	}
	b, err := geometry.Boundary(union)
	if err != nil {
		return PredicateResult{}, err
	}
	if geometry.IsEmpty(b) {
		return PredicateResult{Name: PredicateNoGaps, Passed: true}, nil
	}
	return PredicateResult{
		Name:    PredicateNoGaps,
		Details: []string{"union of all polygons has a non-empty boundary"},
	}, nil
}

// noGapOf reports a gap when part of the target's boundary is not shared
// with the boundary of the union of the other polygons. With no other
// polygons there is nothing to leave a gap against.
func noGapOf(ctx context.Context, target feature.Feature, others []feature.Feature) (PredicateResult, error) {
	if len(others) == 0 {
		return PredicateResult{Name: PredicateNoGaps, Passed: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return PredicateResult{}, err
	}
	rest, err := geometry.UnionAll(feature.Geoms(others))
	if err != nil {
		return PredicateResult{}, err
	}
	restBoundary, err := geometry.Boundary(rest)
	if err != nil {
		return PredicateResult{}, err
	}
	own, err := geometry.Boundary(target.Geometry)
	if err != nil {
		return PredicateResult{}, fmt.Errorf("feature %d: %w", target.Index, err)
	}
	unshared, err := geometry.Difference(own, restBoundary)
	if err != nil {
		return PredicateResult{}, fmt.Errorf("feature %d: %w", target.Index, err)
	}

	gaps := offenderSet{}
	if !geometry.IsEmpty(unshared) {
		gaps.add(target.Index)
	}
	return gaps.result(PredicateNoGaps, nil), nil
}

func noUnwantedHoles(ctx context.Context, fs []feature.Feature, allowHoles bool) (PredicateResult, error) {
	if allowHoles {
		return PredicateResult{Name: PredicateNoUnwantedHoles, Passed: true}, nil
	}
	holed := offenderSet{}
	for _, f := range fs {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		if geometry.InteriorRingCount(f.Geometry) > 0 {
			holed.add(f.Index)
		}
	}
	return holed.result(PredicateNoUnwantedHoles, nil), nil
}

type pairTest func(a, b feature.Feature) (bool, error)

func pairwise(ctx context.Context, fs []feature.Feature, name Predicate, test pairTest) (PredicateResult, error) {
	hits := offenderSet{}
	for i := range fs {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		for j := i + 1; j < len(fs); j++ {
			hit, err := test(fs[i], fs[j])
			if err != nil {
				return PredicateResult{}, err
			}
			if hit {
				hits.add(fs[i].Index, fs[j].Index)
			}
		}
	}
	return hits.result(name, nil), nil
}

func againstOthers(ctx context.Context, target feature.Feature, others []feature.Feature, name Predicate, test pairTest) (PredicateResult, error) {
	hits := offenderSet{}
	for _, o := range others {
		if err := ctx.Err(); err != nil {
			return PredicateResult{}, err
		}
		hit, err := test(target, o)
		if err != nil {
			return PredicateResult{}, err
		}
		if hit {
			hits.add(target.Index, o.Index)
		}
	}
	return hits.result(name, nil), nil
}

// nonEmpty drops empty geometries, which have no distance to anything.
func nonEmpty(c *feature.Collection) []*geos.Geom {
	var out []*geos.Geom
	for _, g := range c.Geometries() {
		if !geometry.IsEmpty(g) {
			out = append(out, g)
		}
	}
	return out
}
