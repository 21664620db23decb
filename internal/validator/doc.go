// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package validator implements the six geometric data-quality validators.
//
// Data validators (PointData, LineData, PolygonData) judge a whole dataset.
// Topology validators (PointTopology, LineTopology, PolygonTopology) apply
// the same rules, expose extra gating options and add single-feature checks
// that compare one feature against the other n-1.
//
// # Rules
//
//   - Points: geometry validity, no exact duplicates, containment in the
//     boundary reference, distance to the nearest line at most MaxDistance.
//   - Lines: geometry validity, no dangling nodes, intersections only at
//     single points, containment.
//   - Polygons: geometry validity, no shared area, no gaps, no holes unless
//     AllowHoles, containment.
//
// A dataset that breaks a rule is not an error: Check* methods return false
// and Inspect returns a Result naming the failing predicates and offending
// feature indices. Errors are reserved for cancellation, an out-of-range
// feature index (feature.ErrIndexOutOfRange) and geometry operations that
// GEOS rejects (geometry.ErrOperation).
//
// Absent reference data degrades the dependent predicate to a pass and logs
// a warning with event=boundary.absent or event=lines.absent.
//
// # Complexity
//
// Duplicate, intersection, overlap and dangling-node rules compare every
// pair of features, so a check is O(n²) in GEOS calls. There is no spatial
// index; datasets of a few thousand features are the practical ceiling.
//
// # Concurrency
//
// Validators own only immutable collections and keep no state between calls.
// Any number of goroutines may call any method concurrently. Each check is
// sequential; run it through internal/worker to keep it off a latency
// sensitive goroutine.
package validator
