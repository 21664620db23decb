// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import "slices"

// Predicate names one data-quality rule.
type Predicate string

const (
	// PredicateGeometryValid: every feature is OGC-valid.
	PredicateGeometryValid Predicate = "geometry_valid"

	// PredicateNoDuplicates: no two points are exactly equal.
	PredicateNoDuplicates Predicate = "no_duplicates"

	// PredicateWithinBoundary: every feature lies within the union of the
	// boundary reference.
	PredicateWithinBoundary Predicate = "within_boundary"

	// PredicateProximityToLines: every point is within max distance of a line.
	PredicateProximityToLines Predicate = "proximity_to_lines"

	// PredicateNoDanglingNodes: every line endpoint is shared with another.
	PredicateNoDanglingNodes Predicate = "no_dangling_nodes"

	// PredicateNoUnnecessaryIntersections: lines meet at single points only.
	PredicateNoUnnecessaryIntersections Predicate = "no_unnecessary_intersections"

	// PredicateNoOverlaps: no two polygons share area.
	PredicateNoOverlaps Predicate = "no_overlaps"

	// PredicateNoGaps: the polygons form one continuous tiling.
	PredicateNoGaps Predicate = "no_gaps"

	// PredicateNoUnwantedHoles: no polygon has interior rings unless allowed.
	PredicateNoUnwantedHoles Predicate = "no_unwanted_holes"
)

// PredicateResult is the outcome of one predicate.
type PredicateResult struct {
	Name   Predicate `json:"name"`
	Passed bool      `json:"passed"`

	// Skipped is set when the predicate was disabled by an option or its
	// reference data is absent. A skipped predicate always passes.
	Skipped bool `json:"skipped,omitempty"`

	// Offenders lists the feature indices responsible for a failure,
	// ascending and without repeats.
	Offenders []int `json:"offenders,omitempty"`

	// Details holds short human-readable notes (WKT of dangling nodes,
	// GEOS validity reasons).
	Details []string `json:"details,omitempty"`
}

// Result is the outcome of a whole-dataset or single-feature check.
// Valid is the conjunction of every predicate.
type Result struct {
	Valid      bool              `json:"valid"`
	Predicates []PredicateResult `json:"predicates"`
}

// Failed returns the names of the predicates that did not pass.
func (r Result) Failed() []Predicate {
	var out []Predicate
	for _, p := range r.Predicates {
		if !p.Passed {
			out = append(out, p.Name)
		}
	}
	return out
}

// Predicate returns the result for name, if it was evaluated.
func (r Result) Predicate(name Predicate) (PredicateResult, bool) {
	for _, p := range r.Predicates {
		if p.Name == name {
			return p, true
		}
	}
	return PredicateResult{}, false
}

func newResult(preds ...PredicateResult) Result {
	r := Result{Valid: true, Predicates: preds}
	for _, p := range preds {
		if !p.Passed {
			r.Valid = false
		}
	}
	return r
}

func skipped(name Predicate) PredicateResult {
	return PredicateResult{Name: name, Passed: true, Skipped: true}
}

// offenderSet accumulates feature indices in a deterministic order.
type offenderSet map[int]struct{}

func (s offenderSet) add(idx ...int) {
	for _, i := range idx {
		s[i] = struct{}{}
	}
}

func (s offenderSet) result(name Predicate, details []string) PredicateResult {
	pr := PredicateResult{Name: name, Passed: len(s) == 0 && len(details) == 0, Details: details}
	if len(s) > 0 {
		pr.Offenders = make([]int, 0, len(s))
		for i := range s {
			pr.Offenders = append(pr.Offenders, i)
		}
		slices.Sort(pr.Offenders)
	}
	return pr
}
