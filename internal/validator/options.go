// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"github.com/tomtom215/geocheck/internal/feature"
)

// Options is the configuration bundle accepted by every check. Each variant
// reads the fields that apply to it and ignores the rest.
type Options struct {
	// CheckWithinBoundaries enables boundary containment. Nil means true.
	CheckWithinBoundaries *bool `json:"check_within_boundaries,omitempty"`

	// CheckProximityToLines enables the point-to-line distance rule on the
	// point topology variant. Nil means true.
	CheckProximityToLines *bool `json:"check_proximity_to_lines,omitempty"`

	// MaxDistance is the largest permitted point-to-line distance in
	// dataset units. Zero requires points to lie on a line.
	MaxDistance float64 `json:"max_distance" validate:"gte=0"`

	// AllowHoles permits polygons with interior rings.
	AllowHoles bool `json:"allow_holes"`

	// LineCollectionOverride supplies the lines for the point data
	// variant's proximity rule. Proximity is skipped when nil.
	LineCollectionOverride *feature.Collection `json:"-" validate:"-"`
}

// DefaultOptions returns the documented defaults: containment and
// proximity enabled, zero distance, holes rejected.
func DefaultOptions() Options {
	return Options{
		CheckWithinBoundaries: Bool(true),
		CheckProximityToLines: Bool(true),
	}
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

func (o Options) withinBoundaries() bool {
	return o.CheckWithinBoundaries == nil || *o.CheckWithinBoundaries
}

func (o Options) proximityToLines() bool {
	return o.CheckProximityToLines == nil || *o.CheckProximityToLines
}
