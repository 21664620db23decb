// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package dispatch

import (
	"strings"

	"github.com/tomtom215/geocheck/internal/geometry"
)

// Variant selects one of the six validators.
type Variant int

const (
	PointData Variant = iota + 1
	LineData
	PolygonData
	PointTopology
	LineTopology
	PolygonTopology
)

// Family groups variants by the kind of whole-dataset check they run.
type Family int

const (
	FamilyData Family = iota + 1
	FamilyTopology
)

func (f Family) String() string {
	switch f {
	case FamilyData:
		return "data"
	case FamilyTopology:
		return "topology"
	default:
		return "unknown"
	}
}

// variants is ordered as presented to users.
var variants = []struct {
	v   Variant
	key string
}{
	{PointData, "point_data"},
	{LineData, "line_data"},
	{PolygonData, "polygon_data"},
	{PointTopology, "point_topology"},
	{LineTopology, "line_topology"},
	{PolygonTopology, "polygon_topology"},
}

// Variants returns all variants in presentation order.
func Variants() []Variant {
	out := make([]Variant, len(variants))
	for i, e := range variants {
		out[i] = e.v
	}
	return out
}

// Keys returns the configuration keys of all variants.
func Keys() []string {
	out := make([]string, len(variants))
	for i, e := range variants {
		out[i] = e.key
	}
	return out
}

// ParseVariant maps a configuration key to its Variant. Keys are matched
// case-insensitively after trimming. Unknown keys return a *ConfigError.
func ParseVariant(key string) (Variant, error) {
	norm := strings.ToLower(strings.TrimSpace(key))
	for _, e := range variants {
		if e.key == norm {
			return e.v, nil
		}
	}
	return 0, &ConfigError{Key: key, Allowed: Keys()}
}

// String returns the configuration key.
func (v Variant) String() string {
	if !v.Valid() {
		return "unknown"
	}
	for _, e := range variants {
		if e.v == v {
			return e.key
		}
	}
	return "unknown"
}

// Valid reports whether v is one of the six variants.
func (v Variant) Valid() bool {
	return v >= PointData && v <= PolygonTopology
}

// Family reports whether v is a data or a topology validator.
func (v Variant) Family() Family {
	switch v {
	case PointData, LineData, PolygonData:
		return FamilyData
	case PointTopology, LineTopology, PolygonTopology:
		return FamilyTopology
	default:
		return 0
	}
}

// Kind is the geometry class the variant expects in its primary dataset.
func (v Variant) Kind() geometry.Kind {
	switch v {
	case PointData, PointTopology:
		return geometry.KindPoint
	case LineData, LineTopology:
		return geometry.KindLine
	case PolygonData, PolygonTopology:
		return geometry.KindArea
	default:
		return geometry.KindEmpty
	}
}

// SupportsFeatureChecks reports whether the variant has single-feature checks.
func (v Variant) SupportsFeatureChecks() bool {
	return v.Family() == FamilyTopology
}

func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func (v *Variant) UnmarshalText(b []byte) error {
	parsed, err := ParseVariant(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
