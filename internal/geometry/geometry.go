// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package geometry

import (
	"github.com/twpayne/go-geos"
)

// emptyWKT is used for features with a null geometry and for the union of
// an empty input.
const emptyWKT = "GEOMETRYCOLLECTION EMPTY"

// guard runs fn and converts a go-geos panic into an *OpError.
func guard[T any](op string, fn func() T) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &OpError{Op: op, Cause: r}
		}
	}()
	return fn(), nil
}

// Empty returns a new empty geometry collection.
func Empty() *geos.Geom {
	g, err := geos.NewGeomFromWKT(emptyWKT)
	if err != nil {
		// The literal above always parses.
		panic(err)
	}
	return g
}

// FromWKT parses a single WKT geometry.
func FromWKT(wkt string) (*geos.Geom, error) {
	g, err := geos.NewGeomFromWKT(wkt)
	if err != nil {
		return nil, &OpError{Op: "parse wkt", Cause: err}
	}
	return g, nil
}

// IsValid reports OGC simple-feature validity.
func IsValid(g *geos.Geom) bool {
	valid, err := guard("is_valid", g.IsValid)
	return err == nil && valid
}

// ValidReason returns the GEOS explanation for an invalid geometry.
func ValidReason(g *geos.Geom) string {
	reason, err := guard("is_valid_reason", g.IsValidReason)
	if err != nil {
		return err.Error()
	}
	return reason
}

// IsEmpty reports whether g has no points.
func IsEmpty(g *geos.Geom) bool {
	return g == nil || g.IsEmpty()
}

// Boundary returns the combinatorial boundary: endpoints for lines, rings for
// polygons, an empty geometry for points and empty input.
func Boundary(g *geos.Geom) (*geos.Geom, error) {
	if IsEmpty(g) {
		return Empty(), nil
	}
	return guard("boundary", g.Boundary)
}

// InteriorRingCount returns the number of holes. Multipolygons sum their
// members; non-polygonal geometries have none.
func InteriorRingCount(g *geos.Geom) int {
	if IsEmpty(g) {
		return 0
	}
	switch g.TypeID() {
	case geos.TypeIDPolygon:
		return g.NumInteriorRings()
	case geos.TypeIDMultiPolygon, geos.TypeIDGeometryCollection:
		total := 0
		for i := 0; i < g.NumGeometries(); i++ {
			total += InteriorRingCount(g.Geometry(i))
		}
		return total
	default:
		return 0
	}
}

// Intersection returns the point-set intersection of a and b.
func Intersection(a, b *geos.Geom) (*geos.Geom, error) {
	return guard("intersection", func() *geos.Geom { return a.Intersection(b) })
}

// Difference returns the part of a not covered by b.
func Difference(a, b *geos.Geom) (*geos.Geom, error) {
	return guard("difference", func() *geos.Geom { return a.Difference(b) })
}

// UnionAll folds Union over gs from left to right. Empty input yields an
// empty collection.
func UnionAll(gs []*geos.Geom) (*geos.Geom, error) {
	if len(gs) == 0 {
		return Empty(), nil
	}
	acc := gs[0]
	for _, g := range gs[1:] {
		next, err := guard("union", func() *geos.Geom { return acc.Union(g) })
		if err != nil {
			return nil, err
		}
		acc = next
	}
	if len(gs) == 1 {
		return guard("union", acc.UnaryUnion)
	}
	return acc, nil
}

// Within reports whether a lies in the interior of b (OGC within).
func Within(a, b *geos.Geom) (bool, error) {
	return guard("within", func() bool { return a.Within(b) })
}

// Distance returns the minimum Cartesian distance between a and b.
func Distance(a, b *geos.Geom) (float64, error) {
	return guard("distance", func() float64 { return a.Distance(b) })
}

// Equal reports exact equality: same type, same coordinates, same order.
func Equal(a, b *geos.Geom) bool {
	eq, err := guard("equals_exact", func() bool { return a.EqualsExact(b, 0) })
	return err == nil && eq
}

// Points returns the member points of a point or multipoint. Other
// geometry types, and empty geometries, yield nil.
func Points(g *geos.Geom) []*geos.Geom {
	if IsEmpty(g) {
		return nil
	}
	switch g.TypeID() {
	case geos.TypeIDPoint:
		return []*geos.Geom{g}
	case geos.TypeIDMultiPoint, geos.TypeIDGeometryCollection:
		var pts []*geos.Geom
		for i := 0; i < g.NumGeometries(); i++ {
			pts = append(pts, Points(g.Geometry(i))...)
		}
		return pts
	default:
		return nil
	}
}

// WKT renders g for logs and reports.
func WKT(g *geos.Geom) string {
	if g == nil {
		return emptyWKT
	}
	return g.ToWKT()
}
