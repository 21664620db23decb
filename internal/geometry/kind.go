// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package geometry

import (
	"github.com/twpayne/go-geos"
)

// Kind is the dimensional class of a geometry.
type Kind int

const (
	KindEmpty Kind = iota
	KindPoint
	KindLine
	KindArea
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindArea:
		return "area"
	default:
		return "unknown"
	}
}

// KindOf classifies g. Multi-geometries take the class of their elements and
// a geometry collection takes the highest class among its non-empty members.
func KindOf(g *geos.Geom) Kind {
	if IsEmpty(g) {
		return KindEmpty
	}
	switch g.TypeID() {
	case geos.TypeIDPoint, geos.TypeIDMultiPoint:
		return KindPoint
	case geos.TypeIDLineString, geos.TypeIDLinearRing, geos.TypeIDMultiLineString:
		return KindLine
	case geos.TypeIDPolygon, geos.TypeIDMultiPolygon:
		return KindArea
	case geos.TypeIDGeometryCollection:
		k := KindEmpty
		for i := 0; i < g.NumGeometries(); i++ {
			if mk := KindOf(g.Geometry(i)); mk > k {
				k = mk
			}
		}
		return k
	default:
		return KindEmpty
	}
}

// IsSinglePoint reports whether g is a non-empty Point. A MultiPoint is not
// a single point even when it holds one member.
func IsSinglePoint(g *geos.Geom) bool {
	return !IsEmpty(g) && g.TypeID() == geos.TypeIDPoint
}
