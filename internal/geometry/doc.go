// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package geometry adapts GEOS (via github.com/twpayne/go-geos) to the small
// set of primitives the validators need.
//
// Nothing here implements computational geometry. The package only:
//   - decodes vector datasets (GeoJSON, line-delimited WKT) into *geos.Geom
//   - classifies geometries by dimension (Kind)
//   - wraps GEOS operations so that GEOS exceptions, which go-geos raises as
//     panics, surface as ordinary *OpError values
//
// # Equality
//
// Equal is exact coordinate equality (EqualsExact with zero tolerance). No
// tolerance parameter is exposed to callers.
//
// # Thread Safety
//
// All geometries are created in the go-geos default context, which serializes
// access internally. Geometries are treated as immutable after loading, so
// they can be shared between goroutines for read-only predicates.
package geometry
