// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package feature provides the immutable, indexed feature collection every
// validator operates on.
//
// A Collection is built once (from a file or from already decoded
// geometries) and never changes afterwards. Indices are the 0-based file
// positions and stay stable for the lifetime of the collection, so any number
// of goroutines may read the same Collection without locking.
//
// A nil *Collection is meaningful: it stands for an absent boundary
// reference or auxiliary line collection. Len on a nil collection is 0.
package feature

import (
	"errors"
	"fmt"

	"github.com/twpayne/go-geos"

	"github.com/tomtom215/geocheck/internal/geometry"
)

// ErrIndexOutOfRange is returned when a feature index falls outside [0, n).
// It is a configuration error, never a predicate failure.
var ErrIndexOutOfRange = errors.New("feature index out of range")

// IndexError carries the offending index and the collection size.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("feature index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}

// Feature is one geometry addressed by its position in a Collection.
type Feature struct {
	Index    int
	Geometry *geos.Geom
}

// Collection is an ordered, read-only sequence of features.
type Collection struct {
	name     string
	features []Feature
}

// New binds already decoded geometries. The slice is copied; callers must not
// mutate the geometries afterwards. A nil geometry is replaced by an empty one.
func New(name string, geoms []*geos.Geom) *Collection {
	features := make([]Feature, len(geoms))
	for i, g := range geoms {
		if g == nil {
			g = geometry.Empty()
		}
		features[i] = Feature{Index: i, Geometry: g}
	}
	return &Collection{name: name, features: features}
}

// Load reads a dataset file through the geometry loader.
func Load(path string) (*Collection, error) {
	geoms, err := geometry.Load(path)
	if err != nil {
		return nil, err
	}
	return New(path, geoms), nil
}

// Name returns the source path or the label passed to New.
func (c *Collection) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// Len returns the number of features.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.features)
}

// CheckIndex returns an *IndexError when i is not a valid feature index.
func (c *Collection) CheckIndex(i int) error {
	if i < 0 || i >= c.Len() {
		return &IndexError{Index: i, Len: c.Len()}
	}
	return nil
}

// At returns the feature at index i.
func (c *Collection) At(i int) (Feature, error) {
	if err := c.CheckIndex(i); err != nil {
		return Feature{}, err
	}
	return c.features[i], nil
}

// Features returns the features in index order. The returned slice is a
// copy; the geometries are shared and must be treated as read-only.
func (c *Collection) Features() []Feature {
	if c == nil {
		return nil
	}
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Geometries returns the geometries in index order.
func (c *Collection) Geometries() []*geos.Geom {
	if c == nil {
		return nil
	}
	out := make([]*geos.Geom, len(c.features))
	for i, f := range c.features {
		out[i] = f.Geometry
	}
	return out
}

// Others returns every feature except the one at index i, in index order.
func (c *Collection) Others(i int) []Feature {
	if c == nil {
		return nil
	}
	out := make([]Feature, 0, len(c.features))
	for _, f := range c.features {
		if f.Index != i {
			out = append(out, f)
		}
	}
	return out
}

// Geoms extracts the geometries of fs.
func Geoms(fs []Feature) []*geos.Geom {
	out := make([]*geos.Geom, len(fs))
	for i, f := range fs {
		out[i] = f.Geometry
	}
	return out
}
