// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package feature

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/twpayne/go-geos"

	"github.com/tomtom215/geocheck/internal/geometry"
)

func points(t *testing.T, wkts ...string) []*geos.Geom {
	t.Helper()
	out := make([]*geos.Geom, len(wkts))
	for i, w := range wkts {
		g, err := geometry.FromWKT(w)
		if err != nil {
			t.Fatalf("FromWKT(%q): %v", w, err)
		}
		out[i] = g
	}
	return out
}

func TestCollectionIndices(t *testing.T) {
	t.Parallel()

	c := New("pts", points(t, "POINT (0 0)", "POINT (1 1)", "POINT (2 2)"))
	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", c.Len())
	}
	if c.Name() != "pts" {
		t.Errorf("Name() = %q, want %q", c.Name(), "pts")
	}
	for i, f := range c.Features() {
		if f.Index != i {
			t.Errorf("Features()[%d].Index = %d", i, f.Index)
		}
	}

	others := c.Others(1)
	if len(others) != 2 || others[0].Index != 0 || others[1].Index != 2 {
		t.Errorf("Others(1) = %+v, want indices [0 2]", others)
	}
	if got := len(Geoms(others)); got != 2 {
		t.Errorf("Geoms(others) len = %d, want 2", got)
	}
}

func TestCollectionAtOutOfRange(t *testing.T) {
	t.Parallel()

	c := New("pts", points(t, "POINT (0 0)", "POINT (1 1)"))

	tests := []struct {
		name    string
		index   int
		wantErr bool
	}{
		{"first", 0, false},
		{"last", 1, false},
		{"equal to len", 2, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := c.At(tt.index)
			if (err != nil) != tt.wantErr {
				t.Fatalf("At(%d) error = %v, wantErr %v", tt.index, err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("At(%d) error = %v, want ErrIndexOutOfRange", tt.index, err)
			}
			var idxErr *IndexError
			if !errors.As(err, &idxErr) || idxErr.Len != 2 {
				t.Errorf("At(%d) error = %#v, want *IndexError with Len 2", tt.index, err)
			}
		})
	}
}

func TestNilCollection(t *testing.T) {
	t.Parallel()

	var c *Collection
	if c.Len() != 0 {
		t.Errorf("nil Len() = %d, want 0", c.Len())
	}
	if c.Features() != nil || c.Geometries() != nil || c.Others(0) != nil {
		t.Error("nil collection accessors should return nil")
	}
	if _, err := c.At(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("nil At(0) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestNewReplacesNilGeometry(t *testing.T) {
	t.Parallel()

	c := New("mixed", []*geos.Geom{nil})
	f, err := c.At(0)
	if err != nil {
		t.Fatalf("At(0): %v", err)
	}
	if !geometry.IsEmpty(f.Geometry) || f.Geometry == nil {
		t.Error("nil geometry should become an empty collection")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lines.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]}},
		{"type":"Feature","geometry":null}
	]}`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if c.Name() != path {
		t.Errorf("Name() = %q, want %q", c.Name(), path)
	}

	if _, err := Load(filepath.Join(dir, "nope.wkt")); !errors.Is(err, geometry.ErrLoad) {
		t.Errorf("Load(missing) error = %v, want ErrLoad", err)
	}
}
