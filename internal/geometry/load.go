// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package geometry

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/twpayne/go-geos"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatGeoJSON Format = "geojson"
	FormatWKT     Format = "wkt"
)

// DetectFormat picks a decoder from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return FormatGeoJSON, nil
	case ".wkt", ".txt":
		return FormatWKT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads the dataset at path and returns its geometries in file order.
func Load(path string) ([]*geos.Geom, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var geoms []*geos.Geom
	switch format {
	case FormatGeoJSON:
		geoms, err = DecodeGeoJSON(data)
	case FormatWKT:
		geoms, err = DecodeWKT(data)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return geoms, nil
}

// geoJSONDocument covers FeatureCollection, Feature and bare geometry
// objects. Properties are not needed by any check and are not decoded.
type geoJSONDocument struct {
	Type     string           `json:"type"`
	Features []geoJSONFeature `json:"features"`
	Geometry json.RawMessage  `json:"geometry"`
}

type geoJSONFeature struct {
	Type     string          `json:"type"`
	Geometry json.RawMessage `json:"geometry"`
}

// DecodeGeoJSON decodes a FeatureCollection (one geometry per feature), a
// single Feature or a bare geometry. Null feature geometries decode to an
// empty geometry so that feature indices stay contiguous.
func DecodeGeoJSON(data []byte) ([]*geos.Geom, error) {
	var doc geoJSONDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	switch strings.ToLower(doc.Type) {
	case "featurecollection":
		geoms := make([]*geos.Geom, 0, len(doc.Features))
		for i, f := range doc.Features {
			g, err := decodeGeoJSONGeometry(f.Geometry)
			if err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
			geoms = append(geoms, g)
		}
		return geoms, nil
	case "feature":
		g, err := decodeGeoJSONGeometry(doc.Geometry)
		if err != nil {
			return nil, err
		}
		return []*geos.Geom{g}, nil
	case "":
		return nil, fmt.Errorf("decode geojson: missing type member")
	default:
		g, err := decodeGeoJSONGeometry(data)
		if err != nil {
			return nil, err
		}
		return []*geos.Geom{g}, nil
	}
}

func decodeGeoJSONGeometry(raw json.RawMessage) (*geos.Geom, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty(), nil
	}
	g, err := geos.NewGeomFromGeoJSON(string(trimmed))
	if err != nil {
		return nil, fmt.Errorf("decode geometry: %w", err)
	}
	return g, nil
}

// DecodeWKT decodes one WKT geometry per non-blank line. Lines starting with
// '#' are comments.
func DecodeWKT(data []byte) ([]*geos.Geom, error) {
	var geoms []*geos.Geom
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		g, err := geos.NewGeomFromWKT(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		geoms = append(geoms, g)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wkt: %w", err)
	}
	return geoms, nil
}
