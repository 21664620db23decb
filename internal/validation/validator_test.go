// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/tomtom215/geocheck/internal/dispatch"
	"github.com/tomtom215/geocheck/internal/validator"
)

func TestStructVariantTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		src       dispatch.Source
		wantField string
	}{
		{"valid", dispatch.Source{Path: "a.geojson", Variant: "line_topology"}, ""},
		{"unknown variant", dispatch.Source{Path: "a.geojson", Variant: "raster"}, "variant"},
		{"missing dataset", dispatch.Source{Variant: "point_data"}, "dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Struct(&tt.src)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Struct() = %v, want nil", err)
				}
				return
			}
			var rve *RequestValidationError
			if !errors.As(err, &rve) {
				t.Fatalf("Struct() = %v, want *RequestValidationError", err)
			}
			if len(rve.Fields) != 1 || rve.Fields[0].Field != tt.wantField {
				t.Errorf("Fields = %+v, want one error on %q", rve.Fields, tt.wantField)
			}
		})
	}
}

func TestStructOptions(t *testing.T) {
	t.Parallel()

	err := Struct(&validator.Options{MaxDistance: -1})
	if err == nil {
		t.Fatal("negative max distance should fail")
	}
	if !strings.Contains(err.Error(), "max_distance must be greater than or equal to 0") {
		t.Errorf("message = %q", err.Error())
	}

	if err := Struct(&validator.Options{MaxDistance: 2.5}); err != nil {
		t.Errorf("Struct() = %v, want nil", err)
	}
}

func TestVariantMessageListsKeys(t *testing.T) {
	t.Parallel()

	err := Struct(&dispatch.Source{Path: "x", Variant: "bogus"})
	if err == nil || !strings.Contains(err.Error(), "polygon_topology") {
		t.Errorf("error %v should list the allowed variants", err)
	}
}
