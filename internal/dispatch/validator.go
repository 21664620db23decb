// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package dispatch is the single entry point for running a validation: it
// binds one of the six validator variants to its datasets and routes whole
// dataset and single-feature checks to it.
//
// A Validator is created in one step. The variant key is checked first, so
// an unknown key fails before any dataset is read. After construction the
// Validator is bound and immutable; it may be shared between goroutines.
//
//	v, err := dispatch.New(dispatch.Source{Path: "roads.geojson", Variant: "line_topology"})
//	ok, err := v.CheckValidity(ctx, validator.DefaultOptions())
//	ok, err = v.CheckSpecificValidity(ctx, 12, validator.DefaultOptions())
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/geometry"
	"github.com/tomtom215/geocheck/internal/logging"
	"github.com/tomtom215/geocheck/internal/metrics"
	"github.com/tomtom215/geocheck/internal/validator"
)

// Mode labels a kind of run in logs, metrics and reports.
type Mode string

const (
	ModeDataset Mode = "dataset"
	ModeFeature Mode = "feature"
	ModeSweep   Mode = "sweep"
)

// Source names the files a Validator is built from.
type Source struct {
	Path    string `json:"dataset" validate:"required"`
	Variant string `json:"variant" validate:"required,variant"`

	// BoundaryPath is optional. Without it containment always passes.
	BoundaryPath string `json:"boundary,omitempty"`

	// AuxiliaryLinePath is only used by point_topology.
	AuxiliaryLinePath string `json:"lines,omitempty"`
}

type datasetChecker interface {
	Inspect(ctx context.Context, opts validator.Options) (validator.Result, error)
}

// Validator is a bound validator variant.
type Validator struct {
	variant  Variant
	features *feature.Collection

	// Exactly one of data and topology is set, matching variant.Family().
	data     datasetChecker
	topology datasetChecker

	pointTopology   *validator.PointTopology
	lineTopology    *validator.LineTopology
	polygonTopology *validator.PolygonTopology
}

// New parses src.Variant and loads the datasets it names.
func New(src Source) (*Validator, error) {
	return NewWith(src, feature.Load)
}

// LoadFunc reads one dataset file.
type LoadFunc func(path string) (*feature.Collection, error)

// NewWith is New with a custom dataset loader, such as a cache.
func NewWith(src Source, loadFn LoadFunc) (*Validator, error) {
	variant, err := ParseVariant(src.Variant)
	if err != nil {
		return nil, err
	}

	load := func(path string) (*feature.Collection, error) {
		c, err := loadFn(path)
		if err != nil {
			metrics.RecordLoadError(err)
			return nil, err
		}
		return c, nil
	}

	features, err := load(src.Path)
	if err != nil {
		return nil, err
	}
	var boundary, lines *feature.Collection
	if src.BoundaryPath != "" {
		if boundary, err = load(src.BoundaryPath); err != nil {
			return nil, err
		}
	}
	if src.AuxiliaryLinePath != "" && variant == PointTopology {
		if lines, err = load(src.AuxiliaryLinePath); err != nil {
			return nil, err
		}
	}
	return bind(variant, features, boundary, lines, src.AuxiliaryLinePath != ""), nil
}

// NewFromCollections binds already loaded collections. boundary and lines
// may be nil; lines is ignored unless variantKey is point_topology.
func NewFromCollections(variantKey string, features, boundary, lines *feature.Collection) (*Validator, error) {
	variant, err := ParseVariant(variantKey)
	if err != nil {
		return nil, err
	}
	return bind(variant, features, boundary, lines, lines != nil), nil
}

func bind(variant Variant, features, boundary, lines *feature.Collection, linesSupplied bool) *Validator {
	if features == nil {
		features = feature.New("", nil)
	}
	logger := logging.WithComponent("dispatch")
	if linesSupplied && variant != PointTopology {
		logger.Debug().
			Str("event", logging.EventLinesIgnored).
			Str("variant", variant.String()).
			Msg("auxiliary line collection ignored by this variant")
	}
	warnKindMismatch(&logger, variant, features)

	v := &Validator{variant: variant, features: features}
	switch variant {
	case PointData:
		v.data = validator.NewPointData(features, boundary)
	case LineData:
		v.data = validator.NewLineData(features, boundary)
	case PolygonData:
		v.data = validator.NewPolygonData(features, boundary)
	case PointTopology:
		v.pointTopology = validator.NewPointTopology(features, boundary, lines)
		v.topology = v.pointTopology
	case LineTopology:
		v.lineTopology = validator.NewLineTopology(features, boundary)
		v.topology = v.lineTopology
	case PolygonTopology:
		v.polygonTopology = validator.NewPolygonTopology(features, boundary)
		v.topology = v.polygonTopology
	}
	return v
}

// maxLoggedOffenders caps the feature indices attached to a log event.
const maxLoggedOffenders = 10

// warnKindMismatch logs features whose geometry class differs from the one
// the variant expects. Empty geometries are left to the validity check.
func warnKindMismatch(logger *zerolog.Logger, variant Variant, features *feature.Collection) {
	want := variant.Kind()
	var offenders []int
	for _, f := range features.Features() {
		if k := geometry.KindOf(f.Geometry); k != geometry.KindEmpty && k != want {
			offenders = append(offenders, f.Index)
		}
	}
	if len(offenders) == 0 {
		return
	}
	count := len(offenders)
	if count > maxLoggedOffenders {
		offenders = offenders[:maxLoggedOffenders]
	}
	logger.Warn().
		Str("event", logging.EventKindMismatch).
		Str("variant", variant.String()).
		Str("dataset", features.Name()).
		Str("expected", want.String()).
		Int("count", count).
		Ints("features", offenders).
		Msg("features do not match the variant's geometry class")
}

// Variant returns the bound variant.
func (v *Validator) Variant() Variant { return v.variant }

// Dataset returns the name of the primary collection.
func (v *Validator) Dataset() string { return v.features.Name() }

// Len returns the number of features in the primary collection.
func (v *Validator) Len() int { return v.features.Len() }

// CheckValidity runs the whole-dataset check of the bound variant.
func (v *Validator) CheckValidity(ctx context.Context, opts validator.Options) (bool, error) {
	r, err := v.Inspect(ctx, opts)
	return r.Valid, err
}

// CheckSpecificValidity runs the single-feature check of the bound variant
// on the feature at index. Data variants return a *CapabilityError; an
// out-of-range index returns an error wrapping feature.ErrIndexOutOfRange.
func (v *Validator) CheckSpecificValidity(ctx context.Context, index int, opts validator.Options) (bool, error) {
	r, err := v.InspectFeature(ctx, index, opts)
	return r.Valid, err
}

// Inspect is CheckValidity with per-predicate diagnostics.
func (v *Validator) Inspect(ctx context.Context, opts validator.Options) (validator.Result, error) {
	start := time.Now()
	r, err := v.inspect(ctx, opts)
	v.record(ctx, ModeDataset, -1, r, time.Since(start), err)
	return r, err
}

// InspectFeature is CheckSpecificValidity with per-predicate diagnostics.
func (v *Validator) InspectFeature(ctx context.Context, index int, opts validator.Options) (validator.Result, error) {
	start := time.Now()
	r, err := v.inspectFeature(ctx, index, opts)
	v.record(ctx, ModeFeature, index, r, time.Since(start), err)
	return r, err
}

func (v *Validator) inspect(ctx context.Context, opts validator.Options) (validator.Result, error) {
	switch v.variant.Family() {
	case FamilyData:
		return v.data.Inspect(ctx, opts)
	case FamilyTopology:
		return v.topology.Inspect(ctx, opts)
	default:
		return validator.Result{}, fmt.Errorf("%w: variant %d has no family", ErrInternal, int(v.variant))
	}
}

// inspectFeature has one arm per variant. Data variants have no
// single-feature rules.
func (v *Validator) inspectFeature(ctx context.Context, index int, opts validator.Options) (validator.Result, error) {
	switch v.variant {
	case PointTopology:
		return v.pointTopology.InspectFeature(ctx, index, opts)
	case LineTopology:
		return v.lineTopology.InspectFeature(ctx, index, opts)
	case PolygonTopology:
		return v.polygonTopology.InspectFeature(ctx, index, opts)
	case PointData, LineData, PolygonData:
		return validator.Result{}, &CapabilityError{Variant: v.variant, Capability: CapabilitySingleFeature}
	default:
		return validator.Result{}, fmt.Errorf("%w: variant %d", ErrInternal, int(v.variant))
	}
}

func (v *Validator) record(ctx context.Context, mode Mode, index int, r validator.Result, elapsed time.Duration, err error) {
	failed := make([]string, 0, len(r.Predicates))
	for _, p := range r.Failed() {
		failed = append(failed, string(p))
	}
	metrics.RecordCheck(v.variant.String(), string(mode), r.Valid, failed, elapsed, err)

	log := logging.CtxWith(ctx).
		Str("component", "dispatch").
		Str("variant", v.variant.String()).
		Str("mode", string(mode)).
		Str("dataset", v.Dataset()).
		Logger()
	event := log.Info()
	if err != nil {
		event = log.Warn().Err(err)
	}
	if index >= 0 {
		event = event.Int("index", index)
	}
	event.
		Str("event", logging.EventCheckFinished).
		Bool("valid", r.Valid).
		Strs("failed", failed).
		Dur("elapsed", elapsed).
		Msg("check finished")
}
