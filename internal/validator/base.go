// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package validator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/geocheck/internal/feature"
	"github.com/tomtom215/geocheck/internal/logging"
)

// base holds what every variant owns: the primary collection and the
// optional boundary reference. Neither is modified after construction.
type base struct {
	variant  string
	features *feature.Collection
	boundary *feature.Collection
}

func newBase(variant string, features, boundary *feature.Collection) base {
	if features == nil {
		features = feature.New("", nil)
	}
	return base{variant: variant, features: features, boundary: boundary}
}

// Features returns the primary collection.
func (b *base) Features() *feature.Collection { return b.features }

// Boundary returns the boundary reference, or nil when absent.
func (b *base) Boundary() *feature.Collection { return b.boundary }

func (b *base) logger(ctx context.Context) zerolog.Logger {
	return logging.CtxWith(ctx).
		Str("component", "validator").
		Str("variant", b.variant).
		Str("dataset", b.features.Name()).
		Logger()
}

// target resolves index to the feature and the remaining n-1 features.
func (b *base) target(index int) (feature.Feature, []feature.Feature, error) {
	f, err := b.features.At(index)
	if err != nil {
		return feature.Feature{}, nil, err
	}
	return f, b.features.Others(index), nil
}

// within runs boundary containment over fs. A missing boundary reference
// degrades to a pass with a warning.
func (b *base) within(ctx context.Context, fs []feature.Feature, enabled bool) (PredicateResult, error) {
	if !enabled {
		return skipped(PredicateWithinBoundary), nil
	}
	if b.boundary == nil {
		log := b.logger(ctx)
		log.Warn().
			Str("event", logging.EventBoundaryAbsent).
			Str("predicate", string(PredicateWithinBoundary)).
			Msg("no boundary reference supplied, containment check passes")
		return skipped(PredicateWithinBoundary), nil
	}
	return withinBoundary(ctx, fs, b.boundary)
}

// proximity runs the point-to-line rule against lines. warn selects
// whether an absent line collection is reported.
func (b *base) proximity(ctx context.Context, fs []feature.Feature, lines *feature.Collection, maxDistance float64, warn bool) (PredicateResult, error) {
	geoms := nonEmpty(lines)
	if len(geoms) == 0 {
		if warn {
			log := b.logger(ctx)
			log.Warn().
				Str("event", logging.EventLinesAbsent).
				Str("predicate", string(PredicateProximityToLines)).
				Msg("no line collection supplied, proximity check passes")
		}
		return skipped(PredicateProximityToLines), nil
	}
	return proximityToLines(ctx, fs, geoms, maxDistance)
}

type step func() (PredicateResult, error)

// evaluate runs every step in order and stops at the first error. Predicate
// failures do not stop evaluation.
func evaluate(steps ...step) (Result, error) {
	preds := make([]PredicateResult, 0, len(steps))
	for _, s := range steps {
		pr, err := s()
		if err != nil {
			return Result{}, err
		}
		preds = append(preds, pr)
	}
	return newResult(preds...), nil
}
