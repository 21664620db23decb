// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package dispatch

import (
	"context"

	"github.com/tomtom215/geocheck/internal/validator"
	"github.com/tomtom215/geocheck/internal/worker"
)

// Async runs a Validator's checks on a worker pool so that the caller's
// goroutine only waits. Results and errors are those of the synchronous
// methods; if ctx ends first the caller gets ctx.Err().
type Async struct {
	v    *Validator
	pool *worker.Pool
}

// NewAsync wraps v.
func NewAsync(v *Validator, pool *worker.Pool) *Async {
	return &Async{v: v, pool: pool}
}

// Validator returns the wrapped validator.
func (a *Async) Validator() *Validator { return a.v }

func (a *Async) CheckValidity(ctx context.Context, opts validator.Options) (bool, error) {
	return worker.Do(ctx, a.pool, func(ctx context.Context) (bool, error) {
		return a.v.CheckValidity(ctx, opts)
	})
}

func (a *Async) CheckSpecificValidity(ctx context.Context, index int, opts validator.Options) (bool, error) {
	return worker.Do(ctx, a.pool, func(ctx context.Context) (bool, error) {
		return a.v.CheckSpecificValidity(ctx, index, opts)
	})
}

func (a *Async) Inspect(ctx context.Context, opts validator.Options) (validator.Result, error) {
	return worker.Do(ctx, a.pool, func(ctx context.Context) (validator.Result, error) {
		return a.v.Inspect(ctx, opts)
	})
}

func (a *Async) InspectFeature(ctx context.Context, index int, opts validator.Options) (validator.Result, error) {
	return worker.Do(ctx, a.pool, func(ctx context.Context) (validator.Result, error) {
		return a.v.InspectFeature(ctx, index, opts)
	})
}

// Sweep already spreads its work over the pool.
func (a *Async) Sweep(ctx context.Context, opts validator.Options) (SweepReport, error) {
	return a.v.Sweep(ctx, a.pool, opts)
}
