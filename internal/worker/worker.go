// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

// Package worker runs CPU-bound validation off the calling goroutine.
//
// Run hands one function to a fresh goroutine and waits for its result or
// for ctx to end, whichever comes first. Pool bounds how many such tasks run
// at once. Errors returned by the task cross the goroutine boundary
// unchanged; a panic is returned as *PanicError.
//
// Cancellation never interrupts a task that is already running. The caller
// stops waiting and gets ctx.Err(); the task finishes in the background and
// its result is discarded. Validation is side-effect free, so nothing needs
// cleaning up.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/geocheck/internal/metrics"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// PanicError is a panic recovered from a task.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("worker task panicked: %v", e.Value)
}

type outcome[T any] struct {
	val T
	err error
}

// Run executes fn on its own goroutine and waits for it or for ctx.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	return start(ctx, fn, func() {})
}

// start runs fn on a new goroutine, calls release when fn returns and waits
// for the outcome or for ctx.
func start[T any](ctx context.Context, fn func(context.Context) (T, error), release func()) (T, error) {
	done := make(chan outcome[T], 1)
	go func() {
		defer release()
		done <- call(ctx, fn)
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case o := <-done:
		return o.val, o.err
	}
}

func call[T any](ctx context.Context, fn func(context.Context) (T, error)) (o outcome[T]) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome[T]{err: &PanicError{Value: r, Stack: debug.Stack()}}
		}
	}()
	v, err := fn(ctx)
	return outcome[T]{val: v, err: err}
}

// Config sizes a Pool.
type Config struct {
	// MaxWorkers bounds concurrent tasks. Zero or less means runtime.NumCPU().
	MaxWorkers int
}

// Pool is a bounded executor. The zero value is not usable; call NewPool.
type Pool struct {
	sem    chan struct{}
	closed chan struct{}
}

// NewPool creates a pool with cfg.MaxWorkers slots.
func NewPool(cfg Config) *Pool {
	n := cfg.MaxWorkers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{
		sem:    make(chan struct{}, n),
		closed: make(chan struct{}),
	}
}

// Size returns the number of worker slots.
func (p *Pool) Size() int {
	return cap(p.sem)
}

// Close rejects further submissions. Tasks already admitted run to
// completion. Close must be called at most once.
func (p *Pool) Close() {
	close(p.closed)
}

// Do waits for a free slot and then runs fn as with Run. Waiting for a slot
// also honours ctx.
func Do[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	select {
	case <-p.closed:
		return zero, ErrPoolClosed
	default:
	}

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.closed:
		return zero, ErrPoolClosed
	case p.sem <- struct{}{}:
	}

	metrics.TrackInflight(1)
	release := func() {
		metrics.TrackInflight(-1)
		<-p.sem
	}

	// select picks randomly among ready cases, so the slot may have been
	// taken with ctx already done.
	if err := ctx.Err(); err != nil {
		release()
		return zero, err
	}
	return start(ctx, fn, release)
}

// ForEach calls fn for every i in [0, n) with at most p.Size() calls in
// flight. The first error cancels the context passed to the remaining calls
// and is returned.
func (p *Pool) ForEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Size())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			_, err := Do(gctx, p, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, fn(ctx, i)
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
