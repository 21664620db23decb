// Geocheck - Geometric Data-Quality Validation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geocheck

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

var errTask = errors.New("task failed")

func TestRunReturnsValueAndError(t *testing.T) {
	t.Parallel()

	v, err := Run(context.Background(), func(context.Context) (int, error) { return 42, nil })
	if err != nil || v != 42 {
		t.Fatalf("Run() = %d, %v; want 42, nil", v, err)
	}

	_, err = Run(context.Background(), func(context.Context) (int, error) { return 0, errTask })
	if !errors.Is(err, errTask) {
		t.Errorf("Run() error = %v, want errTask unchanged", err)
	}
}

func TestRunRecoversPanic(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), func(context.Context) (bool, error) { panic("boom") })
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("Run() error = %v, want *PanicError", err)
	}
	if pe.Value != "boom" || len(pe.Stack) == 0 {
		t.Errorf("PanicError = %+v", pe)
	}
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Run(ctx, func(context.Context) (bool, error) {
		<-release
		return true, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}

	if _, err := Run(ctx, func(context.Context) (bool, error) { return true, nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() on cancelled ctx error = %v, want context.Canceled", err)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	t.Parallel()

	p := NewPool(Config{MaxWorkers: 2})
	if p.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", p.Size())
	}

	var inflight, peak atomic.Int32
	err := p.ForEach(context.Background(), 10, func(context.Context, int) error {
		n := inflight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inflight.Add(-1)
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", got)
	}
}

func TestForEachVisitsEveryIndex(t *testing.T) {
	t.Parallel()

	p := NewPool(Config{MaxWorkers: 3})
	seen := make([]atomic.Bool, 7)
	if err := p.ForEach(context.Background(), len(seen), func(_ context.Context, i int) error {
		seen[i].Store(true)
		return nil
	}); err != nil {
		t.Fatalf("ForEach() error = %v", err)
	}
	for i := range seen {
		if !seen[i].Load() {
			t.Errorf("index %d not visited", i)
		}
	}
}

func TestForEachReturnsFirstError(t *testing.T) {
	t.Parallel()

	p := NewPool(Config{MaxWorkers: 1})
	err := p.ForEach(context.Background(), 5, func(_ context.Context, i int) error {
		if i == 2 {
			return errTask
		}
		return nil
	})
	if !errors.Is(err, errTask) {
		t.Errorf("ForEach() error = %v, want errTask", err)
	}
}

func TestDoAfterClose(t *testing.T) {
	t.Parallel()

	p := NewPool(Config{})
	if p.Size() < 1 {
		t.Fatalf("default Size() = %d", p.Size())
	}
	p.Close()
	if _, err := Do(context.Background(), p, func(context.Context) (int, error) { return 1, nil }); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Do() after Close error = %v, want ErrPoolClosed", err)
	}
}

func TestCancelledCallsReleaseSlots(t *testing.T) {
	t.Parallel()
	p := NewPool(Config{MaxWorkers: 1})
	defer p.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 64; i++ {
		if _, err := Do(cancelled, p, func(context.Context) (int, error) { return 1, nil }); !errors.Is(err, context.Canceled) {
			t.Fatalf("Do(cancelled) error = %v, want context.Canceled", err)
		}
	}

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	v, err := Do(ctx, p, func(context.Context) (int, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("Do() after cancelled calls = %d, %v; want 7, nil", v, err)
	}
}

func TestFailedForEachReleasesSlots(t *testing.T) {
	t.Parallel()
	p := NewPool(Config{MaxWorkers: 4})
	defer p.Close()

	for round := 0; round < 10; round++ {
		err := p.ForEach(context.Background(), 200, func(_ context.Context, i int) error {
			if i == 0 {
				return errTask
			}
			return nil
		})
		if !errors.Is(err, errTask) {
			t.Fatalf("round %d: ForEach() error = %v, want errTask", round, err)
		}
	}

	ctx, done := context.WithTimeout(context.Background(), 2*time.Second)
	defer done()
	var visited atomic.Int64
	err := p.ForEach(ctx, 8, func(context.Context, int) error {
		visited.Add(1)
		return nil
	})
	if err != nil || visited.Load() != 8 {
		t.Fatalf("ForEach() after failures = %v with %d calls; want nil with 8", err, visited.Load())
	}
}
