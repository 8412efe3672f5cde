package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerTicksImmediately(t *testing.T) {
	var ticks atomic.Int64
	r := New("test", time.Hour, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	})

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for ticks.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Expected first tick before the interval elapsed")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunnerStartIsIdempotent(t *testing.T) {
	var ticks atomic.Int64
	r := New("test", time.Hour, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	})

	r.Start()
	r.Start()
	r.Start()
	defer r.Stop()

	time.Sleep(100 * time.Millisecond)
	if n := ticks.Load(); n != 1 {
		t.Errorf("Expected a single loop to tick once, got %d", n)
	}
}

func TestRunnerStopsCleanly(t *testing.T) {
	r := New("test", 10*time.Millisecond, func(ctx context.Context) error {
		return nil
	})

	r.Start()
	if !r.Running() {
		t.Fatal("Expected running after Start")
	}

	r.Stop()
	if r.Running() {
		t.Error("Expected not running after Stop")
	}

	// Stop again is a no-op.
	r.Stop()
}

func TestRunnerSurvivesTickErrors(t *testing.T) {
	var ticks atomic.Int64
	r := New("test", 5*time.Millisecond, func(ctx context.Context) error {
		ticks.Add(1)
		return errors.New("boom")
	})

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Expected loop to keep ticking through errors, got %d ticks", ticks.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunnerSurvivesTickPanic(t *testing.T) {
	var ticks atomic.Int64
	r := New("test", 5*time.Millisecond, func(ctx context.Context) error {
		ticks.Add(1)
		panic("boom")
	})

	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("Expected loop to keep ticking through panics, got %d ticks", ticks.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRunnerRestarts(t *testing.T) {
	var ticks atomic.Int64
	r := New("test", time.Hour, func(ctx context.Context) error {
		ticks.Add(1)
		return nil
	})

	r.Start()
	r.Stop()
	r.Start()
	defer r.Stop()

	deadline := time.After(2 * time.Second)
	for ticks.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("Expected tick after restart, got %d ticks", ticks.Load())
		case <-time.After(10 * time.Millisecond):
		}
	}
}
