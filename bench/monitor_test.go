package bench

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/utkarsh5026/parbench/workload"
)

func squareSumFactory(terms int) workload.Factory {
	return func() workload.Workload {
		return workload.SquareSum{Terms: terms}
	}
}

func TestMonitorThroughput_OneStatPerWorker(t *testing.T) {
	const duration = 50 * time.Millisecond

	for _, workers := range []int{1, 2, 4, 9} {
		stats, err := New().MonitorThroughput(context.Background(), squareSumFactory(500), workers, duration)
		if err != nil {
			t.Fatalf("workers=%d: unexpected error: %v", workers, err)
		}
		if len(stats) != workers {
			t.Fatalf("workers=%d: expected %d stats, got %d", workers, workers, len(stats))
		}

		ids := make([]int, 0, len(stats))
		for _, s := range stats {
			ids = append(ids, s.WorkerID)
			if s.Iterations <= 0 {
				t.Errorf("worker %d: expected some iterations, got %d", s.WorkerID, s.Iterations)
			}
			if s.Elapsed < duration || s.Elapsed > duration+200*time.Millisecond {
				t.Errorf("worker %d: elapsed %v not within tolerance of %v", s.WorkerID, s.Elapsed, duration)
			}
			want := float64(s.Iterations) / s.Elapsed.Seconds()
			if s.Throughput != want {
				t.Errorf("worker %d: throughput %f, expected %f", s.WorkerID, s.Throughput, want)
			}
		}

		sort.Ints(ids)
		for i, id := range ids {
			if id != i {
				t.Fatalf("workers=%d: expected ids 0..%d, got %v", workers, workers-1, ids)
			}
		}
	}
}

func TestMonitorThroughput_ManyConcurrentPublishers(t *testing.T) {
	const workers = 128

	stats, err := New().MonitorThroughput(context.Background(), squareSumFactory(10), workers, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[int]bool, workers)
	for _, s := range stats {
		if seen[s.WorkerID] {
			t.Errorf("worker %d published twice", s.WorkerID)
		}
		seen[s.WorkerID] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d distinct workers, got %d", workers, len(seen))
	}
}

func TestMonitorThroughput_FreshWorkloadPerWorker(t *testing.T) {
	var made atomic.Int32
	factory := func() workload.Workload {
		made.Add(1)
		return workload.SquareSum{Terms: 10}
	}

	if _, err := New().MonitorThroughput(context.Background(), factory, 6, 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if made.Load() != 6 {
		t.Errorf("expected one workload per worker (6), factory called %d times", made.Load())
	}
}

func TestMonitorThroughput_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name     string
		factory  workload.Factory
		workers  int
		duration time.Duration
	}{
		{name: "zero workers", factory: squareSumFactory(1), workers: 0, duration: time.Millisecond},
		{name: "negative workers", factory: squareSumFactory(1), workers: -1, duration: time.Millisecond},
		{name: "zero duration", factory: squareSumFactory(1), workers: 1, duration: 0},
		{name: "negative duration", factory: squareSumFactory(1), workers: 1, duration: -time.Second},
		{name: "nil factory", factory: nil, workers: 1, duration: time.Millisecond},
		{name: "factory returns nil", factory: func() workload.Workload { return nil }, workers: 2, duration: time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := New().MonitorThroughput(context.Background(), tt.factory, tt.workers, tt.duration)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			if stats != nil {
				t.Errorf("expected no stats, got %v", stats)
			}
		})
	}
}

func TestMonitorThroughput_FailuresAreCounted(t *testing.T) {
	failing := func() workload.Workload {
		return workload.Func{K: workload.Compute, Fn: func(context.Context, int) (int64, error) {
			return 0, errors.New("nope")
		}}
	}

	stats, err := New().MonitorThroughput(context.Background(), failing, 2, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("workload failures must not fail the monitor, got %v", err)
	}

	for _, s := range stats {
		if s.Iterations != 0 || s.Failures == 0 || s.Throughput != 0 {
			t.Errorf("worker %d: expected only failures, got %+v", s.WorkerID, s)
		}
	}

	if _, err := ParallelismFactor(stats); !errors.Is(err, ErrDivisionHazard) {
		t.Errorf("expected ErrDivisionHazard for a zero baseline, got %v", err)
	}
}

func TestMonitorThroughput_Cancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	stats, err := New().MonitorThroughput(ctx, squareSumFactory(100), 3, 10*time.Second)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("workers did not stop after cancellation: %v", time.Since(start))
	}
	if len(stats) != 3 {
		t.Errorf("expected partial stats from all 3 workers, got %d", len(stats))
	}
}

func TestMonitorThroughput_WaitWorkload(t *testing.T) {
	factory := func() workload.Workload { return workload.Sleep{Duration: 10 * time.Millisecond} }

	stats, err := New().MonitorThroughput(context.Background(), factory, 4, 100*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewAnalyzer().FromStats(stats)
	if err != nil {
		t.Fatal(err)
	}
	// Sleeping workers never compete, so every worker keeps the baseline pace.
	if report.ParallelismFactor < 3 || report.ParallelismFactor > 5 {
		t.Errorf("expected a factor near 4 for wait-bound workers, got %.2f", report.ParallelismFactor)
	}
}

func TestMonitorThroughput_WithAffinityAndRecorder(t *testing.T) {
	rec := newCountingRecorder()
	h := New(WithAffinity(true), WithRecorder(rec), WithCapability(DetectCapability()))

	stats, err := h.MonitorThroughput(context.Background(), squareSumFactory(100), 2, 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 || len(rec.workers) != 2 {
		t.Errorf("expected 2 stats and 2 recorded workers, got %d and %d", len(stats), len(rec.workers))
	}
}
