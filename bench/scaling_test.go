package bench

import (
	"context"
	"runtime"
	"testing"
	"time"
)

// serialize limits the runtime to a single processor for the rest of the test.
func serialize(t *testing.T) {
	t.Helper()
	prev := runtime.GOMAXPROCS(1)
	t.Cleanup(func() { runtime.GOMAXPROCS(prev) })
}

// monitorFactor measures a one-worker baseline window followed by a
// workers-wide window of compute work and returns the factor between them.
func monitorFactor(t *testing.T, workers int, window time.Duration) float64 {
	t.Helper()
	h := New()
	ctx := context.Background()

	solo, err := h.MonitorThroughput(ctx, squareSumFactory(1000), 1, window)
	if err != nil {
		t.Fatal(err)
	}
	stats, err := h.MonitorThroughput(ctx, squareSumFactory(1000), workers, window)
	if err != nil {
		t.Fatal(err)
	}

	report, err := NewAnalyzer().FromBaseline(solo[0], stats)
	if err != nil {
		t.Fatal(err)
	}
	return report.ParallelismFactor
}

func TestMonitorThroughput_ComputeSerializedFactorNearOne(t *testing.T) {
	if testing.Short() {
		t.Skip("measures compute throughput over real windows")
	}
	serialize(t)

	factor := monitorFactor(t, 4, 300*time.Millisecond)
	if factor < 0.7 || factor > 1.5 {
		t.Errorf("four compute workers on one processor: expected factor near 1, got %.2f", factor)
	}

	// The in-run baseline cannot tell that the workers took turns.
	stats, err := New().MonitorThroughput(context.Background(), squareSumFactory(1000), 4, 300*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if inRun, err := ParallelismFactor(stats); err != nil || inRun < 2.5 {
		t.Errorf("expected the in-run factor to stay near 4, got %.2f (%v)", inRun, err)
	}
}

func TestMonitorThroughput_ComputeParallelFactor(t *testing.T) {
	if testing.Short() {
		t.Skip("measures compute throughput over real windows")
	}
	if slots := DetectCapability().Slots(); slots < 4 {
		t.Skipf("needs 4 parallel slots, have %d", slots)
	}

	factor := monitorFactor(t, 4, 300*time.Millisecond)
	if factor <= 2.5 {
		t.Errorf("four compute workers on four processors: expected factor near 4, got %.2f", factor)
	}
}

func computeSpeedup(t *testing.T, workers int) float64 {
	t.Helper()
	h := New()
	tasks := fibTasks(t, 30, 30, 30, 30, 30, 30, 30, 30)

	seq, err := h.RunBatch(context.Background(), tasks, Sequential, 0)
	if err != nil {
		t.Fatal(err)
	}
	conc, err := h.RunBatch(context.Background(), tasks, Concurrent, workers)
	if err != nil {
		t.Fatal(err)
	}
	if err := VerifyOutputs(seq, conc); err != nil {
		t.Fatal(err)
	}

	speedup, err := Speedup(seq.Total, conc.Total)
	if err != nil {
		t.Fatal(err)
	}
	return speedup
}

func TestRunBatch_ComputeSpeedup(t *testing.T) {
	if testing.Short() {
		t.Skip("runs compute-bound batches")
	}

	t.Run("serialized", func(t *testing.T) {
		serialize(t)
		if s := computeSpeedup(t, 4); s < 0.7 || s > 1.4 {
			t.Errorf("compute batch on one processor: expected speedup near 1, got %.2f", s)
		}
	})

	t.Run("parallel", func(t *testing.T) {
		if slots := DetectCapability().Slots(); slots < 4 {
			t.Skipf("needs 4 parallel slots, have %d", slots)
		}
		if s := computeSpeedup(t, 4); s <= 2 {
			t.Errorf("compute batch on four processors: expected speedup near 4, got %.2f", s)
		}
	})
}
