package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/utkarsh5026/parbench/internal/cpu"
	"github.com/utkarsh5026/parbench/workload"
)

// WorkerStat is what one throughput-monitor worker achieved in its window.
type WorkerStat struct {
	WorkerID int
	// Iterations counts successful runs of the workload.
	Iterations int64
	// Failures counts runs that returned an error or panicked.
	Failures int64
	Elapsed  time.Duration
	// Throughput is Iterations per second of Elapsed.
	Throughput float64
}

func newWorkerStat(id int, iterations, failures int64, elapsed time.Duration) WorkerStat {
	s := WorkerStat{
		WorkerID:   id,
		Iterations: iterations,
		Failures:   failures,
		Elapsed:    elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.Throughput = float64(iterations) / secs
	}
	return s
}

// statCollector is the only state shared between monitor workers.
// The lock is held for a single append and never while a workload runs.
type statCollector struct {
	mu    sync.Mutex
	stats []WorkerStat
}

func newStatCollector(capacity int) *statCollector {
	return &statCollector{stats: make([]WorkerStat, 0, capacity)}
}

func (c *statCollector) publish(s WorkerStat) {
	c.mu.Lock()
	c.stats = append(c.stats, s)
	c.mu.Unlock()
}

func (c *statCollector) snapshot() []WorkerStat {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]WorkerStat, len(c.stats))
	copy(out, c.stats)
	return out
}

// MonitorThroughput starts exactly workerCount workers. Each takes its own
// workload from factory, starts its own clock, and runs the workload
// repeatedly until that clock reaches duration. It returns one WorkerStat
// per worker, in no particular order, after every worker has finished.
//
// If ctx is cancelled the workers stop early; the partial stats are
// returned together with the context error.
func (h *Harness) MonitorThroughput(
	ctx context.Context,
	factory workload.Factory,
	workerCount int,
	duration time.Duration,
) ([]WorkerStat, error) {
	if workerCount <= 0 {
		return nil, fmt.Errorf("%w: worker count must be positive, got %d", ErrConfiguration, workerCount)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %v", ErrConfiguration, duration)
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: workload factory is nil", ErrConfiguration)
	}

	workloads := make([]workload.Workload, workerCount)
	for i := range workloads {
		if workloads[i] = factory(); workloads[i] == nil {
			return nil, fmt.Errorf("%w: factory returned nil for worker %d", ErrConfiguration, i)
		}
	}

	h.logger.Debug("throughput monitor starting",
		"workers", workerCount,
		"duration", duration,
		"kind", workloads[0].Kind(),
		"pinned", h.pinWorkers)

	collector := newStatCollector(workerCount)
	var wg sync.WaitGroup
	for id, w := range workloads {
		wg.Go(func() {
			collector.publish(h.runWorker(ctx, id, w, duration))
		})
	}
	wg.Wait()

	stats := collector.snapshot()
	for _, s := range stats {
		h.recorder.ObserveWorker(s)
	}

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (h *Harness) runWorker(ctx context.Context, id int, w workload.Workload, duration time.Duration) WorkerStat {
	if h.pinWorkers {
		cleanup, err := cpu.PinWorker(id)
		if err != nil {
			h.logger.Warn("could not pin worker", "worker", id, "error", err)
		}
		defer cleanup()
	}

	// ctx.Err takes a lock; a non-blocking receive on Done does not.
	done := ctx.Done()
	var iterations, failures int64

	start := time.Now()
loop:
	for time.Since(start) < duration {
		select {
		case <-done:
			break loop
		default:
		}

		if r := Execute(ctx, w, id); r.Failed() {
			failures++
			continue
		}
		iterations++
	}

	return newWorkerStat(id, iterations, failures, time.Since(start))
}
