package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/utkarsh5026/parbench/pool"
	"github.com/utkarsh5026/parbench/workload"
)

// Mode selects how a batch is executed.
type Mode int

const (
	// Sequential runs tasks one after another on the calling goroutine.
	Sequential Mode = iota
	// Concurrent runs tasks on a pool of at most workerCount workers.
	Concurrent
)

func (m Mode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// TaskResult is the timed outcome of one task.
type TaskResult struct {
	// TaskID is the task's position in the submitted list.
	TaskID  int
	Output  int64
	Elapsed time.Duration
	// Err is non-nil when the task failed; it wraps ErrTaskFailure.
	Err error
}

// Failed reports whether the task ended in an error.
func (r TaskResult) Failed() bool { return r.Err != nil }

// BatchTiming is the outcome of one RunBatch call.
type BatchTiming struct {
	Mode    Mode
	Workers int
	// Results holds one entry per submitted workload, indexed by TaskID.
	Results []TaskResult
	// Total is the wall-clock span of the whole batch.
	Total time.Duration
}

// BusyTime is the sum of the individual task durations.
func (b BatchTiming) BusyTime() time.Duration {
	var sum time.Duration
	for _, r := range b.Results {
		sum += r.Elapsed
	}
	return sum
}

// Failures returns the results of tasks that failed, in TaskID order.
func (b BatchTiming) Failures() []TaskResult {
	var failed []TaskResult
	for _, r := range b.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

// job carries a workload together with its submission index through the pool.
type job struct {
	id int
	w  workload.Workload
}

// RunBatch executes workloads in the given mode and returns one TaskResult
// per workload in submission order, plus the wall-clock total.
//
// workerCount is the pool size for Concurrent mode and must be positive;
// Sequential mode ignores it. A failing task is recorded in its result and
// does not stop the batch. RunBatch returns an error only for invalid
// configuration or a cancelled context.
func (h *Harness) RunBatch(
	ctx context.Context,
	workloads []workload.Workload,
	mode Mode,
	workerCount int,
) (BatchTiming, error) {
	if err := validateBatch(workloads, mode, workerCount); err != nil {
		return BatchTiming{}, err
	}

	if mode == Sequential {
		workerCount = 1
	}

	if len(workloads) == 0 {
		return BatchTiming{Mode: mode, Workers: workerCount, Results: []TaskResult{}}, nil
	}

	if mode == Concurrent && workerCount > 1 && h.capability.Parallelism == ParallelismUnavailable {
		h.logger.Warn("concurrent batch on an environment without parallelism; compute-bound tasks will not overlap",
			"workers", workerCount,
			"capability", h.capability.String())
	}

	var (
		timing BatchTiming
		err    error
	)
	switch mode {
	case Sequential:
		timing, err = h.runSequential(ctx, workloads)
	case Concurrent:
		timing, err = h.runConcurrent(ctx, workloads, workerCount)
	}
	if err != nil {
		h.logger.Debug("batch aborted", "mode", mode, "error", err)
		return BatchTiming{}, err
	}

	h.logger.Debug("batch finished",
		"mode", mode,
		"tasks", len(timing.Results),
		"workers", timing.Workers,
		"total", timing.Total,
		"busy", timing.BusyTime(),
		"failures", len(timing.Failures()))
	h.recorder.ObserveBatch(timing)
	return timing, nil
}

func validateBatch(workloads []workload.Workload, mode Mode, workerCount int) error {
	switch mode {
	case Sequential:
	case Concurrent:
		if workerCount <= 0 {
			return fmt.Errorf("%w: worker count must be positive, got %d", ErrConfiguration, workerCount)
		}
	default:
		return fmt.Errorf("%w: unknown mode %v", ErrConfiguration, mode)
	}

	for i, w := range workloads {
		if w == nil {
			return fmt.Errorf("%w: workload %d is nil", ErrConfiguration, i)
		}
	}
	return nil
}

func (h *Harness) runSequential(ctx context.Context, workloads []workload.Workload) (BatchTiming, error) {
	results := make([]TaskResult, 0, len(workloads))

	start := time.Now()
	for i, w := range workloads {
		if err := ctx.Err(); err != nil {
			return BatchTiming{}, err
		}
		r := Execute(ctx, w, i)
		h.observe(Sequential, r)
		results = append(results, r)
	}
	total := time.Since(start)

	if err := ctx.Err(); err != nil {
		return BatchTiming{}, err
	}
	return BatchTiming{Mode: Sequential, Workers: 1, Results: results, Total: total}, nil
}

func (h *Harness) runConcurrent(ctx context.Context, workloads []workload.Workload, workerCount int) (BatchTiming, error) {
	jobs := make([]job, len(workloads))
	for i, w := range workloads {
		jobs[i] = job{id: i, w: w}
	}

	p := pool.NewWorkerPool[job, TaskResult](
		pool.WithWorkerCount(workerCount),
		pool.WithRateLimit(h.dispatchRate, h.dispatchBurst),
	)

	start := time.Now()
	results, err := p.Process(ctx, jobs, func(ctx context.Context, j job) (TaskResult, error) {
		r := Execute(ctx, j.w, j.id)
		h.observe(Concurrent, r)
		return r, nil
	})
	total := time.Since(start)

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return BatchTiming{}, err
	}
	return BatchTiming{Mode: Concurrent, Workers: workerCount, Results: results, Total: total}, nil
}
