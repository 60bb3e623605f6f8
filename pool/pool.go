package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ErrWorkerPanic is wrapped by the error produced when a task panics.
var ErrWorkerPanic = errors.New("worker panic")

// WorkerPool is a generic pool of a fixed number of workers.
//
// Type parameters:
//   - T: The input task type
//   - R: The result type
type WorkerPool[T any, R any] struct {
	workerCount     int
	taskBuffer      int
	rateLimiter     *rate.Limiter
	continueOnError bool
}

// NewWorkerPool creates a new worker pool with the given options.
// Default configuration: workers = GOMAXPROCS, buffer = worker count.
func NewWorkerPool[T any, R any](opts ...WorkerPoolOption) *WorkerPool[T, R] {
	cfg := &workerPoolConfig{
		workerCount: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return &WorkerPool[T, R]{
		workerCount:     cfg.workerCount,
		taskBuffer:      cfg.workerCount,
		rateLimiter:     cfg.rateLimiter,
		continueOnError: cfg.continueOnError,
	}
}

// WorkerCount returns the configured number of workers.
func (wp *WorkerPool[T, R]) WorkerCount() int {
	return wp.workerCount
}

// Process executes tasks concurrently and returns results in the order the
// tasks were submitted. It returns only after every worker has exited.
//
// Parameters:
//   - ctx: Context for cancellation and timeout control
//   - tasks: Slice of tasks to process
//   - processFn: Function to process each task
//
// Returns:
//   - results: Slice of all results (may be partial if errors occurred)
//   - error: First task error in fail-fast mode, all task errors joined
//     with WithContinueOnError, or the context error
func (wp *WorkerPool[T, R]) Process(
	ctx context.Context,
	tasks []T,
	processFn ProcessFunc[T, R],
) ([]R, error) {
	if len(tasks) == 0 {
		return []R{}, nil
	}

	g, ctx := errgroup.WithContext(ctx)

	taskChan := make(chan indexedTask[T], wp.taskBuffer)
	resultChan := make(chan Result[R], len(tasks))

	numWorkers := min(wp.workerCount, len(tasks))
	for range numWorkers {
		g.Go(func() error {
			return wp.worker(ctx, taskChan, resultChan, processFn)
		})
	}

	g.Go(func() error {
		defer close(taskChan)
		for idx, task := range tasks {
			select {
			case taskChan <- indexedTask[T]{index: idx, task: task}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	results := make([]R, len(tasks))
	var taskErrs []error
	var collectionWg sync.WaitGroup

	collectionWg.Go(func() {
		for result := range resultChan {
			if result.Index >= 0 && result.Index < len(results) {
				results[result.Index] = result.Value
			}
			if result.Error != nil {
				taskErrs = append(taskErrs, result.Error)
			}
		}
	})

	err := g.Wait()
	close(resultChan)
	collectionWg.Wait()

	if err != nil {
		return results, err
	}
	return results, errors.Join(taskErrs...)
}

// worker pulls tasks until the task channel closes or the context ends.
func (wp *WorkerPool[T, R]) worker(
	ctx context.Context,
	taskChan <-chan indexedTask[T],
	resultChan chan<- Result[R],
	processFn ProcessFunc[T, R],
) error {
	for {
		select {
		case task, ok := <-taskChan:
			if !ok {
				return nil
			}
			if wp.rateLimiter != nil {
				if err := wp.rateLimiter.Wait(ctx); err != nil {
					return err
				}
			}
			result, err := processWithRecovery(ctx, task.task, processFn)
			select {
			case resultChan <- Result[R]{Value: result, Error: err, Index: task.index}:
			case <-ctx.Done():
				return ctx.Err()
			}
			if err != nil && !wp.continueOnError {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// processWithRecovery executes a task with panic recovery.
// If a panic occurs, it's converted to an error to prevent crashing the worker.
func processWithRecovery[T, R any](
	ctx context.Context,
	task T,
	processFn ProcessFunc[T, R],
) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			err = fmt.Errorf("%w: %v\nstack trace:\n%s", ErrWorkerPanic, r, buf[:n])
		}
	}()

	return processFn(ctx, task)
}
