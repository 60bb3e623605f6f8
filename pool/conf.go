package pool

import (
	"golang.org/x/time/rate"
)

// WorkerPoolOption is a functional option for configuring the worker pool.
type WorkerPoolOption func(*workerPoolConfig)

type workerPoolConfig struct {
	workerCount     int
	rateLimiter     *rate.Limiter
	continueOnError bool
}

// WithWorkerCount sets the number of concurrent workers.
// If not specified, defaults to runtime.GOMAXPROCS(0).
func WithWorkerCount(count int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if count > 0 {
			cfg.workerCount = count
		}
	}
}

// WithRateLimit caps how fast workers may pick up tasks.
// tasksPerSecond is the sustained rate and burst the number of tasks that
// may start back to back. Non-positive values leave the pool unthrottled.
//
// Example:
//
//	WithRateLimit(10, 5) // Allow 10 tasks/sec with burst of 5
func WithRateLimit(tasksPerSecond float64, burst int) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		if tasksPerSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(tasksPerSecond), burst)
		}
	}
}

// WithContinueOnError keeps workers running after a task fails.
// All task errors are joined and returned once every task has finished.
func WithContinueOnError(enabled bool) WorkerPoolOption {
	return func(cfg *workerPoolConfig) {
		cfg.continueOnError = enabled
	}
}
