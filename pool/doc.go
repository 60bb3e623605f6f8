// Package pool provides a small generic worker pool with a fixed number of
// workers.
//
// The primary type is WorkerPool[T, R], which processes tasks of type T and
// returns results of type R. Tasks are handed to workers over a bounded
// channel, so at most WorkerCount tasks are in flight at any time and the
// rest wait in the queue. Results come back in submission order no matter
// which worker finished first.
//
// # Basic Usage
//
//	ctx := context.Background()
//	tasks := []int{1, 2, 3, 4}
//	p := NewWorkerPool[int, int](WithWorkerCount(4))
//	results, err := p.Process(ctx, tasks, func(ctx context.Context, t int) (int, error) {
//	    return t * 2, nil
//	})
//
// # Rate Limiting
//
// Control the dispatch rate to model a throttled downstream service:
//
//	p := NewWorkerPool[string, Response](
//	    WithWorkerCount(10),
//	    WithRateLimit(5.0, 10), // 5 tasks/sec, burst of 10
//	)
//
// # Error Handling
//
// By default the pool is fail-fast: the first task error cancels the
// remaining work and is returned. WithContinueOnError keeps every worker
// running and reports all task errors joined together once the batch has
// drained. Panics inside a task are recovered and converted into errors
// wrapping ErrWorkerPanic, so one bad task never takes a worker down.
//
// The benchmark harness records failures per task and never returns an
// error from its process function, so it relies on neither path; both
// serve callers that use the pool directly.
package pool
