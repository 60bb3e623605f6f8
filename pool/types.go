package pool

import "context"

// ProcessFunc processes a single task and returns its result.
// A returned error stops the pool unless WithContinueOnError is set.
type ProcessFunc[T any, R any] func(ctx context.Context, task T) (R, error)

// Result is the outcome of one task together with its position in the
// submitted slice.
type Result[R any] struct {
	Value R
	Error error
	Index int
}

// indexedTask wraps a task with its original index
type indexedTask[T any] struct {
	index int
	task  T
}
