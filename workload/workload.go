// Package workload defines the units of work that the benchmark harness
// times: compute-bound tasks that keep a processor busy and wait-bound
// tasks that park the calling goroutine until a timer fires.
//
// Every workload produces a deterministic int64 output so that a run can
// be checked for correctness independently of how long it took.
package workload

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidCost is returned when a workload is built with a cost
// parameter it cannot honour.
var ErrInvalidCost = errors.New("invalid workload cost")

// Kind classifies a workload by what limits its progress.
type Kind int

const (
	// Compute workloads never block; they contend for processor time.
	Compute Kind = iota
	// Wait workloads block on an external completion without holding a
	// processor.
	Wait
)

func (k Kind) String() string {
	switch k {
	case Compute:
		return "compute"
	case Wait:
		return "wait"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Workload is one benchmarkable unit of work.
type Workload interface {
	// Kind reports whether the workload is compute-bound or wait-bound.
	Kind() Kind

	// Cost is the declared cost parameter: the recursion depth or term
	// count for compute workloads, seconds for wait workloads.
	Cost() float64

	// Run executes the workload once. taskID identifies the submission
	// slot and is echoed by wait workloads.
	Run(ctx context.Context, taskID int) (int64, error)
}

// Factory produces a fresh workload. The throughput monitor calls it once
// per worker so that workers never share an instance.
type Factory func() Workload

// Func adapts a plain function into a Workload.
type Func struct {
	K  Kind
	C  float64
	Fn func(ctx context.Context, taskID int) (int64, error)
}

func (f Func) Kind() Kind    { return f.K }
func (f Func) Cost() float64 { return f.C }

func (f Func) Run(ctx context.Context, taskID int) (int64, error) {
	return f.Fn(ctx, taskID)
}
