package workload

import (
	"context"
	"fmt"
	"time"
)

// Sleep simulates an I/O-bound operation by parking on a timer. The
// goroutine is descheduled for the whole wait, leaving its processor to
// other work.
type Sleep struct {
	Duration time.Duration
}

// NewSleep validates the duration and returns the workload.
func NewSleep(d time.Duration) (Sleep, error) {
	if d < 0 {
		return Sleep{}, fmt.Errorf("%w: negative sleep %v", ErrInvalidCost, d)
	}
	return Sleep{Duration: d}, nil
}

func (s Sleep) Kind() Kind    { return Wait }
func (s Sleep) Cost() float64 { return s.Duration.Seconds() }

// Run blocks for Duration or until ctx is done, and returns taskID.
func (s Sleep) Run(ctx context.Context, taskID int) (int64, error) {
	timer := time.NewTimer(s.Duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return int64(taskID), nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
