package bench

import (
	"context"
	"fmt"
	"time"

	"github.com/utkarsh5026/parbench/workload"
)

// Execute runs w once and times it. The clock is read immediately before
// and after Run. Errors and panics are captured in the result wrapped with
// ErrTaskFailure; Execute itself never fails.
func Execute(ctx context.Context, w workload.Workload, taskID int) (res TaskResult) {
	res.TaskID = taskID

	var start time.Time
	defer func() {
		if p := recover(); p != nil {
			res.Elapsed = time.Since(start)
			res.Output = 0
			res.Err = fmt.Errorf("%w: task %d panicked: %v", ErrTaskFailure, taskID, p)
		}
	}()

	start = time.Now()
	out, err := w.Run(ctx, taskID)
	res.Elapsed = time.Since(start)

	if err != nil {
		res.Err = fmt.Errorf("%w: task %d: %w", ErrTaskFailure, taskID, err)
		return res
	}
	res.Output = out
	return res
}
