package bench

import "errors"

var (
	// ErrConfiguration reports an invalid worker count, duration, mode or
	// workload list. It is returned before any work starts.
	ErrConfiguration = errors.New("invalid benchmark configuration")

	// ErrTaskFailure wraps the error or panic of a single task. It is
	// stored in TaskResult.Err and never aborts the batch.
	ErrTaskFailure = errors.New("task failed")

	// ErrDivisionHazard is returned when a metric's denominator is zero.
	ErrDivisionHazard = errors.New("division by zero in metric")

	// ErrInsufficientData is returned when a metric needs more samples
	// than were supplied.
	ErrInsufficientData = errors.New("insufficient data for metric")

	// ErrOutputMismatch is returned by VerifyOutputs when two runs of the
	// same tasks disagree.
	ErrOutputMismatch = errors.New("task outputs differ between runs")
)
