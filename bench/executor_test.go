package bench

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/utkarsh5026/parbench/workload"
)

func TestExecute_TimesTheRun(t *testing.T) {
	r := Execute(context.Background(), workload.Sleep{Duration: 15 * time.Millisecond}, 3)

	if r.Failed() {
		t.Fatalf("unexpected failure: %v", r.Err)
	}
	if r.TaskID != 3 || r.Output != 3 {
		t.Errorf("expected id and output 3, got %d/%d", r.TaskID, r.Output)
	}
	if r.Elapsed < 15*time.Millisecond {
		t.Errorf("elapsed %v shorter than the sleep", r.Elapsed)
	}
}

func TestExecute_WrapsErrors(t *testing.T) {
	cause := errors.New("disk on fire")
	w := workload.Func{Fn: func(context.Context, int) (int64, error) { return 99, cause }}

	r := Execute(context.Background(), w, 5)

	if !errors.Is(r.Err, ErrTaskFailure) || !errors.Is(r.Err, cause) {
		t.Fatalf("expected ErrTaskFailure wrapping the cause, got %v", r.Err)
	}
	if r.Output != 0 {
		t.Errorf("failed task must not report an output, got %d", r.Output)
	}
}

func TestExecute_RecoversPanics(t *testing.T) {
	w := workload.Func{Fn: func(context.Context, int) (int64, error) {
		time.Sleep(5 * time.Millisecond)
		panic("boom")
	}}

	r := Execute(context.Background(), w, 1)

	if !errors.Is(r.Err, ErrTaskFailure) {
		t.Fatalf("expected ErrTaskFailure, got %v", r.Err)
	}
	if !strings.Contains(r.Err.Error(), "boom") {
		t.Errorf("expected panic value in error, got %q", r.Err)
	}
	if r.Elapsed < 5*time.Millisecond {
		t.Errorf("expected elapsed to cover the run before the panic, got %v", r.Elapsed)
	}
}
