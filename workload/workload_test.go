package workload

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFibonacci_MatchesClosedForm(t *testing.T) {
	known := map[int]int64{0: 0, 1: 1, 2: 1, 10: 55, 20: 6765, 25: 75025}

	for n, want := range known {
		w, err := NewFibonacci(n)
		if err != nil {
			t.Fatalf("NewFibonacci(%d): %v", n, err)
		}
		got, err := w.Run(context.Background(), 0)
		if err != nil {
			t.Fatalf("fib(%d): unexpected error: %v", n, err)
		}
		if got != want {
			t.Errorf("fib(%d): expected %d, got %d", n, want, got)
		}
		if ExpectedFibonacci(n) != want {
			t.Errorf("ExpectedFibonacci(%d): expected %d, got %d", n, want, ExpectedFibonacci(n))
		}
	}
}

func TestExpectedFibonacci_ContinuousAcrossBinetBoundary(t *testing.T) {
	var a, b int64 = 0, 1
	for n := 0; n <= MaxFibonacci; n++ {
		if got := ExpectedFibonacci(n); got != a {
			t.Fatalf("ExpectedFibonacci(%d): expected %d, got %d", n, a, got)
		}
		a, b = b, a+b
	}
}

func TestNewFibonacci_RejectsOutOfRange(t *testing.T) {
	for _, n := range []int{-1, MaxFibonacci + 1} {
		if _, err := NewFibonacci(n); !errors.Is(err, ErrInvalidCost) {
			t.Errorf("NewFibonacci(%d): expected ErrInvalidCost, got %v", n, err)
		}
	}

	if _, err := (Fibonacci{N: -3}).Run(context.Background(), 0); !errors.Is(err, ErrInvalidCost) {
		t.Errorf("expected ErrInvalidCost from an unvalidated literal, got %v", err)
	}
}

func TestSquareSum_MatchesClosedForm(t *testing.T) {
	for _, terms := range []int{0, 1, 2, 10, 1000, 12345} {
		w, err := NewSquareSum(terms)
		if err != nil {
			t.Fatalf("NewSquareSum(%d): %v", terms, err)
		}
		got, _ := w.Run(context.Background(), 0)
		if want := ExpectedSquareSum(terms); got != want {
			t.Errorf("square sum of %d terms: expected %d, got %d", terms, want, got)
		}
	}

	if _, err := NewSquareSum(-1); !errors.Is(err, ErrInvalidCost) {
		t.Errorf("expected ErrInvalidCost, got %v", err)
	}
}

func TestSleep_EchoesTaskID(t *testing.T) {
	w, err := NewSleep(20 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	got, err := w.Run(context.Background(), 7)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 7 {
		t.Errorf("expected task id 7 echoed, got %d", got)
	}
	if elapsed < 20*time.Millisecond {
		t.Errorf("expected to block at least 20ms, blocked %v", elapsed)
	}
	if w.Kind() != Wait || w.Cost() != 0.02 {
		t.Errorf("unexpected kind/cost: %v %v", w.Kind(), w.Cost())
	}
}

func TestSleep_HonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := Sleep{Duration: time.Second}.Run(ctx, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("sleep did not return promptly after cancellation")
	}

	if _, err := NewSleep(-time.Second); !errors.Is(err, ErrInvalidCost) {
		t.Errorf("expected ErrInvalidCost, got %v", err)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Compute, "compute"},
		{Wait, "wait"},
		{Kind(9), "Kind(9)"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestFunc_Adapter(t *testing.T) {
	f := Func{K: Wait, C: 3, Fn: func(ctx context.Context, id int) (int64, error) {
		return int64(id * 10), nil
	}}

	got, err := f.Run(context.Background(), 4)
	if err != nil || got != 40 {
		t.Errorf("expected 40, got %d (%v)", got, err)
	}
	if f.Kind() != Wait || f.Cost() != 3 {
		t.Errorf("unexpected kind/cost: %v %v", f.Kind(), f.Cost())
	}
}
