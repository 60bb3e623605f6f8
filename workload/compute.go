package workload

import (
	"context"
	"fmt"
	"math"
)

// MaxFibonacci is the largest n whose Fibonacci number fits in an int64.
const MaxFibonacci = 92

// maxBinet keeps the accumulated float64 error of phi^n well below 0.5.
const maxBinet = 60

// Fibonacci computes the n-th Fibonacci number by naive recursion. The
// exponential call tree keeps a core busy without touching shared memory.
type Fibonacci struct {
	N int
}

// NewFibonacci validates n and returns the workload.
func NewFibonacci(n int) (Fibonacci, error) {
	if n < 0 || n > MaxFibonacci {
		return Fibonacci{}, fmt.Errorf("%w: fibonacci(%d) outside [0, %d]", ErrInvalidCost, n, MaxFibonacci)
	}
	return Fibonacci{N: n}, nil
}

func (f Fibonacci) Kind() Kind    { return Compute }
func (f Fibonacci) Cost() float64 { return float64(f.N) }

func (f Fibonacci) Run(_ context.Context, _ int) (int64, error) {
	if f.N < 0 || f.N > MaxFibonacci {
		return 0, fmt.Errorf("%w: fibonacci(%d)", ErrInvalidCost, f.N)
	}
	return fib(f.N), nil
}

func fib(n int) int64 {
	if n <= 1 {
		return int64(n)
	}
	return fib(n-1) + fib(n-2)
}

// ExpectedFibonacci returns F(n) without recursion. Binet's closed form is
// used where float64 is exact, and an iterative sum above that.
func ExpectedFibonacci(n int) int64 {
	if n <= maxBinet {
		phi := (1 + math.Sqrt(5)) / 2
		return int64(math.Round(math.Pow(phi, float64(n)) / math.Sqrt(5)))
	}
	var a, b int64 = 0, 1
	for range n {
		a, b = b, a+b
	}
	return a
}

// MaxSquareSumTerms bounds SquareSum so its closed form stays inside int64.
const MaxSquareSumTerms = 1_000_000

// SquareSum adds i*i for i in [0, Terms). It is a short, fixed-cost loop
// suited to counting iterations over a time window.
type SquareSum struct {
	Terms int
}

// NewSquareSum validates the term count and returns the workload.
func NewSquareSum(terms int) (SquareSum, error) {
	if terms < 0 || terms > MaxSquareSumTerms {
		return SquareSum{}, fmt.Errorf("%w: square sum of %d terms", ErrInvalidCost, terms)
	}
	return SquareSum{Terms: terms}, nil
}

func (s SquareSum) Kind() Kind    { return Compute }
func (s SquareSum) Cost() float64 { return float64(s.Terms) }

func (s SquareSum) Run(_ context.Context, _ int) (int64, error) {
	var total int64
	for i := range int64(s.Terms) {
		total += i * i
	}
	return total, nil
}

// ExpectedSquareSum is the closed form of SquareSum.Run.
func ExpectedSquareSum(terms int) int64 {
	if terms <= 0 {
		return 0
	}
	n := int64(terms)
	return (n - 1) * n * (2*n - 1) / 6
}
