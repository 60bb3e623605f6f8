package bench

import (
	"fmt"
	"math"
	"time"
)

// DefaultThreshold is the metric above which a run is reported as
// parallel. It is a reporting convention and can be changed with
// WithThreshold.
const DefaultThreshold = 1.5

// Verdict is the informational classification of a metric.
type Verdict int

const (
	VerdictLimited Verdict = iota
	VerdictParallel
)

func (v Verdict) String() string {
	if v == VerdictParallel {
		return "parallel execution observed"
	}
	return "limited parallelism"
}

// Report holds the metrics derived from one comparison. Fields that do
// not apply to the input are zero: Speedup for throughput stats,
// ParallelismFactor and the throughput fields for batch comparisons.
type Report struct {
	Speedup           float64
	ParallelismFactor float64
	// Efficiency is the primary metric divided by the worker count.
	Efficiency float64
	Workers    int
	// Ceiling is the best factor compute-bound work can reach with this
	// many workers on the probed environment; 0 if parallelism is unknown.
	Ceiling float64

	AggregateThroughput float64
	BaselineThroughput  float64

	Verdict Verdict
}

// Speedup is sequentialTotal / concurrentTotal.
func Speedup(sequentialTotal, concurrentTotal time.Duration) (float64, error) {
	if concurrentTotal <= 0 {
		return 0, fmt.Errorf("%w: concurrent total is %v", ErrDivisionHazard, concurrentTotal)
	}
	return float64(sequentialTotal) / float64(concurrentTotal), nil
}

// AggregateThroughput sums the throughput of every worker.
func AggregateThroughput(stats []WorkerStat) float64 {
	var sum float64
	for _, s := range stats {
		sum += s.Throughput
	}
	return sum
}

// ParallelismFactor is the aggregate throughput divided by the first
// worker's throughput, which serves as the single-worker baseline.
func ParallelismFactor(stats []WorkerStat) (float64, error) {
	if len(stats) == 0 {
		return 0, fmt.Errorf("%w: no worker stats", ErrInsufficientData)
	}
	return ParallelismFactorAgainst(stats[0], stats)
}

// ParallelismFactorAgainst divides the aggregate throughput of stats by a
// baseline measured separately, typically the single stat of a one-worker
// MonitorThroughput run. Unlike ParallelismFactor it stays meaningful when
// the workers of stats slowed each other down.
func ParallelismFactorAgainst(baseline WorkerStat, stats []WorkerStat) (float64, error) {
	if len(stats) == 0 {
		return 0, fmt.Errorf("%w: no worker stats", ErrInsufficientData)
	}
	if baseline.Throughput == 0 || math.IsNaN(baseline.Throughput) {
		return 0, fmt.Errorf("%w: baseline worker %d has zero throughput", ErrDivisionHazard, baseline.WorkerID)
	}
	return AggregateThroughput(stats) / baseline.Throughput, nil
}

// Analyzer turns collected timings into a Report. It has no state beyond
// its configuration and is safe to share.
type Analyzer struct {
	threshold  float64
	capability Capability
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithThreshold sets the metric above which the verdict is
// VerdictParallel. Non-positive values are ignored.
func WithThreshold(threshold float64) AnalyzerOption {
	return func(a *Analyzer) {
		if threshold > 0 {
			a.threshold = threshold
		}
	}
}

// ForCapability lets the analyzer report the ceiling the environment
// imposes on compute-bound work.
func ForCapability(c Capability) AnalyzerOption {
	return func(a *Analyzer) {
		a.capability = c
	}
}

// NewAnalyzer creates an Analyzer with DefaultThreshold.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Threshold returns the configured classification threshold.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Classify maps a speedup or parallelism factor to a Verdict.
func (a *Analyzer) Classify(metric float64) Verdict {
	if metric > a.threshold {
		return VerdictParallel
	}
	return VerdictLimited
}

// CompareBatches derives the speedup of conc over seq. Both batches stay
// valid whatever the outcome.
func (a *Analyzer) CompareBatches(seq, conc BatchTiming) (Report, error) {
	speedup, err := Speedup(seq.Total, conc.Total)
	if err != nil {
		return Report{}, err
	}

	workers := max(conc.Workers, 1)
	return Report{
		Speedup:    speedup,
		Efficiency: speedup / float64(workers),
		Workers:    workers,
		Ceiling:    a.ceiling(min(workers, max(len(conc.Results), 1))),
		Verdict:    a.Classify(speedup),
	}, nil
}

// FromStats derives the parallelism factor of a throughput-monitor run,
// using its first worker as the baseline.
func (a *Analyzer) FromStats(stats []WorkerStat) (Report, error) {
	if len(stats) == 0 {
		return Report{}, fmt.Errorf("%w: no worker stats", ErrInsufficientData)
	}
	return a.FromBaseline(stats[0], stats)
}

// FromBaseline derives the parallelism factor of stats against a
// separately measured single-worker baseline.
func (a *Analyzer) FromBaseline(baseline WorkerStat, stats []WorkerStat) (Report, error) {
	factor, err := ParallelismFactorAgainst(baseline, stats)
	if err != nil {
		return Report{}, err
	}

	return Report{
		ParallelismFactor:   factor,
		Efficiency:          factor / float64(len(stats)),
		Workers:             len(stats),
		Ceiling:             a.ceiling(len(stats)),
		AggregateThroughput: AggregateThroughput(stats),
		BaselineThroughput:  baseline.Throughput,
		Verdict:             a.Classify(factor),
	}, nil
}

func (a *Analyzer) ceiling(workers int) float64 {
	slots := a.capability.Slots()
	if slots == 0 {
		return 0
	}
	return float64(min(workers, slots))
}

// VerifyOutputs checks that two batches over the same tasks produced the
// same output for every task id. A task that failed in only one of the
// batches counts as a mismatch.
func VerifyOutputs(a, b BatchTiming) error {
	if len(a.Results) != len(b.Results) {
		return fmt.Errorf("%w: %d results vs %d", ErrOutputMismatch, len(a.Results), len(b.Results))
	}
	for i := range a.Results {
		ra, rb := a.Results[i], b.Results[i]
		switch {
		case ra.TaskID != rb.TaskID:
			return fmt.Errorf("%w: slot %d holds task %d vs %d", ErrOutputMismatch, i, ra.TaskID, rb.TaskID)
		case ra.Failed() != rb.Failed():
			return fmt.Errorf("%w: task %d failed in only one %s/%s run", ErrOutputMismatch, i, a.Mode, b.Mode)
		case !ra.Failed() && ra.Output != rb.Output:
			return fmt.Errorf("%w: task %d produced %d vs %d", ErrOutputMismatch, i, ra.Output, rb.Output)
		}
	}
	return nil
}
