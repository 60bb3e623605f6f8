// Package bench measures how much parallel speedup the Go runtime delivers
// for compute-bound and wait-bound workloads.
//
// A Harness runs batches of workloads either sequentially or on a bounded
// worker pool, and runs fixed-length throughput windows across a fixed
// number of workers. An Analyzer turns the collected timings into a
// speedup and a parallelism factor.
//
// # Batches
//
//	h := bench.New(bench.WithCapability(bench.DetectCapability()))
//	seq, err := h.RunBatch(ctx, tasks, bench.Sequential, 1)
//	conc, err := h.RunBatch(ctx, tasks, bench.Concurrent, 4)
//	report, err := bench.NewAnalyzer().CompareBatches(seq, conc)
//
// Results come back indexed by submission position. A task that fails or
// panics is recorded in its TaskResult.Err and the rest of the batch still
// runs.
//
// # Throughput windows
//
//	stats, err := h.MonitorThroughput(ctx, factory, 4, time.Second)
//	report, err := bench.NewAnalyzer().FromStats(stats)
//
// The parallelism factor is the summed throughput of all workers divided
// by the throughput of the first worker. A factor near the worker count
// means the workers ran side by side; a factor near 1 means they took
// turns. Analyzer.FromBaseline divides by a separate one-worker window
// instead, which also exposes workers that slowed each other down.
//
// All durations come from time.Since on a time.Now reading, which uses
// the monotonic clock and is immune to wall-clock adjustments.
package bench
