package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/utkarsh5026/parbench/bench"
)

// JSONOutput is the machine-readable form of one benchmark run.
type JSONOutput struct {
	RunID      string         `json:"run_id,omitempty"`
	Benchmark  string         `json:"benchmark"`
	Capability JSONCapability `json:"capability"`
	Batches    []JSONBatch    `json:"batches,omitempty"`
	Baseline   *JSONWorker    `json:"baseline,omitempty"`
	Workers    []JSONWorker   `json:"workers,omitempty"`
	Report     *JSONReport    `json:"report,omitempty"`
}

type JSONCapability struct {
	Parallelism string `json:"parallelism"`
	Slots       int    `json:"slots"`
	NumCPU      int    `json:"num_cpu"`
	UsableCPUs  int    `json:"usable_cpus"`
	MaxProcs    int    `json:"gomaxprocs"`
}

type JSONBatch struct {
	Mode     string     `json:"mode"`
	Workers  int        `json:"workers"`
	TotalNS  int64      `json:"total_ns"`
	TotalStr string     `json:"total"`
	Tasks    []JSONTask `json:"tasks"`
}

type JSONTask struct {
	TaskID     int    `json:"task_id"`
	Output     int64  `json:"output"`
	ElapsedNS  int64  `json:"elapsed_ns"`
	ElapsedStr string `json:"elapsed"`
	Error      string `json:"error,omitempty"`
}

type JSONWorker struct {
	WorkerID   int     `json:"worker_id"`
	Iterations int64   `json:"iterations"`
	Failures   int64   `json:"failures"`
	ElapsedNS  int64   `json:"elapsed_ns"`
	Throughput float64 `json:"throughput"`
}

type JSONReport struct {
	Speedup             float64 `json:"speedup,omitempty"`
	ParallelismFactor   float64 `json:"parallelism_factor,omitempty"`
	Efficiency          float64 `json:"efficiency"`
	Workers             int     `json:"workers"`
	Ceiling             float64 `json:"ceiling,omitempty"`
	AggregateThroughput float64 `json:"aggregate_throughput,omitempty"`
	BaselineThroughput  float64 `json:"baseline_throughput,omitempty"`
	Threshold           float64 `json:"threshold"`
	Verdict             string  `json:"verdict"`
}

// NewJSONOutput starts a JSON document for the named benchmark.
func NewJSONOutput(runID, benchmark string, c bench.Capability) *JSONOutput {
	return &JSONOutput{
		RunID:     runID,
		Benchmark: benchmark,
		Capability: JSONCapability{
			Parallelism: c.Parallelism.String(),
			Slots:       c.Slots(),
			NumCPU:      c.NumCPU,
			UsableCPUs:  c.UsableCPUs,
			MaxProcs:    c.MaxProcs,
		},
	}
}

// AddBatch appends a batch with its per-task results.
func (o *JSONOutput) AddBatch(b bench.BatchTiming) {
	o.Batches = append(o.Batches, JSONBatch{
		Mode:     b.Mode.String(),
		Workers:  b.Workers,
		TotalNS:  b.Total.Nanoseconds(),
		TotalStr: FormatLatency(b.Total),
		Tasks:    lo.Map(b.Results, toJSONTask),
	})
}

// SetWorkers records the monitor stats and, optionally, a separate baseline.
func (o *JSONOutput) SetWorkers(baseline *bench.WorkerStat, stats []bench.WorkerStat) {
	if baseline != nil {
		jw := toJSONWorker(*baseline)
		o.Baseline = &jw
	}
	o.Workers = lo.Map(stats, func(s bench.WorkerStat, _ int) JSONWorker {
		return toJSONWorker(s)
	})
}

// SetReport records the analysis.
func (o *JSONOutput) SetReport(r bench.Report, threshold float64) {
	o.Report = &JSONReport{
		Speedup:             r.Speedup,
		ParallelismFactor:   r.ParallelismFactor,
		Efficiency:          r.Efficiency,
		Workers:             r.Workers,
		Ceiling:             r.Ceiling,
		AggregateThroughput: r.AggregateThroughput,
		BaselineThroughput:  r.BaselineThroughput,
		Threshold:           threshold,
		Verdict:             r.Verdict.String(),
	}
}

// Write serializes o as indented JSON followed by a newline.
func (o *JSONOutput) Write(w io.Writer) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

func toJSONWorker(s bench.WorkerStat) JSONWorker {
	return JSONWorker{
		WorkerID:   s.WorkerID,
		Iterations: s.Iterations,
		Failures:   s.Failures,
		ElapsedNS:  s.Elapsed.Nanoseconds(),
		Throughput: s.Throughput,
	}
}

func toJSONTask(r bench.TaskResult, _ int) JSONTask {
	jt := JSONTask{
		TaskID:     r.TaskID,
		Output:     r.Output,
		ElapsedNS:  r.Elapsed.Nanoseconds(),
		ElapsedStr: FormatLatency(r.Elapsed),
	}
	if r.Err != nil {
		jt.Error = r.Err.Error()
	}
	return jt
}
