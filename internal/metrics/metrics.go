// Package metrics exports harness measurements in the Prometheus text
// format so runs can be collected by node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/utkarsh5026/parbench/bench"
)

// Recorder implements bench.Recorder on a private registry, so several
// recorders can live in one process without colliding.
type Recorder struct {
	registry *prometheus.Registry

	runInfo          *prometheus.GaugeVec
	tasksTotal       *prometheus.CounterVec
	taskDuration     *prometheus.HistogramVec
	batchDuration    *prometheus.GaugeVec
	workerIterations *prometheus.GaugeVec
	workerThroughput *prometheus.GaugeVec
}

var _ bench.Recorder = (*Recorder)(nil)

// NewRecorder registers the parbench metrics on a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		runInfo: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parbench_run_info",
			Help: "Always 1; labels identify the run and its execution environment",
		}, []string{"run_id", "parallelism", "slots"}),

		// tasksTotal counts finished tasks by mode and outcome
		tasksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "parbench_tasks_total",
			Help: "Finished tasks by execution mode and outcome",
		}, []string{"mode", "outcome"}),

		taskDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "parbench_task_duration_seconds",
			Help:    "Wall-clock duration of individual tasks",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10), // 0.1ms to ~26s
		}, []string{"mode"}),

		batchDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parbench_batch_duration_seconds",
			Help: "Wall-clock duration of the last batch per mode and worker count",
		}, []string{"mode", "workers"}),

		workerIterations: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parbench_worker_iterations",
			Help: "Successful iterations per throughput-monitor worker",
		}, []string{"worker"}),

		workerThroughput: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "parbench_worker_throughput",
			Help: "Iterations per second per throughput-monitor worker",
		}, []string{"worker"}),
	}
}

// SetRunInfo labels the exported metrics with the run id and capability.
func (r *Recorder) SetRunInfo(runID string, c bench.Capability) {
	r.runInfo.WithLabelValues(runID, c.Parallelism.String(), fmt.Sprint(c.Slots())).Set(1)
}

// ObserveTask records one finished task.
func (r *Recorder) ObserveTask(mode bench.Mode, res bench.TaskResult) {
	outcome := "ok"
	if res.Failed() {
		outcome = "failed"
	}
	r.tasksTotal.WithLabelValues(mode.String(), outcome).Inc()
	r.taskDuration.WithLabelValues(mode.String()).Observe(res.Elapsed.Seconds())
}

// ObserveBatch records the wall-clock total of a batch.
func (r *Recorder) ObserveBatch(b bench.BatchTiming) {
	r.batchDuration.WithLabelValues(b.Mode.String(), fmt.Sprint(b.Workers)).Set(b.Total.Seconds())
}

// ObserveWorker records the outcome of one throughput-monitor worker.
func (r *Recorder) ObserveWorker(s bench.WorkerStat) {
	id := fmt.Sprint(s.WorkerID)
	r.workerIterations.WithLabelValues(id).Set(float64(s.Iterations))
	r.workerThroughput.WithLabelValues(id).Set(s.Throughput)
}

// Registry returns the private registry every parbench metric lives on.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes every recorded metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
