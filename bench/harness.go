package bench

import (
	"log/slog"
)

// Option is a functional option for configuring a Harness.
type Option func(*Harness)

// Recorder receives every measurement the harness produces. Implementations
// must be safe for concurrent use: ObserveTask is called from pool workers.
type Recorder interface {
	ObserveTask(mode Mode, r TaskResult)
	ObserveBatch(b BatchTiming)
	ObserveWorker(s WorkerStat)
}

type nopRecorder struct{}

func (nopRecorder) ObserveTask(Mode, TaskResult) {}
func (nopRecorder) ObserveBatch(BatchTiming)     {}
func (nopRecorder) ObserveWorker(WorkerStat)     {}

// Harness runs batches and throughput windows. A Harness holds no
// per-run state and may be reused.
type Harness struct {
	capability    Capability
	logger        *slog.Logger
	recorder      Recorder
	observer      func(Mode, TaskResult)
	pinWorkers    bool
	dispatchRate  float64
	dispatchBurst int
}

// New creates a Harness. Without options it logs nothing, records
// nothing, and treats parallelism as unknown.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger:   slog.New(slog.DiscardHandler),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// WithCapability injects the probed execution environment.
func WithCapability(c Capability) Option {
	return func(h *Harness) {
		h.capability = c
	}
}

// WithLogger sets the structured logger used for run diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(h *Harness) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithRecorder forwards every task, batch and worker measurement to r.
func WithRecorder(r Recorder) Option {
	return func(h *Harness) {
		if r != nil {
			h.recorder = r
		}
	}
}

// WithTaskObserver registers fn to be called once per finished task.
// In concurrent mode fn runs on pool workers and must be safe for
// concurrent use.
func WithTaskObserver(fn func(Mode, TaskResult)) Option {
	return func(h *Harness) {
		h.observer = fn
	}
}

// WithAffinity pins each throughput-monitor worker to its own CPU core
// where the platform allows it.
func WithAffinity(enabled bool) Option {
	return func(h *Harness) {
		h.pinWorkers = enabled
	}
}

// WithDispatchRate throttles concurrent batches to tasksPerSecond with the
// given burst. Non-positive values disable throttling.
func WithDispatchRate(tasksPerSecond float64, burst int) Option {
	return func(h *Harness) {
		h.dispatchRate = tasksPerSecond
		h.dispatchBurst = burst
	}
}

// Capability returns the environment description the harness was built with.
func (h *Harness) Capability() Capability {
	return h.capability
}

func (h *Harness) observe(mode Mode, r TaskResult) {
	h.recorder.ObserveTask(mode, r)
	if h.observer != nil {
		h.observer(mode, r)
	}
}
