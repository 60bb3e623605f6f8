package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/utkarsh5026/parbench/bench"
	"github.com/utkarsh5026/parbench/internal/config"
	"github.com/utkarsh5026/parbench/internal/metrics"
)

// cliOptions holds raw flag values. A flag only overrides the config file
// when it was set explicitly.
type cliOptions struct {
	configPath  string
	workers     int
	threshold   float64
	format      string
	logLevel    string
	metricsFile string
	cpuProfile  string
	memProfile  string

	dispatchRate  float64
	dispatchBurst int
}

// app is the state shared by every subcommand once the root pre-run has
// loaded the configuration.
type app struct {
	runID      string
	cfg        config.Config
	logger     *slog.Logger
	capability bench.Capability
	recorder   *metrics.Recorder

	out    io.Writer
	errOut io.Writer

	stopProfiling func()
}

func newRootCmd() (*cobra.Command, *app) {
	opts := &cliOptions{}
	a := &app{}
	def := config.Default()

	root := &cobra.Command{
		Use:   "parbench",
		Short: "Measure the parallel speedup this machine actually delivers",
		Long: `parbench runs the same tasks sequentially and on a worker pool, or
runs independent workers for a fixed window, and reports how much of
the theoretical parallel speedup was achieved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "YAML config file")
	pf.IntVarP(&opts.workers, "workers", "w", def.Workers, "Number of concurrent workers")
	pf.Float64Var(&opts.threshold, "threshold", def.Threshold, "Metric above which parallel execution is reported")
	pf.StringVarP(&opts.format, "format", "f", def.Format, "Output format: table or json")
	pf.StringVar(&opts.logLevel, "log-level", def.LogLevel, "Log level: debug, info, warn or error")
	pf.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	pf.StringVar(&opts.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	pf.StringVar(&opts.memProfile, "memprofile", "", "Write memory profile to file")
	pf.Float64Var(&opts.dispatchRate, "dispatch-rate", 0, "Limit concurrent task dispatch to this many tasks per second (0 = unlimited)")
	pf.IntVar(&opts.dispatchBurst, "dispatch-burst", 1, "Burst size for --dispatch-rate")

	root.AddCommand(
		newCPUCmd(a),
		newIOCmd(a),
		newMonitorCmd(a),
		newProbeCmd(a),
	)
	return root, a
}

func (o *cliOptions) apply(flags *pflag.FlagSet, c *config.Config) {
	if flags.Changed("workers") {
		c.Workers = o.workers
	}
	if flags.Changed("threshold") {
		c.Threshold = o.threshold
	}
	if flags.Changed("format") {
		c.Format = o.format
	}
	if flags.Changed("log-level") {
		c.LogLevel = o.logLevel
	}
	if flags.Changed("metrics-file") {
		c.MetricsFile = o.metricsFile
	}
	if flags.Changed("dispatch-rate") {
		c.Dispatch.Rate = o.dispatchRate
	}
	if flags.Changed("dispatch-burst") {
		c.Dispatch.Burst = o.dispatchBurst
	}
}

func (a *app) setup(cmd *cobra.Command, opts *cliOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), &cfg)

	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	logger, err := newLogger(cfg.LogLevel, a.errOut)
	if err != nil {
		return err
	}

	a.runID = uuid.NewString()[:8]
	a.cfg = cfg
	a.logger = logger.With("run", a.runID)
	a.capability = bench.DetectCapability()
	a.recorder = metrics.NewRecorder()
	a.recorder.SetRunInfo(a.runID, a.capability)

	stop, err := setupProfiling(opts.cpuProfile, opts.memProfile, a.errOut)
	if err != nil {
		return err
	}
	a.stopProfiling = stop

	a.logger.Debug("configuration loaded",
		"config", opts.configPath,
		"workers", cfg.Workers,
		"format", cfg.Format,
		"capability", a.capability.String())
	return nil
}

// close stops profiling and flushes metrics. It is safe to call when
// setup never ran.
func (a *app) close() error {
	if a.stopProfiling != nil {
		a.stopProfiling()
	}
	if a.recorder == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.recorder.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return err
	}
	a.logger.Info("metrics written", "path", a.cfg.MetricsFile)
	return nil
}

func newLogger(level string, w io.Writer) (*slog.Logger, error) {
	var lv slog.LevelVar
	if err := lv.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &lv})), nil
}

func (a *app) harness(opts ...bench.Option) *bench.Harness {
	base := []bench.Option{
		bench.WithCapability(a.capability),
		bench.WithLogger(a.logger),
		bench.WithRecorder(a.recorder),
		bench.WithDispatchRate(a.cfg.Dispatch.Rate, a.cfg.Dispatch.Burst),
	}
	return bench.New(append(base, opts...)...)
}

func (a *app) analyzer() *bench.Analyzer {
	return bench.NewAnalyzer(
		bench.WithThreshold(a.cfg.Threshold),
		bench.ForCapability(a.capability),
	)
}

func (a *app) jsonOutput() bool {
	return a.cfg.Format == "json"
}

// interactive reports whether progress output would reach a terminal.
func (a *app) interactive() bool {
	f, ok := a.errOut.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func roundDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
