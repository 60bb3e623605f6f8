package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parbench/bench"
	"github.com/utkarsh5026/parbench/internal/config"
	"github.com/utkarsh5026/parbench/internal/report"
	"github.com/utkarsh5026/parbench/workload"
)

func newMonitorCmd(a *app) *cobra.Command {
	var (
		duration     time.Duration
		terms        int
		affinity     bool
		skipBaseline bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run independent workers for a fixed window and compare their combined throughput",
		Long: `monitor first measures one worker alone for the window to get a
baseline rate, then runs --workers workers for the same window. The
parallelism factor is their combined rate divided by the baseline.
With --skip-baseline the first worker of the concurrent run is used as
the baseline instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("duration") {
				a.cfg.Monitor.Duration = duration
			}
			if flags.Changed("terms") {
				a.cfg.Monitor.Terms = terms
			}
			if flags.Changed("affinity") {
				a.cfg.Monitor.Affinity = affinity
			}
			if flags.Changed("skip-baseline") {
				a.cfg.Monitor.SkipBaseline = skipBaseline
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			w, err := workload.NewSquareSum(a.cfg.Monitor.Terms)
			if err != nil {
				return err
			}
			factory := func() workload.Workload { return w }

			mc := a.cfg.Monitor
			if !a.jsonOutput() {
				printer := report.NewPrinter(a.out)
				printer.Capability(a.capability)
				printer.SectionHeader("THROUGHPUT MONITOR",
					fmt.Sprintf("  Workload: sum of %d squares", w.Terms),
					fmt.Sprintf("  Workers:  %d", a.cfg.Workers),
					fmt.Sprintf("  Window:   %s", mc.Duration))
			}

			h := a.harness(bench.WithAffinity(mc.Affinity))
			ctx := cmd.Context()

			var baseline *bench.WorkerStat
			if !mc.SkipBaseline {
				solo, err := h.MonitorThroughput(ctx, factory, 1, mc.Duration)
				if err != nil {
					return fmt.Errorf("baseline window: %w", err)
				}
				baseline = &solo[0]
			}

			stats, err := h.MonitorThroughput(ctx, factory, a.cfg.Workers, mc.Duration)
			if err != nil {
				return fmt.Errorf("monitor window: %w", err)
			}

			analyzer := a.analyzer()
			var rep bench.Report
			if baseline != nil {
				rep, err = analyzer.FromBaseline(*baseline, stats)
			} else {
				rep, err = analyzer.FromStats(stats)
			}
			if err != nil {
				return err
			}

			a.logger.Info("throughput monitor finished",
				"workers", len(stats),
				"factor", rep.ParallelismFactor,
				"aggregate", rep.AggregateThroughput)

			if a.jsonOutput() {
				out := report.NewJSONOutput(a.runID, "monitor", a.capability)
				out.SetWorkers(baseline, stats)
				out.SetReport(rep, analyzer.Threshold())
				return out.Write(a.out)
			}

			printer := report.NewPrinter(a.out)
			if baseline != nil {
				if err := printer.Workers("BASELINE (1 worker)", []bench.WorkerStat{*baseline}); err != nil {
					return err
				}
			}
			if err := printer.Workers(fmt.Sprintf("WORKERS (%d)", len(stats)), stats); err != nil {
				return err
			}
			printer.Report(rep, analyzer.Threshold())
			return nil
		},
	}

	def := config.Default()
	cmd.Flags().DurationVarP(&duration, "duration", "d", def.Monitor.Duration, "Measurement window per worker")
	cmd.Flags().IntVar(&terms, "terms", def.Monitor.Terms, "Number of squares summed per iteration")
	cmd.Flags().BoolVar(&affinity, "affinity", def.Monitor.Affinity, "Pin each worker to its own CPU core")
	cmd.Flags().BoolVar(&skipBaseline, "skip-baseline", def.Monitor.SkipBaseline, "Use the first worker as the baseline")
	return cmd
}
