package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parbench/bench"
	"github.com/utkarsh5026/parbench/internal/config"
	"github.com/utkarsh5026/parbench/internal/report"
	"github.com/utkarsh5026/parbench/workload"
)

func newCPUCmd(a *app) *cobra.Command {
	var tasks, n int

	cmd := &cobra.Command{
		Use:   "cpu",
		Short: "Compare sequential and concurrent runs of recursive Fibonacci tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("tasks") {
				a.cfg.CPU.Tasks = tasks
			}
			if cmd.Flags().Changed("fibonacci") {
				a.cfg.CPU.Fibonacci = n
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			fib, err := workload.NewFibonacci(a.cfg.CPU.Fibonacci)
			if err != nil {
				return err
			}
			workloads := make([]workload.Workload, a.cfg.CPU.Tasks)
			for i := range workloads {
				workloads[i] = fib
			}

			desc := fmt.Sprintf("fibonacci(%d) x %d", fib.N, len(workloads))
			return a.compareBatches(cmd.Context(), "cpu", desc, workloads)
		},
	}

	def := config.Default()
	cmd.Flags().IntVarP(&tasks, "tasks", "t", def.CPU.Tasks, "Number of tasks")
	cmd.Flags().IntVarP(&n, "fibonacci", "n", def.CPU.Fibonacci, "Fibonacci index computed by each task")
	return cmd
}

func newIOCmd(a *app) *cobra.Command {
	var (
		tasks int
		sleep time.Duration
	)

	cmd := &cobra.Command{
		Use:   "io",
		Short: "Compare sequential and concurrent runs of sleeping tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("tasks") {
				a.cfg.IO.Tasks = tasks
			}
			if cmd.Flags().Changed("sleep") {
				a.cfg.IO.Sleep = sleep
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			w, err := workload.NewSleep(a.cfg.IO.Sleep)
			if err != nil {
				return err
			}
			workloads := make([]workload.Workload, a.cfg.IO.Tasks)
			for i := range workloads {
				workloads[i] = w
			}

			desc := fmt.Sprintf("sleep(%s) x %d", w.Duration, len(workloads))
			return a.compareBatches(cmd.Context(), "io", desc, workloads)
		},
	}

	def := config.Default()
	cmd.Flags().IntVarP(&tasks, "tasks", "t", def.IO.Tasks, "Number of tasks")
	cmd.Flags().DurationVarP(&sleep, "sleep", "s", def.IO.Sleep, "Time each task waits")
	return cmd
}

// compareBatches runs workloads sequentially, then on the worker pool, and
// reports the speedup. Mismatched outputs are reported and returned as an
// error after the results are printed.
func (a *app) compareBatches(ctx context.Context, name, desc string, workloads []workload.Workload) error {
	if len(workloads) == 0 {
		return fmt.Errorf("%w: no tasks to run", bench.ErrConfiguration)
	}

	var bar *progressbar.ProgressBar
	if !a.jsonOutput() {
		printer := report.NewPrinter(a.out)
		printer.Capability(a.capability)
		printer.SectionHeader(strings.ToUpper(name)+" BENCHMARK",
			fmt.Sprintf("  Tasks:   %s", desc),
			fmt.Sprintf("  Workers: %d", a.cfg.Workers))
		if a.interactive() {
			bar = makeProgressBar(2*len(workloads), "Running tasks", a.errOut)
		}
	}

	h := a.harness(bench.WithTaskObserver(func(bench.Mode, bench.TaskResult) {
		if bar != nil {
			_ = bar.Add(1)
		}
	}))

	seq, err := h.RunBatch(ctx, workloads, bench.Sequential, 0)
	if err != nil {
		return fmt.Errorf("sequential batch: %w", err)
	}
	conc, err := h.RunBatch(ctx, workloads, bench.Concurrent, a.cfg.Workers)
	if err != nil {
		return fmt.Errorf("concurrent batch: %w", err)
	}
	if bar != nil {
		_ = bar.Finish()
	}

	verifyErr := bench.VerifyOutputs(seq, conc)
	if verifyErr != nil {
		a.logger.Warn("outputs differ between modes", "error", verifyErr)
	}

	analyzer := a.analyzer()
	rep, err := analyzer.CompareBatches(seq, conc)
	if err != nil {
		return errors.Join(err, verifyErr)
	}

	a.logger.Info("batch comparison finished",
		"benchmark", name,
		"sequential", roundDuration(seq.Total),
		"concurrent", roundDuration(conc.Total),
		"speedup", rep.Speedup)

	if a.jsonOutput() {
		out := report.NewJSONOutput(a.runID, name, a.capability)
		out.AddBatch(seq)
		out.AddBatch(conc)
		out.SetReport(rep, analyzer.Threshold())
		if err := out.Write(a.out); err != nil {
			return err
		}
		return verifyErr
	}

	printer := report.NewPrinter(a.out)
	if err := printer.Batches(seq, conc); err != nil {
		return err
	}
	if err := printer.Tasks(conc); err != nil {
		return err
	}
	printer.Report(rep, analyzer.Threshold())
	printer.Failures(seq, conc)
	return verifyErr
}
