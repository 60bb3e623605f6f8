// Package report renders harness results as colored terminal tables or JSON.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/parbench/bench"
)

// Printer writes human-readable sections to w.
type Printer struct {
	w io.Writer
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

func (p *Printer) colorPrintLn(c *color.Color, a ...any) {
	_, _ = c.Fprintln(p.w, a...)
}

func (p *Printer) colorPrintf(c *color.Color, format string, a ...any) {
	_, _ = c.Fprintf(p.w, format, a...)
}

// SectionHeader prints a bold banner followed by optional description lines.
func (p *Printer) SectionHeader(title string, descriptions ...string) {
	p.println()
	p.colorPrintLn(Bold, "═══════════════════════════════════════════════════════════")
	p.colorPrintLn(Bold, title)
	p.colorPrintLn(Bold, "═══════════════════════════════════════════════════════════")
	for _, desc := range descriptions {
		p.println(desc)
	}
	p.println()
}

// Capability prints the probed execution environment.
func (p *Printer) Capability(c bench.Capability) {
	p.SectionHeader("EXECUTION ENVIRONMENT")

	col := Green
	switch c.Parallelism {
	case bench.ParallelismUnavailable:
		col = Yellow
	case bench.ParallelismUnknown:
		col = Red
	}
	p.colorPrintf(col, "  %s\n", c)
}

// Batches prints the sequential and concurrent totals side by side.
func (p *Printer) Batches(seq, conc bench.BatchTiming) error {
	p.SectionHeader("BATCH COMPARISON",
		"Wall-clock time for the same tasks run one after another and on a worker pool")

	table := tablewriter.NewWriter(p.w)
	table.Header("Mode", "Workers", "Tasks", "Total", "Busy", "Failures")

	for _, b := range []bench.BatchTiming{seq, conc} {
		_ = table.Append(
			b.Mode.String(),
			strconv.Itoa(b.Workers),
			strconv.Itoa(len(b.Results)),
			FormatLatency(b.Total),
			FormatLatency(b.BusyTime()),
			strconv.Itoa(len(b.Failures())),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render batch table: %w", err)
	}
	return nil
}

// Tasks prints the per-task timings of one batch.
func (p *Printer) Tasks(b bench.BatchTiming) error {
	p.SectionHeader(fmt.Sprintf("TASKS (%s)", b.Mode))

	table := tablewriter.NewWriter(p.w)
	table.Header("Task", "Output", "Elapsed", "Status")

	for _, r := range b.Results {
		status := "ok"
		output := FormatNumber(r.Output)
		if r.Failed() {
			status = r.Err.Error()
			output = "-"
		}
		_ = table.Append(strconv.Itoa(r.TaskID), output, FormatLatency(r.Elapsed), status)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render task table: %w", err)
	}
	return nil
}

// Workers prints the throughput-monitor stats, one row per worker.
func (p *Printer) Workers(title string, stats []bench.WorkerStat) error {
	p.SectionHeader(title)

	table := tablewriter.NewWriter(p.w)
	table.Header("Worker", "Iterations", "Failures", "Elapsed", "Iter/sec")

	for _, s := range stats {
		_ = table.Append(
			strconv.Itoa(s.WorkerID),
			FormatNumber(s.Iterations),
			FormatNumber(s.Failures),
			s.Elapsed.Round(time.Millisecond).String(),
			fmt.Sprintf("%.1f", s.Throughput),
		)
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render worker table: %w", err)
	}
	return nil
}

// Report prints the derived metrics and the verdict.
func (p *Printer) Report(r bench.Report, threshold float64) {
	p.SectionHeader("ANALYSIS")

	if r.Speedup > 0 {
		p.println("  Speedup:            ", FormatFactor(r.Speedup))
	}
	if r.ParallelismFactor > 0 {
		p.println("  Parallelism factor: ", FormatFactor(r.ParallelismFactor))
		p.println("  Aggregate rate:     ", fmt.Sprintf("%.1f iter/s", r.AggregateThroughput))
		p.println("  Baseline rate:      ", fmt.Sprintf("%.1f iter/s", r.BaselineThroughput))
	}
	p.println("  Workers:            ", r.Workers)
	p.println("  Efficiency:         ", fmt.Sprintf("%.0f%%", r.Efficiency*100))
	if r.Ceiling > 0 {
		p.println("  Ceiling (compute):  ", FormatFactor(r.Ceiling))
	}
	p.println()

	if r.Verdict == bench.VerdictParallel {
		p.colorPrintf(Green, "✅ %s (above %.2fx)\n", r.Verdict, threshold)
	} else {
		p.colorPrintf(Yellow, "⚠️  %s (at or below %.2fx)\n", r.Verdict, threshold)
	}
}

// Failures lists failed tasks, if any.
func (p *Printer) Failures(batches ...bench.BatchTiming) {
	for _, b := range batches {
		failed := b.Failures()
		if len(failed) == 0 {
			continue
		}
		p.println()
		p.colorPrintf(Red, "⚠️  Failed tasks (%s):\n", b.Mode)
		for _, r := range failed {
			p.colorPrintf(Red, "  • task %d: %v\n", r.TaskID, r.Err)
		}
	}
}
