package main

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/utkarsh5026/parbench/internal/report"
)

// setupProfiling sets up CPU and memory profiling, returns cleanup function
func setupProfiling(cpuProfile, memProfile string, log io.Writer) (func(), error) {
	cleanups := make([]func(), 0, 2)

	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			return nil, fmt.Errorf("creating CPU profile: %w", err)
		}

		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("starting CPU profile: %w", err)
		}

		_, _ = fmt.Fprintf(log, "CPU profiling enabled, writing to: %s\n", cpuProfile)

		cleanups = append(cleanups, func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		})
	}

	if memProfile != "" {
		cleanups = append(cleanups, func() {
			f, err := os.Create(memProfile)
			if err != nil {
				_, _ = report.Red.Fprintf(log, "Error creating memory profile: %v\n", err)
				return
			}
			defer func(f *os.File) {
				if err := f.Close(); err != nil {
					_, _ = report.Red.Fprintf(log, "Error closing memory profile file: %v\n", err)
				}
			}(f)

			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				_, _ = report.Red.Fprintf(log, "Error writing memory profile: %v\n", err)
			}
			_, _ = fmt.Fprintf(log, "Memory profile written to: %s\n", memProfile)
		})
	}

	return func() {
		for _, cleanup := range cleanups {
			cleanup()
		}
	}, nil
}
