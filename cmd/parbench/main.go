// Command parbench measures how much real parallel speedup the current
// machine delivers for compute-bound and wait-bound work.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/utkarsh5026/parbench/internal/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	stop()

	if err != nil {
		_, _ = report.Red.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
