package main

import (
	"github.com/spf13/cobra"

	"github.com/utkarsh5026/parbench/internal/report"
)

func newProbeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show how many goroutines can run simultaneously here",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			if a.jsonOutput() {
				return report.NewJSONOutput(a.runID, "probe", a.capability).Write(a.out)
			}
			report.NewPrinter(a.out).Capability(a.capability)
			return nil
		},
	}
}
