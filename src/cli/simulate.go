package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"threadsched/src/dispatch"
	"threadsched/src/model"
)

func newSimulateCmd() *cobra.Command {
	var opts dispatch.SimulateOptions
	var output string

	cmd := &cobra.Command{
		Use:   "simulate <workload.yaml>",
		Short: "Run a workload locally and print the report",
		Long:  "Load a YAML workload, run it under the chosen policy until every job is done or the horizon is reached, then print the report.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "yaml" && output != "json" {
				return fmt.Errorf("output must be yaml or json, got %q", output)
			}

			workload, err := model.LoadWorkload(args[0])
			if err != nil {
				return err
			}
			logger.Debug("workload loaded", "path", args[0], "threads", len(workload.Threads))

			opts.Logger = logger
			report, err := dispatch.Simulate(cmd.Context(), workload, opts)
			if err != nil {
				return err
			}
			logger.Info("simulation done", "policy", report.Policy, "end", report.EndTime,
				"completed", report.Summary.Completed, "misses", report.Summary.DeadlineMisses)

			return writeReport(cmd.OutOrStdout(), report, output)
		},
	}

	cmd.Flags().StringVarP(&opts.Policy, "policy", "p", "", "Scheduling policy, overrides the workload's")
	cmd.Flags().StringVar(&opts.TraceCSV, "trace-csv", "", "Write the event trace to this CSV file")
	cmd.Flags().StringVar(&opts.SummaryCSV, "summary-csv", "", "Write the run summary to this CSV file")
	cmd.Flags().BoolVar(&opts.OmitTrace, "no-trace", false, "Leave the event trace out of the report")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "Report format (yaml, json)")

	return cmd
}

func writeReport(w io.Writer, report *dispatch.Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}
