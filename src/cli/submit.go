package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"threadsched/src/client"
	"threadsched/src/model"
)

func newSubmitCmd() *cobra.Command {
	var (
		opts       client.Options
		priority   string
		policy     string
		repeat     int
		latencyCSV string
	)

	cmd := &cobra.Command{
		Use:   "submit <workload.yaml>...",
		Short: "Send workloads to a simulation server",
		Long:  "Submit each workload to a remote server over QUIC and print the reports it sends back.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prio, err := parsePriority(priority)
			if err != nil {
				return err
			}
			if repeat < 1 {
				return fmt.Errorf("repeat must be at least 1, got %d", repeat)
			}

			var requests []*model.SimulationRequest
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				for range repeat {
					requests = append(requests, &model.SimulationRequest{
						ID:       uuid.New(),
						Priority: prio,
						Policy:   policy,
						Timeout:  int(opts.Timeout.Milliseconds()),
						Workload: data,
					})
				}
			}

			var stats *client.StatisticsLogger
			if latencyCSV != "" {
				if stats, err = client.NewStatisticsLogger(latencyCSV); err != nil {
					return err
				}
			}

			c := client.NewClient(opts, logger)
			if err := c.Connect(cmd.Context()); err != nil {
				return fmt.Errorf("connect %s: %w", opts.Addr, err)
			}
			defer c.Close()

			start := time.Now()
			results := c.RequestAll(cmd.Context(), requests)
			logger.Info("requests done", "count", len(results), "elapsed", time.Since(start),
				"avg_delay", c.Stats().AvgDelay(), "throughput", c.Stats().AvgThroughput())

			out := cmd.OutOrStdout()
			var errs []error
			for _, r := range results {
				if stats != nil {
					errs = append(errs, stats.Log(r))
				}
				switch {
				case r.Err != nil:
					errs = append(errs, fmt.Errorf("request %s: %w", r.Request.ID, r.Err))
				case r.Response.Status != model.StatusOK:
					errs = append(errs, fmt.Errorf("request %s: %s", r.Request.ID, r.Response.Error))
				default:
					fmt.Fprintf(out, "# request %s (%v)\n---\n%s", r.Request.ID, r.Latency.Round(time.Microsecond), r.Response.Report)
				}
			}
			if stats != nil {
				errs = append(errs, stats.Close())
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "localhost:8000", "Server address")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Requests in flight at once")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "Per-request deadline, 0 waits forever")
	cmd.Flags().StringVar(&priority, "priority", "high", "Request priority (high, low)")
	cmd.Flags().StringVarP(&policy, "policy", "p", "", "Scheduling policy, overrides the workload's")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Send each workload this many times")
	cmd.Flags().StringVar(&latencyCSV, "latency-csv", "", "Write per-request latencies to this CSV file")

	return cmd
}

func parsePriority(s string) (model.Priority, error) {
	switch s {
	case "high":
		return model.HIGH_PRIORITY, nil
	case "low":
		return model.LOW_PRIORITY, nil
	default:
		return 0, fmt.Errorf("priority must be high or low, got %q", s)
	}
}
