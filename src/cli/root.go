package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"threadsched/src/logging"
)

var (
	flagLogLevel  string
	flagLogFormat string

	logger *slog.Logger
)

// NewRootCmd creates the root cobra command for the threadsched CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "threadsched",
		Short: "Discrete-time thread scheduling simulator",
		Long:  "threadsched replays thread workloads under pluggable scheduling policies, locally or on a remote simulation server.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewLoggerWithWriter(logging.ParseLevel(flagLogLevel), flagLogFormat, cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newSimulateCmd(),
		newPoliciesCmd(),
		newServeCmd(),
		newSubmitCmd(),
	)

	return root
}
