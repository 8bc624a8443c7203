package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"threadsched/src/config"
	"threadsched/src/logging"
	"threadsched/src/server"
)

func newServeCmd() *cobra.Command {
	var configFile string
	cfg := config.DefaultServerConfig()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the simulation server",
		Long:  "Accept simulation requests over QUIC, and over HTTP when --http-addr is set, admitting them through the configured queue policy.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile != "" {
				fileCfg := config.DefaultServerConfig()
				if err := fileCfg.ReadFile(configFile); err != nil {
					return err
				}
				// Flags given on the command line win over the file.
				flags := cmd.Flags()
				if !flags.Changed("addr") {
					cfg.Addr = fileCfg.Addr
				}
				if !flags.Changed("http-addr") {
					cfg.HTTPAddr = fileCfg.HTTPAddr
				}
				if !flags.Changed("queue-policy") {
					cfg.QueuePolicy = fileCfg.QueuePolicy
				}
				if !flags.Changed("queue-size") {
					cfg.QueueSize = fileCfg.QueueSize
				}
				root := cmd.Root().PersistentFlags()
				if !root.Changed("log-level") && !root.Changed("log-format") {
					logger = logging.NewLoggerWithWriter(logging.ParseLevel(fileCfg.LogLevel), fileCfg.LogFormat, cmd.ErrOrStderr())
				}
			}

			srv, err := server.NewServer(cfg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Server config file")
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "QUIC listen address")
	cmd.Flags().StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP API listen address, empty disables it")
	cmd.Flags().StringVar(&cfg.QueuePolicy, "queue-policy", cfg.QueuePolicy, "Request admission policy (fifo, sp, wfq)")
	cmd.Flags().IntVar(&cfg.QueueSize, "queue-size", cfg.QueueSize, "Pending requests per priority class")

	return cmd
}
