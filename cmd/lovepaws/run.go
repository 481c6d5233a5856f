package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lovepaws/gateway/pkg/cli"
	"lovepaws/gateway/pkg/config"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Love Paws API server",
	Long: `Start the Love Paws API server with the specified configuration.

The upstream API key is loaded once at startup. A missing or malformed
credential aborts startup before the listener is opened.

Examples:
  # Start with defaults (credential at conf/private/api_key/api_key.json)
  lovepaws run

  # Start with custom config
  lovepaws run --config /etc/lovepaws/config.yaml

  # Override listen address
  lovepaws run --listen 127.0.0.1:9000

  # Validate config and credential without starting the server
  lovepaws run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config and credential without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return cli.WrapConfigError(err)
	}

	logger, err := newLogger(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return cli.WrapConfigError(err)
	}
	slog.SetDefault(logger)

	out := cmd.OutOrStdout()
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}

	if runFlags.dryRun {
		if _, _, err := loadCredential(parent, cfg.Credential, rootDir, logger); err != nil {
			return cli.NewCommandError("run", err)
		}
		cli.PrintCheck(out, "Configuration valid")
		return nil
	}

	ctx, stop := cli.SetupSignalHandler(parent)
	defer stop()

	a, err := buildApp(ctx, cfg, rootDir, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := a.close(closeCtx); err != nil {
			logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	if err := a.start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	printBanner(out, cfg)

	if err := a.server.Start(ctx); err != nil {
		return cli.NewCommandError("run", fmt.Errorf("server error: %w", err))
	}
	logger.Info("server stopped")
	return nil
}

func printBanner(w io.Writer, cfg *config.Config) {
	addr := cfg.Server.ListenAddress
	cli.PrintCheck(w, "Credential loaded (source: %s)", cfg.Credential.Source)
	if rl := cfg.Limits.RateLimit; rl.Enabled {
		cli.PrintCheck(w, "Rate limit: %d requests per %s (scope: %s, backend: %s)",
			rl.MaxRequests, rl.Window, rl.Scope, cfg.Limits.Storage.Backend)
	}
	cli.PrintCheck(w, "Upstream: %s (model %s)", cfg.Upstream.BaseURL, cfg.Upstream.Model)
	cli.PrintCheck(w, "Listening on %s", addr)
	cli.PrintCheck(w, "Message endpoint: http://%s/inbox/send_message", addr)
	if cfg.Telemetry.Metrics.Enabled {
		cli.PrintCheck(w, "Metrics endpoint: http://%s%s", addr, cfg.Telemetry.Metrics.Path)
	}
}
