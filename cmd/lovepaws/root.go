package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lovepaws/gateway/pkg/cli"
	"lovepaws/gateway/pkg/config"
)

var (
	// Global flags
	cfgFile string
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "lovepaws",
	Short: "Love Paws API - chat with a cat persona",
	Long: `Love Paws API is a small HTTP gateway. It accepts a message addressed to a
named cat persona, sanitizes it and forwards it to an LLM completion service.
The reply is relayed to the caller, who never holds the provider credential.

Configuration is read from an optional YAML file and LOVEPAWS_* environment
variables, which take precedence over the file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "installation root for relative paths (default: working directory)")
}

// loadConfig loads the config file and environment overlay.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}
	return cfg, nil
}
