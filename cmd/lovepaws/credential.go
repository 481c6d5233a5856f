package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"lovepaws/gateway/pkg/cli"
	"lovepaws/gateway/pkg/config"
	"lovepaws/gateway/pkg/credential"
)

var credentialFlags struct {
	output string
}

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Inspect the upstream API credential",
}

var credentialCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the configured credential and print a masked summary",
	Long: `Load the upstream API key the same way "run" does and report where it came
from. The key itself is never printed; only a masked form is shown.

Examples:
  lovepaws credential check
  lovepaws credential check --root /opt/lovepaws -o json`,
	RunE: runCredentialCheck,
}

func init() {
	credentialCheckCmd.Flags().StringVarP(&credentialFlags.output, "output", "o", "text", "output format (text, json)")
	credentialCmd.AddCommand(credentialCheckCmd)
	rootCmd.AddCommand(credentialCmd)
}

// credentialReport is the result of a credential check.
type credentialReport struct {
	Source   string `json:"source"`
	Location string `json:"location"`
	Key      string `json:"key"`
}

func (r credentialReport) String() string {
	return fmt.Sprintf("✓ Credential loaded\n  Source:   %s\n  Location: %s\n  Key:      %s",
		r.Source, r.Location, r.Key)
}

func runCredentialCheck(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(credentialFlags.output)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Telemetry.Logging, cmd.ErrOrStderr())
	if err != nil {
		return cli.WrapConfigError(err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := checkCredential(ctx, cfg.Credential, rootDir, logger)
	if err != nil {
		return cli.NewCommandError("credential check", err)
	}
	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), report)
}

func checkCredential(ctx context.Context, cfg config.CredentialConfig, root string, logger *slog.Logger) (credentialReport, error) {
	holder, src, err := loadCredential(ctx, cfg, root, logger)
	if err != nil {
		return credentialReport{}, err
	}

	report := credentialReport{Source: src.Name(), Key: holder.Get().Masked()}
	switch s := src.(type) {
	case *credential.FileSource:
		report.Location, err = s.Resolve()
		if err != nil {
			return credentialReport{}, err
		}
	case *credential.EnvSource:
		report.Location = "$" + s.Var
	}
	return report, nil
}
