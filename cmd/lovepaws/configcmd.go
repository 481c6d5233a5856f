package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"lovepaws/gateway/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and environment overrides",
	Long: `Load the configuration the same way "run" does and report whether it is valid.

Examples:
  lovepaws config validate --config config.yaml
  LOVEPAWS_LIMITS_RATE_LIMIT_SCOPE=all lovepaws config validate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		cli.PrintCheck(cmd.OutOrStdout(), "Configuration valid")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults and LOVEPAWS_* overrides are applied.
The configuration holds no secrets; the API key lives in the credential file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return cli.NewCommandError("config show", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
