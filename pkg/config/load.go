package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "LOVEPAWS_"

// LoadConfig loads configuration from the YAML file at path, overlays
// LOVEPAWS_* environment variables and validates the result.
// An empty path loads defaults and environment overrides only.
//
// The loading sequence is:
// 1. Start from Default()
// 2. Decode YAML from file on top of it
// 3. Apply LOVEPAWS_* environment variable overrides
// 4. Fill any remaining zero values with defaults
// 5. Validate final configuration
func LoadConfig(path string) (*Config, error) {
	return loadConfig(path, os.Environ())
}

func loadConfig(path string, environ []string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg, environ); err != nil {
		return nil, err
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides decodes environment variables into cfg. Unset variables
// leave the current value in place.
func applyEnvOverrides(cfg *Config, environ []string) error {
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: env.ToMap(environ),
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}
	return nil
}
