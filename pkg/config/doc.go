// Package config loads and validates configuration for the Love Paws API.
//
// Configuration is read from an optional YAML file and then overlaid with
// environment variables. There is no package-level state: callers load a
// *Config once at startup and pass it down.
//
//	cfg, err := config.LoadConfig("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOVEPAWS_SECTION_FIELD:
//
//   - LOVEPAWS_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - LOVEPAWS_LIMITS_RATE_LIMIT_MAX_REQUESTS overrides limits.rate_limit.max_requests
//   - LOVEPAWS_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// List values are comma separated.
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// The upstream API key is never part of this configuration. Only its
// location is; see package credential.
package config
