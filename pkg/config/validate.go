package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate validates the entire configuration. All failing rules are
// collected into a single ValidationError.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateCredential(&cfg.Credential)...)
	errs = append(errs, validateUpstream(&cfg.Upstream)...)
	errs = append(errs, validateLimits(&cfg.Limits)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("invalid host:port %q", cfg.ListenAddress),
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.read_timeout", Message: "read timeout must be positive"})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.write_timeout", Message: "write timeout must be positive"})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.idle_timeout", Message: "idle timeout must be positive"})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"})
	}
	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_header_bytes", Message: "max header bytes must be non-negative"})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{Field: "server.max_body_bytes", Message: "max body bytes must be non-negative"})
	}
	if cfg.TrustedProxyHops < 0 {
		errs = append(errs, FieldError{Field: "server.trusted_proxy_hops", Message: "trusted proxy hops must be non-negative"})
	}

	if cfg.CORS.Enabled && cfg.CORS.MaxAge < 0 {
		errs = append(errs, FieldError{Field: "server.cors.max_age", Message: "max age must be non-negative"})
	}

	return errs
}

func validateCredential(cfg *CredentialConfig) []FieldError {
	var errs []FieldError

	switch cfg.Source {
	case SourceFile:
		if cfg.Path == "" {
			errs = append(errs, FieldError{Field: "credential.path", Message: "path is required for file source"})
		}
	case SourceEnv:
		if cfg.EnvVar == "" {
			errs = append(errs, FieldError{Field: "credential.env_var", Message: "env_var is required for env source"})
		}
		if cfg.Watch {
			errs = append(errs, FieldError{Field: "credential.watch", Message: "watch is only supported for file source"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "credential.source",
			Message: fmt.Sprintf("invalid source %q (must be: file, env)", cfg.Source),
		})
	}

	return errs
}

func validateUpstream(cfg *UpstreamConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseURL == "" {
		errs = append(errs, FieldError{Field: "upstream.base_url", Message: "base URL is required"})
	} else if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: fmt.Sprintf("invalid URL %q", cfg.BaseURL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{
			Field:   "upstream.base_url",
			Message: fmt.Sprintf("unsupported scheme %q (must be: http, https)", u.Scheme),
		})
	}

	if cfg.Model == "" {
		errs = append(errs, FieldError{Field: "upstream.model", Message: "model is required"})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{Field: "upstream.temperature", Message: "temperature must be between 0 and 2"})
	}
	if cfg.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "upstream.timeout", Message: "timeout must be positive"})
	}
	if !strings.Contains(cfg.PersonaTemplate, "{name}") {
		errs = append(errs, FieldError{Field: "upstream.persona_template", Message: "template must contain {name}"})
	}
	if cfg.MaxRecipientRunes < 0 {
		errs = append(errs, FieldError{Field: "upstream.max_recipient_runes", Message: "must be non-negative"})
	}
	if cfg.MaxMessageRunes < 0 {
		errs = append(errs, FieldError{Field: "upstream.max_message_runes", Message: "must be non-negative"})
	}

	return errs
}

func validateLimits(cfg *LimitsConfig) []FieldError {
	var errs []FieldError

	rl := &cfg.RateLimit
	if rl.Enabled {
		if rl.Window <= 0 {
			errs = append(errs, FieldError{Field: "limits.rate_limit.window", Message: "window must be positive"})
		}
		if rl.MaxRequests <= 0 {
			errs = append(errs, FieldError{Field: "limits.rate_limit.max_requests", Message: "max requests must be positive"})
		}
	}
	if rl.Scope != ScopeMessage && rl.Scope != ScopeAll {
		errs = append(errs, FieldError{
			Field:   "limits.rate_limit.scope",
			Message: fmt.Sprintf("invalid scope %q (must be: message, all)", rl.Scope),
		})
	}

	st := &cfg.Storage
	switch st.Backend {
	case BackendMemory:
		if st.Memory.MaxEntries < 0 {
			errs = append(errs, FieldError{Field: "limits.storage.memory.max_entries", Message: "must be non-negative"})
		}
		if st.Memory.Shards <= 0 {
			errs = append(errs, FieldError{Field: "limits.storage.memory.shards", Message: "must be positive"})
		}
	case BackendSQLite:
		if st.SQLite.Path == "" {
			errs = append(errs, FieldError{Field: "limits.storage.sqlite.path", Message: "path is required for sqlite backend"})
		}
		if st.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{Field: "limits.storage.sqlite.busy_timeout", Message: "must be non-negative"})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "limits.storage.backend",
			Message: fmt.Sprintf("invalid backend %q (must be: memory, sqlite)", st.Backend),
		})
	}

	if st.SweepSchedule != "" {
		if _, err := cron.ParseStandard(st.SweepSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "limits.storage.sweep_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be: debug, info, warn, error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{Field: "telemetry.metrics.path", Message: "path must start with /"})
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "sample ratio must be between 0.0 and 1.0"})
	}

	return errs
}
