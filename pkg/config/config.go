package config

import "time"

// Config is the root configuration structure for the Love Paws API.
// It contains the HTTP server, credential, upstream completion service,
// rate limiting and telemetry sections.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, body limits, proxy trust and CORS.
	Server ServerConfig `yaml:"server" envPrefix:"SERVER_"`

	// Credential describes where the upstream API key is loaded from.
	Credential CredentialConfig `yaml:"credential" envPrefix:"CREDENTIAL_"`

	// Upstream contains configuration for the external completion service.
	Upstream UpstreamConfig `yaml:"upstream" envPrefix:"UPSTREAM_"`

	// Limits contains per-client rate limiting configuration.
	Limits LimitsConfig `yaml:"limits" envPrefix:"LIMITS_"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "0.0.0.0:8080"
	ListenAddress string `yaml:"listen_address" env:"LISTEN_ADDRESS"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It must exceed the upstream timeout.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes" env:"MAX_HEADER_BYTES"`

	// MaxBodyBytes limits the JSON request body size.
	// Default: 65536 (64KB)
	MaxBodyBytes int64 `yaml:"max_body_bytes" env:"MAX_BODY_BYTES"`

	// TrustedProxyHops is the number of reverse proxies in front of the
	// server whose X-Forwarded-For entries are trusted for client attribution.
	// Zero means the socket peer address is used.
	// Default: 1
	TrustedProxyHops int `yaml:"trusted_proxy_hops" env:"TRUSTED_PROXY_HOPS"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors" envPrefix:"CORS_"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// AllowedOrigins is a list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods" env:"ALLOWED_METHODS"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers" env:"ALLOWED_HEADERS"`

	// ExposedHeaders is a list of response headers exposed to clients.
	// Default: ["X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"]
	ExposedHeaders []string `yaml:"exposed_headers" env:"EXPOSED_HEADERS"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age" env:"MAX_AGE"`
}

// CredentialConfig describes the upstream API key source.
type CredentialConfig struct {
	// Source selects the loader.
	// Options: "file", "env"
	// Default: "file"
	Source string `yaml:"source" env:"SOURCE"`

	// Path is the JSON credential file, relative to the installation root
	// unless absolute. The file holds {"api_key": "..."}.
	// Default: "conf/private/api_key/api_key.json"
	Path string `yaml:"path" env:"PATH"`

	// EnvVar is the environment variable read when Source is "env".
	// Default: "LOVEPAWS_API_KEY"
	EnvVar string `yaml:"env_var" env:"ENV_VAR"`

	// Watch logs a warning when the credential file changes on disk.
	// The loaded key is never replaced while the process runs.
	// Default: false
	Watch bool `yaml:"watch" env:"WATCH"`
}

// UpstreamConfig contains configuration for the completion service.
type UpstreamConfig struct {
	// BaseURL is the API root; "/chat/completions" is appended.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url" env:"BASE_URL"`

	// Model is the model identifier sent with every request.
	// Default: "gpt-3.5-turbo"
	Model string `yaml:"model" env:"MODEL"`

	// Temperature is the sampling temperature.
	// Default: 0.7
	Temperature float64 `yaml:"temperature" env:"TEMPERATURE"`

	// Timeout bounds a single completion call. Expiry is an upstream failure.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// PersonaTemplate is the system instruction; "{name}" is replaced by the
	// sanitized recipient.
	PersonaTemplate string `yaml:"persona_template" env:"PERSONA_TEMPLATE"`

	// MaxRecipientRunes bounds the sanitized persona name.
	// Default: 64
	MaxRecipientRunes int `yaml:"max_recipient_runes" env:"MAX_RECIPIENT_RUNES"`

	// MaxMessageRunes bounds the sanitized user message.
	// Default: 2000
	MaxMessageRunes int `yaml:"max_message_runes" env:"MAX_MESSAGE_RUNES"`

	// EmptyReplyIsError turns a successful upstream response without any
	// reply content into a 500 instead of a 200 with no msg.
	// Default: false
	EmptyReplyIsError bool `yaml:"empty_reply_is_error" env:"EMPTY_REPLY_IS_ERROR"`
}

// LimitsConfig contains rate limiting configuration.
type LimitsConfig struct {
	// RateLimit configures the per-client request quota.
	RateLimit RateLimitConfig `yaml:"rate_limit" envPrefix:"RATE_LIMIT_"`

	// Storage configures the counter store backend.
	Storage LimitsStorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
}

// RateLimitConfig configures the fixed-window request quota.
type RateLimitConfig struct {
	// Enabled controls whether the gate is active.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Window is the counting window, starting at a client's first request.
	// Default: 24h
	Window time.Duration `yaml:"window" env:"WINDOW"`

	// MaxRequests is the quota per client per window.
	// Default: 100
	MaxRequests int64 `yaml:"max_requests" env:"MAX_REQUESTS"`

	// Scope selects the gated routes.
	// Options: "all" (every route but metrics), "message" (only /inbox/send_message)
	// Default: "all"
	Scope string `yaml:"scope" env:"SCOPE"`

	// Message is the plain-text body of a 429 response.
	// Default: "Too many requests from this IP, please try again later."
	Message string `yaml:"message" env:"MESSAGE"`
}

// LimitsStorageConfig configures the rate limit counter store.
type LimitsStorageConfig struct {
	// Backend selects the store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend" env:"BACKEND"`

	// SweepSchedule is a cron expression for purging expired records.
	// Empty disables sweeping.
	// Default: "@every 1h"
	SweepSchedule string `yaml:"sweep_schedule" env:"SWEEP_SCHEDULE"`

	// Memory configures the in-memory backend.
	Memory LimitsMemoryConfig `yaml:"memory" envPrefix:"MEMORY_"`

	// SQLite configures the SQLite backend.
	SQLite LimitsSQLiteConfig `yaml:"sqlite" envPrefix:"SQLITE_"`
}

// LimitsMemoryConfig configures the in-memory counter store.
type LimitsMemoryConfig struct {
	// MaxEntries caps tracked client keys; the oldest window is evicted first.
	// Zero means unbounded.
	// Default: 100000
	MaxEntries int `yaml:"max_entries" env:"MAX_ENTRIES"`

	// Shards is the number of independently locked partitions.
	// Default: 32
	Shards int `yaml:"shards" env:"SHARDS"`
}

// LimitsSQLiteConfig configures the SQLite counter store.
type LimitsSQLiteConfig struct {
	// Path is the database file.
	// Default: "data/ratelimit.db"
	Path string `yaml:"path" env:"PATH"`

	// BusyTimeout is how long to wait for a lock.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOGGING_"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics" envPrefix:"METRICS_"`

	// Tracing contains OpenTelemetry tracing configuration.
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level" env:"LEVEL"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format" env:"FORMAT"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source" env:"ADD_SOURCE"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Path is the HTTP path for the Prometheus endpoint.
	// Default: "/metrics"
	Path string `yaml:"path" env:"PATH"`

	// Namespace is the metric name prefix.
	// Default: "lovepaws"
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// Endpoint is the OTLP gRPC collector address.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint" env:"ENDPOINT"`

	// Insecure disables TLS towards the collector.
	// Default: false
	Insecure bool `yaml:"insecure" env:"INSECURE"`

	// SampleRatio is the fraction of root traces sampled (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio" env:"SAMPLE_RATIO"`

	// ServiceName is the service.name resource attribute.
	// Default: "lovepaws-api"
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
}
