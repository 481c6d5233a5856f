package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress    = "0.0.0.0:8080"
	DefaultReadTimeout      = 15 * time.Second
	DefaultWriteTimeout     = 60 * time.Second
	DefaultIdleTimeout      = 120 * time.Second
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultMaxHeaderBytes   = 1 << 20 // 1MB
	DefaultMaxBodyBytes     = 64 << 10
	DefaultTrustedProxyHops = 1
	DefaultCORSMaxAge       = 3600

	// Credential defaults
	DefaultCredentialSource = "file"
	DefaultCredentialPath   = "conf/private/api_key/api_key.json"
	DefaultCredentialEnvVar = "LOVEPAWS_API_KEY"

	// Upstream defaults
	DefaultUpstreamBaseURL   = "https://api.openai.com/v1"
	DefaultUpstreamModel     = "gpt-3.5-turbo"
	DefaultTemperature       = 0.7
	DefaultUpstreamTimeout   = 30 * time.Second
	DefaultMaxRecipientRunes = 64
	DefaultMaxMessageRunes   = 2000

	// Rate limit defaults
	DefaultRateLimitWindow      = 24 * time.Hour
	DefaultRateLimitMaxRequests = 100
	DefaultRateLimitScope       = ScopeAll
	DefaultRateLimitMessage     = "Too many requests from this IP, please try again later."
	DefaultStorageBackend       = BackendMemory
	DefaultSweepSchedule        = "@every 1h"
	DefaultMemoryMaxEntries     = 100000
	DefaultMemoryShards         = 32
	DefaultSQLitePath           = "data/ratelimit.db"
	DefaultSQLiteBusyTimeout    = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPath = "/metrics"
	DefaultNamespace   = "lovepaws"
	DefaultSampleRatio = 1.0
	DefaultServiceName = "lovepaws-api"
)

// DefaultPersonaTemplate is the system instruction sent upstream. Every
// "{name}" is replaced with the sanitized recipient.
const DefaultPersonaTemplate = "You are a cute cat named {name} that always refers to cat things " +
	"and always asks questions back to maintain a conversation."

// Recognized enumeration values.
const (
	ScopeMessage = "message"
	ScopeAll     = "all"

	BackendMemory = "memory"
	BackendSQLite = "sqlite"

	SourceFile = "file"
	SourceEnv  = "env"
)

// Default returns a configuration populated with every default. It also
// covers fields whose zero value is meaningful (switches that default to
// true, zero proxy hops, zero temperature). Loading decodes on top of it so
// fields absent from the file keep these values.
func Default() *Config {
	cfg := &Config{
		Server: ServerConfig{
			TrustedProxyHops: DefaultTrustedProxyHops,
			CORS:             CORSConfig{Enabled: true},
		},
		Upstream: UpstreamConfig{
			Temperature: DefaultTemperature,
		},
		Limits: LimitsConfig{
			RateLimit: RateLimitConfig{Enabled: true},
			Storage: LimitsStorageConfig{
				SweepSchedule: DefaultSweepSchedule,
				Memory:        LimitsMemoryConfig{MaxEntries: DefaultMemoryMaxEntries},
			},
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: true},
			Tracing: TracingConfig{SampleRatio: DefaultSampleRatio},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills zero-valued fields with their defaults.
// Fields that were explicitly set are left unchanged. Fields where zero is a
// valid setting are only defaulted by Default.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyCredentialDefaults(&cfg.Credential)
	applyUpstreamDefaults(&cfg.Upstream)
	applyLimitsDefaults(&cfg.Limits)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}

	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if len(cfg.CORS.ExposedHeaders) == 0 {
		cfg.CORS.ExposedHeaders = []string{
			"X-Request-ID",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		}
	}
	if cfg.CORS.MaxAge == 0 {
		cfg.CORS.MaxAge = DefaultCORSMaxAge
	}
}

func applyCredentialDefaults(cfg *CredentialConfig) {
	if cfg.Source == "" {
		cfg.Source = DefaultCredentialSource
	}
	if cfg.Path == "" {
		cfg.Path = DefaultCredentialPath
	}
	if cfg.EnvVar == "" {
		cfg.EnvVar = DefaultCredentialEnvVar
	}
}

func applyUpstreamDefaults(cfg *UpstreamConfig) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultUpstreamBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultUpstreamModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultUpstreamTimeout
	}
	if cfg.PersonaTemplate == "" {
		cfg.PersonaTemplate = DefaultPersonaTemplate
	}
	if cfg.MaxRecipientRunes == 0 {
		cfg.MaxRecipientRunes = DefaultMaxRecipientRunes
	}
	if cfg.MaxMessageRunes == 0 {
		cfg.MaxMessageRunes = DefaultMaxMessageRunes
	}
}

func applyLimitsDefaults(cfg *LimitsConfig) {
	rl := &cfg.RateLimit
	if rl.Window == 0 {
		rl.Window = DefaultRateLimitWindow
	}
	if rl.MaxRequests == 0 {
		rl.MaxRequests = DefaultRateLimitMaxRequests
	}
	if rl.Scope == "" {
		rl.Scope = DefaultRateLimitScope
	}
	if rl.Message == "" {
		rl.Message = DefaultRateLimitMessage
	}

	st := &cfg.Storage
	if st.Backend == "" {
		st.Backend = DefaultStorageBackend
	}
	if st.Memory.Shards == 0 {
		st.Memory.Shards = DefaultMemoryShards
	}
	if st.SQLite.Path == "" {
		st.SQLite.Path = DefaultSQLitePath
	}
	if st.SQLite.BusyTimeout == 0 {
		st.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultServiceName
	}
}
