package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"lovepaws/gateway/pkg/credential"
	"lovepaws/gateway/pkg/telemetry/logging"
	"lovepaws/gateway/pkg/telemetry/metrics"
	"lovepaws/gateway/pkg/telemetry/tracing"
)

// Defaults for Config.
const (
	DefaultBaseURL          = "https://api.openai.com/v1"
	DefaultModel            = "gpt-3.5-turbo"
	DefaultTimeout          = 30 * time.Second
	DefaultMaxResponseBytes = 4 << 20
	DefaultPersonaTemplate  = "You are a cute cat named {name} that always refers to cat things " +
		"and always asks questions back to maintain a conversation."
)

const personaPlaceholder = "{name}"

// Config configures the HTTP client.
type Config struct {
	BaseURL         string
	Model           string
	Temperature     float64
	Timeout         time.Duration
	PersonaTemplate string

	// MaxResponseBytes caps how much of a response body is read.
	MaxResponseBytes int64
}

// Credentials supplies the bearer token for each call.
type Credentials interface {
	Get() credential.Credential
}

// HTTPClient implements Client over the OpenAI chat completions API.
type HTTPClient struct {
	config  Config
	creds   Credentials
	client  *http.Client
	tracer  *tracing.Tracer
	metrics *metrics.Collector
	logger  *slog.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.client = c }
}

// WithTracer records a span per call.
func WithTracer(t *tracing.Tracer) Option {
	return func(h *HTTPClient) { h.tracer = t }
}

// WithMetrics records call outcomes and durations.
func WithMetrics(m *metrics.Collector) Option {
	return func(h *HTTPClient) { h.metrics = m }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *HTTPClient) { h.logger = l }
}

// NewHTTPClient creates a client. Zero config fields take their defaults;
// Temperature is used as given.
func NewHTTPClient(cfg Config, creds Credentials, opts ...Option) *HTTPClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PersonaTemplate == "" {
		cfg.PersonaTemplate = DefaultPersonaTemplate
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}

	h := &HTTPClient{
		config: cfg,
		creds:  creds,
		client: &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
		tracer: tracing.Noop(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Endpoint returns the chat completions URL.
func (h *HTTPClient) Endpoint() string {
	return strings.TrimRight(h.config.BaseURL, "/") + "/chat/completions"
}

// BuildRequest returns the upstream payload for persona and message.
func (h *HTTPClient) BuildRequest(persona, message string) ChatRequest {
	return ChatRequest{
		Model: h.config.Model,
		Messages: []Message{
			{Role: "system", Content: strings.ReplaceAll(h.config.PersonaTemplate, personaPlaceholder, persona)},
			{Role: "user", Content: message},
		},
		Temperature: h.config.Temperature,
	}
}

// Complete sends one chat completion request.
func (h *HTTPClient) Complete(ctx context.Context, persona, message string) (res Result, err error) {
	start := time.Now()

	ctx, span := h.tracer.Start(ctx, "completion.Complete",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("llm.model", h.config.Model)),
	)
	defer func() {
		outcome := Outcome(res, err)
		tracing.SetOutcome(span, outcome)
		tracing.SetError(span, err)
		span.End()
		h.metrics.RecordUpstream(outcome, time.Since(start))

		logging.FromContext(ctx, h.logger).Debug("upstream call finished",
			"outcome", outcome,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	cred := h.creds.Get()
	if cred.IsZero() {
		return nil, ErrNoCredential
	}

	body, err := json.Marshal(h.BuildRequest(persona, message))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.Reveal())
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	h.tracer.Inject(ctx, req.Header)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, h.classifyError(ctx, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.config.MaxResponseBytes+1))
	if err != nil {
		return nil, h.classifyError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: excerpt(data)}
	}

	if int64(len(data)) > h.config.MaxResponseBytes {
		return MalformedResponse{
			Raw:   excerpt(data),
			Cause: fmt.Errorf("response exceeds %d bytes", h.config.MaxResponseBytes),
		}, nil
	}

	return ParseResponse(data), nil
}

// classifyError maps a client or body-read error. Only the call's own
// deadline is a timeout; a cancelled caller is a transport failure.
func (h *HTTPClient) classifyError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Timeout: h.config.Timeout, Cause: err}
	}
	return &TransportError{Err: err}
}
