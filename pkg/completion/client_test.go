package completion

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"lovepaws/gateway/internal/upstreamtest"
	"lovepaws/gateway/pkg/credential"
	"lovepaws/gateway/pkg/telemetry/metrics"
	"lovepaws/gateway/pkg/telemetry/tracing"
)

func newTestClient(t *testing.T, srv *upstreamtest.Server, cfg Config, opts ...Option) *HTTPClient {
	t.Helper()
	cfg.BaseURL = srv.URL()
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	return NewHTTPClient(cfg, credential.Static("sk-test-key-0123456789"), opts...)
}

func TestHTTPClient_Reply(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply("meow")})

	c := newTestClient(t, srv, Config{})
	res, err := c.Complete(context.Background(), "Tom", "hi")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	reply, ok := res.(Reply)
	if !ok || reply.Text != "meow" {
		t.Fatalf("expected Reply{meow}, got %#v", res)
	}

	req, hdr, ok := srv.LastChatRequest()
	if !ok {
		t.Fatal("no chat request recorded")
	}
	if got := hdr.Get("Authorization"); got != "Bearer sk-test-key-0123456789" {
		t.Errorf("unexpected Authorization %q", got)
	}
	if got := hdr.Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected Content-Type %q", got)
	}
	if req.Model != DefaultModel || req.Temperature != 0.7 {
		t.Errorf("unexpected model/temperature %q %v", req.Model, req.Temperature)
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}
	if req.Messages[0].Role != "system" || !strings.Contains(req.Messages[0].Content, "named Tom ") {
		t.Errorf("unexpected system turn %+v", req.Messages[0])
	}
	if req.Messages[1].Role != "user" || req.Messages[1].Content != "hi" {
		t.Errorf("unexpected user turn %+v", req.Messages[1])
	}
}

func TestHTTPClient_PersonaTemplate(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply("woof")})

	c := newTestClient(t, srv, Config{PersonaTemplate: "You are {name}. {name} is a dog."})
	if _, err := c.Complete(context.Background(), "Rex", "sit"); err != nil {
		t.Fatal(err)
	}
	req, _, _ := srv.LastChatRequest()
	if req.Messages[0].Content != "You are Rex. Rex is a dog." {
		t.Errorf("unexpected system turn %q", req.Messages[0].Content)
	}
}

func TestHTTPClient_EmptyChoices(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.EmptyChoices()})

	res, err := newTestClient(t, srv, Config{}).Complete(context.Background(), "Tom", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.(EmptyChoices); !ok {
		t.Fatalf("expected EmptyChoices, got %#v", res)
	}
}

func TestHTTPClient_Malformed(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: "not json at all"})

	res, err := newTestClient(t, srv, Config{}).Complete(context.Background(), "Tom", "hi")
	if err != nil {
		t.Fatal(err)
	}
	m, ok := res.(MalformedResponse)
	if !ok {
		t.Fatalf("expected MalformedResponse, got %#v", res)
	}
	if m.Raw != "not json at all" {
		t.Errorf("unexpected raw excerpt %q", m.Raw)
	}
}

func TestHTTPClient_ResponseTooLarge(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply(strings.Repeat("m", 2048))})

	res, err := newTestClient(t, srv, Config{MaxResponseBytes: 1024}).Complete(context.Background(), "Tom", "hi")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.(MalformedResponse); !ok {
		t.Fatalf("expected MalformedResponse for oversized body, got %#v", res)
	}
}

func TestHTTPClient_StatusError(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       upstreamtest.Error("server exploded", "server_error"),
	})

	_, err := newTestClient(t, srv, Config{}).Complete(context.Background(), "Tom", "hi")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != 500 || !strings.Contains(statusErr.Body, "server exploded") {
		t.Errorf("unexpected status error %+v", statusErr)
	}
	if srv.RequestCount() != 1 {
		t.Errorf("expected no retries, got %d requests", srv.RequestCount())
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply("late"), Delay: 2 * time.Second})

	start := time.Now()
	_, err := newTestClient(t, srv, Config{Timeout: 50 * time.Millisecond}).Complete(context.Background(), "Tom", "hi")
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("timeout not enforced, took %v", time.Since(start))
	}
}

func TestHTTPClient_CallerCancel(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply("late"), Delay: 2 * time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(t, srv, Config{}).Complete(ctx, "Tom", "hi")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}

func TestHTTPClient_TransportError(t *testing.T) {
	srv := upstreamtest.NewServer()
	url := srv.URL()
	srv.Close()

	c := NewHTTPClient(Config{BaseURL: url}, credential.Static("sk-x"))
	_, err := c.Complete(context.Background(), "Tom", "hi")
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestHTTPClient_NoCredential(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL()}, credential.NewHolder())
	if _, err := c.Complete(context.Background(), "Tom", "hi"); !errors.Is(err, ErrNoCredential) {
		t.Fatalf("expected ErrNoCredential, got %v", err)
	}
	if srv.RequestCount() != 0 {
		t.Error("no request should be sent without a credential")
	}
}

func TestHTTPClient_MetricsAndSpans(t *testing.T) {
	srv := upstreamtest.NewServer()
	defer srv.Close()
	srv.SetCompletion(upstreamtest.Response{Body: upstreamtest.Reply("purr")})

	collector := metrics.NewCollector(metrics.Config{})
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	c := newTestClient(t, srv, Config{}, WithMetrics(collector), WithTracer(tracing.NewWithProvider(tp)))
	if _, err := c.Complete(context.Background(), "Tom", "hi"); err != nil {
		t.Fatal(err)
	}

	expected := `
# HELP lovepaws_upstream_requests_total Completion service calls by outcome
# TYPE lovepaws_upstream_requests_total counter
lovepaws_upstream_requests_total{outcome="reply"} 1
`
	if err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "lovepaws_upstream_requests_total"); err != nil {
		t.Error(err)
	}

	spans := recorder.Ended()
	if len(spans) != 1 || spans[0].Name() != "completion.Complete" {
		t.Fatalf("unexpected spans %v", spans)
	}

	_, hdr, _ := srv.LastChatRequest()
	if hdr.Get("Traceparent") == "" {
		t.Error("expected trace context injected into upstream request")
	}
}

func TestHTTPClient_Endpoint(t *testing.T) {
	c := NewHTTPClient(Config{BaseURL: "https://api.example.com/v1/"}, credential.Static("k"))
	if got := c.Endpoint(); got != "https://api.example.com/v1/chat/completions" {
		t.Errorf("unexpected endpoint %q", got)
	}
}
