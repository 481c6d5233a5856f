package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordHTTPRequest(t *testing.T) {
	c := NewCollector(Config{Namespace: "test"})

	c.RecordHTTPRequest("/ping", 200, 5*time.Millisecond)
	c.RecordHTTPRequest("/ping", 200, 7*time.Millisecond)
	c.RecordHTTPRequest("/inbox/send_message", 429, time.Millisecond)

	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("/ping", "200")); got != 2 {
		t.Errorf("expected 2 ping requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.httpRequests.WithLabelValues("/inbox/send_message", "429")); got != 1 {
		t.Errorf("expected 1 rejected message request, got %v", got)
	}
	if n := testutil.CollectAndCount(c.httpDuration); n != 2 {
		t.Errorf("expected 2 duration series, got %d", n)
	}
}

func TestCollector_RateLimitAndSweep(t *testing.T) {
	c := NewCollector(Config{})

	c.RecordRateLimit(ResultAllowed)
	c.RecordRateLimit(ResultAllowed)
	c.RecordRateLimit(ResultRejected)
	c.RecordSweep(3)
	c.RecordSweep(0)

	if got := testutil.ToFloat64(c.rateLimit.WithLabelValues(ResultAllowed)); got != 2 {
		t.Errorf("expected 2 allowed, got %v", got)
	}
	if got := testutil.ToFloat64(c.rateLimit.WithLabelValues(ResultRejected)); got != 1 {
		t.Errorf("expected 1 rejected, got %v", got)
	}
	if got := testutil.ToFloat64(c.sweptRecords); got != 3 {
		t.Errorf("expected 3 swept, got %v", got)
	}
}

func TestCollector_RecordUpstream(t *testing.T) {
	c := NewCollector(Config{})

	c.RecordUpstream("reply", 800*time.Millisecond)
	c.RecordUpstream("status_error", 100*time.Millisecond)

	if got := testutil.ToFloat64(c.upstreamCalls.WithLabelValues("reply")); got != 1 {
		t.Errorf("expected 1 reply, got %v", got)
	}
	if n := testutil.CollectAndCount(c.upstreamTiming); n != 1 {
		t.Errorf("expected 1 histogram, got %d", n)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector
	c.RecordHTTPRequest("/", 200, time.Millisecond)
	c.RecordRateLimit(ResultAllowed)
	c.RecordSweep(1)
	c.RecordUpstream("reply", time.Second)
	if c.Registry() != nil {
		t.Error("nil collector should have nil registry")
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(Config{RuntimeCollectors: true})
	c.RecordRateLimit(ResultRejected)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `lovepaws_rate_limit_decisions_total{result="rejected"} 1`) {
		t.Errorf("missing rate limit series in:\n%s", body)
	}
	if !strings.Contains(string(body), "go_goroutines") {
		t.Error("expected runtime collectors")
	}
}
