package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Rate limit decision results.
const (
	ResultAllowed  = "allowed"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Config configures the collector.
type Config struct {
	// Namespace prefixes every metric name.
	// Default: "lovepaws"
	Namespace string

	// DurationBuckets are histogram buckets in seconds. Chosen for LLM
	// latencies (100ms - 30s).
	DurationBuckets []float64

	// RuntimeCollectors registers Go runtime and process collectors.
	RuntimeCollectors bool
}

// Collector records application metrics.
type Collector struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	rateLimit      *prometheus.CounterVec
	sweptRecords   prometheus.Counter
	upstreamCalls  *prometheus.CounterVec
	upstreamTiming prometheus.Histogram
}

// NewCollector creates a collector with its own registry.
func NewCollector(cfg Config) *Collector {
	if cfg.Namespace == "" {
		cfg.Namespace = "lovepaws"
	}
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0}
	}

	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   cfg.DurationBuckets,
		}, []string{"route"}),
		rateLimit: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rate_limit_decisions_total",
			Help:      "Rate limit decisions by result (allowed, rejected, error)",
		}, []string{"result"}),
		sweptRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "rate_limit_swept_records_total",
			Help:      "Expired rate limit records removed by the sweeper",
		}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "upstream_requests_total",
			Help:      "Completion service calls by outcome",
		}, []string{"outcome"}),
		upstreamTiming: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Completion service call duration in seconds",
			Buckets:   cfg.DurationBuckets,
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.rateLimit,
		c.sweptRecords,
		c.upstreamCalls,
		c.upstreamTiming,
	)
	if cfg.RuntimeCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordHTTPRequest records a served request. route must be a fixed
// pattern, never the raw URL path, to bound cardinality.
func (c *Collector) RecordHTTPRequest(route string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordRateLimit records a rate limit decision result.
func (c *Collector) RecordRateLimit(result string) {
	if c == nil {
		return
	}
	c.rateLimit.WithLabelValues(result).Inc()
}

// RecordSweep records records removed by a sweep.
func (c *Collector) RecordSweep(deleted int) {
	if c == nil || deleted <= 0 {
		return
	}
	c.sweptRecords.Add(float64(deleted))
}

// RecordUpstream records a completion call.
func (c *Collector) RecordUpstream(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.upstreamCalls.WithLabelValues(outcome).Inc()
	c.upstreamTiming.Observe(duration.Seconds())
}
