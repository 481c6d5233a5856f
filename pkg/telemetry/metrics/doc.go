// Package metrics exposes Prometheus metrics for the Love Paws API.
//
// A Collector owns a private prometheus.Registry, so tests can create as
// many collectors as they like without duplicate-registration panics.
// All recording methods are safe on a nil *Collector, which is what callers
// hold when metrics are disabled.
//
// Exposed series (with the default "lovepaws" namespace):
//
//	lovepaws_http_requests_total{route,status}
//	lovepaws_http_request_duration_seconds{route}
//	lovepaws_rate_limit_decisions_total{result}
//	lovepaws_rate_limit_swept_records_total
//	lovepaws_upstream_requests_total{outcome}
//	lovepaws_upstream_request_duration_seconds
package metrics
