// Package tracing wires OpenTelemetry tracing for the Love Paws API.
//
// When disabled, New returns a Tracer backed by a noop provider, so callers
// always hold a usable *Tracer. When enabled, spans are exported over OTLP
// gRPC with a parent-based ratio sampler, and W3C trace context is read from
// incoming requests.
//
// The Tracer does not install itself as the global otel provider; it is
// passed to the server and the completion client explicitly.
package tracing
