// Package telemetry groups the observability packages of the Love Paws API.
//
// # Components
//
//   - logging: slog construction, secret redaction and request-scoped attributes
//   - metrics: Prometheus collectors on a private registry and the /metrics handler
//   - tracing: OpenTelemetry spans for inbound requests and upstream calls
//
// Each component is built from its own section of config.TelemetryConfig and
// injected where it is needed. There is no package-level state; a nil
// *metrics.Collector and a noop *tracing.Tracer are both valid and record
// nothing.
package telemetry
