// Package logging builds the process logger on log/slog.
//
// New returns a *slog.Logger with a JSON or text handler at the configured
// level. Every string attribute passes through a Redactor that masks
// provider API keys (sk-...) and bearer tokens, so an upstream error body
// or header dump cannot leak the credential into logs.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	slog.SetDefault(logger)
//
// Request-scoped fields travel in the context:
//
//	ctx = logging.WithRequestID(ctx, id)
//	logging.FromContext(ctx, logger).Error("upstream failed", "error", err)
package logging
