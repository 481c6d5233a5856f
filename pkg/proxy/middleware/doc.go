// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
// The server assembles the chain outermost first:
//
//	handler = Recovery(Logging(RequestID(Tracing(Metrics(CORS(RateLimit(mux)))))))
//
// Recovery must stay outermost so a panic anywhere below still produces a
// JSON 500. RequestID sits inside Logging, so Logging and Recovery read the
// ID back from the X-Request-ID response header.
//
// # Middleware Types
//
// Request tracking:
//   - RequestIDMiddleware: reuse or generate X-Request-ID (google/uuid)
//   - LoggingMiddleware: one structured line per request
//   - MetricsMiddleware: request count and latency per route
//
// Security and resilience:
//   - CORSMiddleware: Cross-Origin Resource Sharing headers and preflight
//   - RateLimitMiddleware: per-client quota, 429 on rejection
//   - RecoveryMiddleware: recover from panics, return 500
//
// # Example
//
//	handler := middleware.RateLimitMiddleware(middleware.RateLimitConfig{
//	    Limiter:     limiter,
//	    TrustedHops: 1,
//	    Applies:     middleware.PathIs("/inbox/send_message"),
//	})(mux)
package middleware
