package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"lovepaws/gateway/pkg/telemetry/logging"
)

// LoggingMiddleware logs one line per request with method, path, status and
// latency. Server errors log at error level and client errors at warn level.
// Rate limit rejections are expected traffic and log at info level.
//
// A nil logger means slog.Default().
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			ctx := r.Context()
			level := slog.LevelInfo
			switch {
			case rw.statusCode >= 500:
				level = slog.LevelError
			case rw.statusCode == http.StatusTooManyRequests:
			case rw.statusCode >= 400:
				level = slog.LevelWarn
			}

			// The request ID is set by inner middleware, so read it from the
			// response header rather than this request's context.
			log := logging.FromContext(ctx, logger)
			if id := rw.Header().Get("X-Request-ID"); id != "" && logging.GetRequestID(ctx) == "" {
				log = log.With("request_id", id)
			}
			log.Log(ctx, level, "request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rw.statusCode,
				"latency_ms", time.Since(startTime).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}
