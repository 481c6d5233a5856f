package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"lovepaws/gateway/pkg/proxy"
	"lovepaws/gateway/pkg/proxy/types"
	"lovepaws/gateway/pkg/telemetry/logging"
)

// RecoveryMiddleware recovers from panics in HTTP handlers and returns a 500
// {"error":"Internal Server Error"} response. The panic value and stack are
// logged, never sent to the client.
//
// A nil logger means slog.Default().
func RecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newResponseWriter(w)
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logging.FromContext(r.Context(), logger).ErrorContext(r.Context(), "panic in handler",
					"error", err,
					"request_id", rw.Header().Get(proxy.RequestIDHeader),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				if rw.written {
					return
				}
				_ = proxy.WriteErrorResponse(rw, types.NewServerError())
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
