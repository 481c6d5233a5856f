package middleware

import (
	"net/http"
	"time"

	"lovepaws/gateway/pkg/telemetry/metrics"
)

// MetricsMiddleware records request count and latency per route. route must
// map requests to a fixed set of names. A nil collector disables recording.
func MetricsMiddleware(collector *metrics.Collector, route func(r *http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)
			collector.RecordHTTPRequest(route(r), rw.statusCode, time.Since(start))
		})
	}
}
