package tracing

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Propagator returns the W3C Trace Context and Baggage propagator.
func Propagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// RouteFunc maps a request to a low-cardinality span name.
type RouteFunc func(r *http.Request) string

// Middleware extracts incoming trace context and wraps each request in a
// server span named by route.
func (t *Tracer) Middleware(route RouteFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !t.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			ctx := t.propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			name := r.URL.Path
			if route != nil {
				name = route(r)
			}

			ctx, span := t.Start(ctx, r.Method+" "+name,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("http.route", name),
				),
			)
			defer span.End()

			if sc := span.SpanContext(); sc.IsValid() {
				w.Header().Set("X-Trace-ID", sc.TraceID().String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Inject writes the trace context in ctx into outbound request headers.
func (t *Tracer) Inject(ctx context.Context, h http.Header) {
	if !t.Enabled() {
		return
	}
	t.propagator.Inject(ctx, propagation.HeaderCarrier(h))
}
