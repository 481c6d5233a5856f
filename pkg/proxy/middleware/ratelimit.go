package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"slices"
	"strconv"

	"lovepaws/gateway/pkg/limits/ratelimit"
	"lovepaws/gateway/pkg/proxy"
	"lovepaws/gateway/pkg/proxy/types"
	"lovepaws/gateway/pkg/telemetry/logging"
	"lovepaws/gateway/pkg/telemetry/metrics"
)

// DefaultRateLimitMessage is the 429 body when none is configured.
const DefaultRateLimitMessage = "Too many requests from this IP, please try again later."

// RateLimitConfig configures RateLimitMiddleware.
type RateLimitConfig struct {
	// Limiter decides each request. Required.
	Limiter ratelimit.Limiter

	// TrustedHops is the number of reverse proxies in front of the server.
	// See ratelimit.ClientKey.
	TrustedHops int

	// Message is the plain-text 429 body.
	Message string

	// Applies selects the requests that are counted. Nil means all.
	Applies func(r *http.Request) bool

	// Metrics records decisions. Optional.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// RateLimitMiddleware counts requests per client and rejects those over
// quota with 429 Too Many Requests.
//
// Every counted response carries X-RateLimit-Limit, X-RateLimit-Remaining
// and X-RateLimit-Reset (unix seconds). Rejections add Retry-After. When
// the limiter's store fails the request is refused with 500.
func RateLimitMiddleware(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.Message == "" {
		cfg.Message = DefaultRateLimitMessage
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Applies != nil && !cfg.Applies(r) {
				next.ServeHTTP(w, r)
				return
			}

			client := ratelimit.ClientKey(r, cfg.TrustedHops)
			ctx := logging.WithClient(r.Context(), client)
			log := logging.FromContext(ctx, cfg.Logger)

			decision, err := cfg.Limiter.CheckAndConsume(ctx, client)
			if err != nil {
				cfg.Metrics.RecordRateLimit(metrics.ResultError)
				log.ErrorContext(ctx, "rate limit check failed", "error", err)
				_ = proxy.WriteErrorResponse(w, types.NewServerError())
				return
			}

			setRateLimitHeaders(w, decision)

			if !decision.Allowed {
				cfg.Metrics.RecordRateLimit(metrics.ResultRejected)
				log.DebugContext(ctx, "rate limit exceeded", "reason", decision.Reason)
				w.Header().Set("Retry-After", strconv.FormatInt(retryAfterSeconds(decision), 10))
				w.Header().Set("Content-Type", "text/plain; charset=utf-8")
				w.Header().Set("X-Content-Type-Options", "nosniff")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(cfg.Message))
				return
			}

			cfg.Metrics.RecordRateLimit(metrics.ResultAllowed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PathIs applies the limiter to the listed paths only.
func PathIs(paths ...string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		return slices.Contains(paths, r.URL.Path)
	}
}

// PathIsNot applies the limiter to every path except the listed ones.
func PathIsNot(paths ...string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		return !slices.Contains(paths, r.URL.Path)
	}
}

func setRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
	if !d.Reset.IsZero() {
		h.Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))
	}
}

func retryAfterSeconds(d ratelimit.Decision) int64 {
	secs := int64(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
