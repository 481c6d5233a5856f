package ratelimit

import (
	"context"
	"time"
)

// Limiter gates requests per client key.
type Limiter interface {
	// CheckAndConsume counts one request for clientKey and reports whether
	// it is allowed. Errors come from the backing store.
	CheckAndConsume(ctx context.Context, clientKey string) (Decision, error)
}

// Config configures a WindowLimiter.
type Config struct {
	// MaxRequests is the quota per key per window.
	MaxRequests int64

	// Window is the fixed window length.
	Window time.Duration
}

// Decision contains the result of a rate limit check.
type Decision struct {
	// Allowed indicates if the request is permitted.
	Allowed bool

	// Reason explains why the request was rejected (if Allowed=false).
	Reason string

	// Limit is the configured quota.
	Limit int64

	// Remaining is how many requests remain in the window.
	Remaining int64

	// Reset is when the window closes.
	Reset time.Time

	// RetryAfter suggests how long to wait before retrying.
	// Zero when the request is allowed.
	RetryAfter time.Duration
}
