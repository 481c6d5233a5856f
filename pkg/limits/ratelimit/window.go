package ratelimit

import (
	"context"
	"fmt"
	"time"

	"lovepaws/gateway/pkg/limits/storage"
)

// WindowLimiter is a fixed-window Limiter backed by a storage.Store.
type WindowLimiter struct {
	store  storage.Store
	config Config
	now    func() time.Time
}

// NewWindowLimiter creates a limiter. Zero config fields fall back to
// 100 requests per 24 hours.
func NewWindowLimiter(store storage.Store, config Config) *WindowLimiter {
	if config.MaxRequests <= 0 {
		config.MaxRequests = 100
	}
	if config.Window <= 0 {
		config.Window = 24 * time.Hour
	}
	return &WindowLimiter{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (l *WindowLimiter) WithClock(now func() time.Time) *WindowLimiter {
	l.now = now
	return l
}

// Config returns the limiter configuration.
func (l *WindowLimiter) Config() Config {
	return l.config
}

// CheckAndConsume counts one request for clientKey.
func (l *WindowLimiter) CheckAndConsume(ctx context.Context, clientKey string) (Decision, error) {
	now := l.now()

	rec, allowed, err := l.store.Consume(ctx, clientKey, l.config.MaxRequests, l.config.Window, now)
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit store: %w", err)
	}

	reset := rec.ResetAt(l.config.Window)
	d := Decision{
		Allowed:   allowed,
		Limit:     l.config.MaxRequests,
		Remaining: max(l.config.MaxRequests-rec.Count, 0),
		Reset:     reset,
	}
	if !allowed {
		d.Reason = fmt.Sprintf("request limit exceeded (%d per %s)", l.config.MaxRequests, l.config.Window)
		d.RetryAfter = max(reset.Sub(now), time.Second)
	}
	return d, nil
}
