package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("storage: store closed")

// Store persists per-key request counters.
// Implementations must be safe for concurrent use.
type Store interface {
	// Consume counts one request for key against quota within window.
	// It returns the record after the operation and whether the request is
	// allowed. A rejected request does not change the record.
	Consume(ctx context.Context, key string, quota int64, window time.Duration, now time.Time) (Record, bool, error)

	// Get returns the record for key, or nil if none exists.
	Get(ctx context.Context, key string) (*Record, error)

	// Delete removes the record for key. No-op if it doesn't exist.
	Delete(ctx context.Context, key string) error

	// Sweep removes every record whose window has elapsed at now.
	// Returns the number of records deleted.
	Sweep(ctx context.Context, now time.Time, window time.Duration) (int, error)

	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)

	// Close releases resources. The store must not be used afterwards.
	Close() error
}

// Record is the counter state for a single client key.
type Record struct {
	// Key is the client key (usually an IP address).
	Key string

	// Count is the number of allowed requests in the current window.
	Count int64

	// WindowStart is when the current window opened.
	WindowStart time.Time
}

// ResetAt returns when the record's window closes.
func (r Record) ResetAt(window time.Duration) time.Time {
	return r.WindowStart.Add(window)
}

// Expired reports whether the window has elapsed at now.
func (r Record) Expired(now time.Time, window time.Duration) bool {
	return !r.ResetAt(window).After(now)
}

// apply runs the fixed-window transition on rec. A nil rec means no record.
// The returned record is the new state; the caller persists it only when
// allowed is true.
func apply(rec *Record, key string, quota int64, window time.Duration, now time.Time) (next Record, allowed bool) {
	if rec == nil || rec.Expired(now, window) {
		return Record{Key: key, Count: 1, WindowStart: now}, true
	}
	if rec.Count < quota {
		next = *rec
		next.Count++
		return next, true
	}
	return *rec, false
}

func validateConsume(key string, quota int64, window time.Duration) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if quota <= 0 {
		return fmt.Errorf("quota must be positive")
	}
	if window <= 0 {
		return fmt.Errorf("window must be positive")
	}
	return nil
}
