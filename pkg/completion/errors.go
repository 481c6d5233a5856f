package completion

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoCredential is returned when no API key is held.
var ErrNoCredential = errors.New("no upstream credential loaded")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	// StatusCode is the HTTP status returned by the upstream.
	StatusCode int

	// Body is an excerpt of the response body, for logs only.
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Body)
}

// TimeoutError means the call exceeded its deadline.
type TimeoutError struct {
	Timeout time.Duration
	Cause   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("upstream request timeout after %s", e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return e.Cause
}

// TransportError is a network-level failure.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
