package proxy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"lovepaws/gateway/pkg/proxy/types"
)

const (
	// DefaultMaxBodyBytes caps a request body when no limit is configured.
	DefaultMaxBodyBytes = 64 << 10

	// RequestIDHeader is the HTTP header for request ID propagation.
	RequestIDHeader = "X-Request-ID"
)

// ParseMessageRequest decodes the body of a send_message request.
//
// The body is limited to maxBytes (DefaultMaxBodyBytes when maxBytes <= 0).
// A body that exceeds the limit or is not a JSON object yields a
// *RequestError.
func ParseMessageRequest(r *http.Request, maxBytes int64) (*types.MessageRequest, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	var req types.MessageRequest
	if r.Body == nil {
		return &req, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, &RequestError{Message: "failed to read request body", Err: err}
	}
	if int64(len(body)) > maxBytes {
		return nil, &RequestError{Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &RequestError{Message: "invalid JSON in request body", Err: err}
	}

	return &req, nil
}

// ExtractRequestID returns the caller supplied request ID, if any.
func ExtractRequestID(r *http.Request) string {
	return r.Header.Get(RequestIDHeader)
}

// RequestError represents a request parsing error.
type RequestError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError reports whether err is caused by a malformed request.
func IsRequestError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr)
}
