package proxy

import (
	"errors"

	"lovepaws/gateway/pkg/completion"
	"lovepaws/gateway/pkg/proxy/types"
)

// ErrEmptyReply is reported when the upstream succeeded without content and
// empty replies are configured to fail.
var ErrEmptyReply = errors.New("upstream returned no reply content")

// MalformedError wraps a completion.MalformedResponse so it can travel as an
// error to the handler boundary.
type MalformedError struct {
	Response completion.MalformedResponse
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	if e.Response.Cause != nil {
		return "malformed upstream response: " + e.Response.Cause.Error()
	}
	return "malformed upstream response"
}

// Unwrap returns the parse failure.
func (e *MalformedError) Unwrap() error {
	return e.Response.Cause
}

// HandleError converts an error to the response sent to the client.
// Request errors are 400. Everything else is an opaque 500.
func HandleError(err error) *types.ErrorResponse {
	if IsRequestError(err) {
		return types.NewBadRequestError()
	}
	return types.NewServerError()
}

// LogAttrs returns structured fields describing err for the error log.
// The upstream status and body excerpt are included when present.
func LogAttrs(err error) []any {
	attrs := []any{"error", err}

	var statusErr *completion.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs, "status", statusErr.StatusCode, "upstream_body", statusErr.Body)
	}

	var malformed *MalformedError
	if errors.As(err, &malformed) {
		attrs = append(attrs, "upstream_body", malformed.Response.Raw)
	}

	return attrs
}
