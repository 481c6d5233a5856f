package types

import "net/http"

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	// Error is the standard HTTP status text, e.g. "Bad Request".
	Error string `json:"error"`

	status int
}

// NewErrorResponse builds the error body for an HTTP status code.
func NewErrorResponse(status int) *ErrorResponse {
	text := http.StatusText(status)
	if text == "" {
		status = http.StatusInternalServerError
		text = http.StatusText(status)
	}
	return &ErrorResponse{Error: text, status: status}
}

// NewBadRequestError returns a 400 body.
func NewBadRequestError() *ErrorResponse {
	return NewErrorResponse(http.StatusBadRequest)
}

// NewNotFoundError returns a 404 body.
func NewNotFoundError() *ErrorResponse {
	return NewErrorResponse(http.StatusNotFound)
}

// NewMethodNotAllowedError returns a 405 body.
func NewMethodNotAllowedError() *ErrorResponse {
	return NewErrorResponse(http.StatusMethodNotAllowed)
}

// NewServerError returns a 500 body.
func NewServerError() *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError)
}

// HTTPStatusCode returns the status code the response is sent with.
func (e *ErrorResponse) HTTPStatusCode() int {
	if e.status == 0 {
		return http.StatusInternalServerError
	}
	return e.status
}
