package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"lovepaws/gateway/pkg/proxy"
	"lovepaws/gateway/pkg/telemetry/logging"
)

// maxRequestIDLength bounds caller supplied request IDs.
const maxRequestIDLength = 128

// RequestIDMiddleware reuses the caller's X-Request-ID or generates a UUID.
// The ID is stored in the request context and echoed in the response header.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := proxy.ExtractRequestID(r)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(proxy.RequestIDHeader, requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validRequestID accepts short printable ASCII values only, so a caller
// cannot inject control characters into logs or headers.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
