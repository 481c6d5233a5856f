package handlers

import (
	"net/http"

	"lovepaws/gateway/pkg/proxy"
	"lovepaws/gateway/pkg/proxy/types"
)

// WelcomeMessage is the body of the root route.
const WelcomeMessage = "Welcome to the Love Paws API"

// WelcomeHandler answers the exact root path with a greeting and every other
// path with 404, so it can be mounted as the catch-all route.
type WelcomeHandler struct{}

// NewWelcomeHandler creates a welcome handler.
func NewWelcomeHandler() *WelcomeHandler {
	return &WelcomeHandler{}
}

// ServeHTTP implements http.Handler.
func (h *WelcomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundHandler().ServeHTTP(w, r)
		return
	}
	_ = proxy.WriteData(w, WelcomeMessage)
}

// PingHandler is a liveness probe. It accepts any method.
type PingHandler struct{}

// NewPingHandler creates a ping handler.
func NewPingHandler() *PingHandler {
	return &PingHandler{}
}

// ServeHTTP implements http.Handler.
func (h *PingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = proxy.WriteData(w, "pong")
}

// NotFoundHandler returns the JSON 404 handler.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = proxy.WriteErrorResponse(w, types.NewNotFoundError())
	})
}
