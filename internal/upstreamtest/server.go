// Package upstreamtest provides a stub chat completion service for tests.
package upstreamtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// CompletionsPath is the path the completion client posts to.
const CompletionsPath = "/chat/completions"

// Server is a stub completion service. It serves one configured response
// per path and records every request it receives.
type Server struct {
	server    *httptest.Server
	responses map[string]Response
	requests  []Request
	mu        sync.Mutex
}

// Response defines a stub response.
type Response struct {
	StatusCode int
	// Body is written as-is when it is a string or []byte, and JSON encoded otherwise.
	Body    any
	Delay   time.Duration
	Headers map[string]string
}

// Request is a recorded incoming request.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// ChatRequest decodes a recorded request body.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

// ChatMessage is one turn of a ChatRequest.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewServer starts a stub server.
func NewServer() *Server {
	s := &Server{responses: make(map[string]Response)}
	s.server = httptest.NewServer(http.HandlerFunc(s.handler))
	return s
}

// URL returns the base URL; use it as the upstream base_url.
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.server.Close()
}

// SetResponse sets the response for path.
func (s *Server) SetResponse(path string, response Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[path] = response
}

// SetCompletion sets the response for the completions endpoint.
func (s *Server) SetCompletion(response Response) {
	s.SetResponse(CompletionsPath, response)
}

// RequestCount returns the number of requests received.
func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns a copy of the recorded requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastChatRequest decodes the most recent request body.
// ok is false when nothing was received or the body is not a chat request.
func (s *Server) LastChatRequest() (ChatRequest, http.Header, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return ChatRequest{}, nil, false
	}
	last := s.requests[len(s.requests)-1]
	var req ChatRequest
	if err := json.Unmarshal(last.Body, &req); err != nil {
		return ChatRequest{}, last.Header, false
	}
	return req, last.Header, true
}

func (s *Server) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Header: r.Header.Clone(),
		Body:   body,
	})
	response, ok := s.responses[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if response.Delay > 0 {
		select {
		case <-time.After(response.Delay):
		case <-r.Context().Done():
			return
		}
	}

	for key, value := range response.Headers {
		w.Header().Set(key, value)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch v := response.Body.(type) {
	case nil:
	case string:
		_, _ = w.Write([]byte(v))
	case []byte:
		_, _ = w.Write(v)
	default:
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Reply builds a chat completion body whose first choice says content.
func Reply(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{
			{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": content,
				},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// EmptyChoices builds a successful body with no choices.
func EmptyChoices() map[string]any {
	return map[string]any{
		"id":      "chatcmpl-123",
		"object":  "chat.completion",
		"choices": []any{},
	}
}

// Error builds an OpenAI-style error body.
func Error(message, kind string) map[string]any {
	return map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    kind,
		},
	}
}
