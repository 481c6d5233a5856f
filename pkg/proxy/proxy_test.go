package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lovepaws/gateway/pkg/completion"
)

func TestParseMessageRequest(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		maxBytes  int64
		wantErr   bool
		recipient string
		msg       string
	}{
		{name: "valid", body: `{"data":{"recipient":"Tom","msg":"hi"}}`, recipient: "Tom", msg: "hi"},
		{name: "empty body", body: ""},
		{name: "whitespace body", body: "  \n"},
		{name: "empty object", body: "{}"},
		{name: "invalid json", body: `{"data":`, wantErr: true},
		{name: "array body", body: `[]`, wantErr: true},
		{name: "too large", body: `{"data":{"msg":"` + strings.Repeat("a", 100) + `"}}`, maxBytes: 64, wantErr: true},
		{name: "exactly at limit", body: `{"data":{"msg":"abc"}}`, maxBytes: int64(len(`{"data":{"msg":"abc"}}`)), msg: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/inbox/send_message", strings.NewReader(tt.body))
			req, err := ParseMessageRequest(r, tt.maxBytes)
			if tt.wantErr {
				if !IsRequestError(err) {
					t.Fatalf("expected RequestError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.Data.Recipient != tt.recipient || req.Data.Msg != tt.msg {
				t.Errorf("got %+v", req.Data)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"request error", &RequestError{Message: "bad"}, http.StatusBadRequest},
		{"wrapped request error", fmt.Errorf("decode: %w", &RequestError{Message: "bad"}), http.StatusBadRequest},
		{"upstream status", &completion.StatusError{StatusCode: 401}, http.StatusInternalServerError},
		{"timeout", &completion.TimeoutError{}, http.StatusInternalServerError},
		{"empty reply", ErrEmptyReply, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HandleError(tt.err).HTTPStatusCode(); got != tt.status {
				t.Errorf("status = %d, want %d", got, tt.status)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	if err := WriteError(w, http.StatusNotFound); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["error"] != "Not Found" {
		t.Errorf("body = %v", body)
	}
}

func TestWriteData(t *testing.T) {
	w := httptest.NewRecorder()
	_ = WriteData(w, "pong")
	if got := strings.TrimSpace(w.Body.String()); got != `{"data":"pong"}` {
		t.Errorf("body = %s", got)
	}
}

func TestLogAttrs(t *testing.T) {
	attrs := LogAttrs(fmt.Errorf("complete: %w", &completion.StatusError{StatusCode: 503, Body: "overloaded"}))
	joined := fmt.Sprint(attrs...)
	if !strings.Contains(joined, "503") || !strings.Contains(joined, "overloaded") {
		t.Errorf("expected status and body in attrs, got %v", attrs)
	}

	attrs = LogAttrs(&MalformedError{Response: completion.MalformedResponse{Raw: "<html>", Cause: errors.New("bad")}})
	if !strings.Contains(fmt.Sprint(attrs...), "<html>") {
		t.Errorf("expected raw excerpt in attrs, got %v", attrs)
	}
}
