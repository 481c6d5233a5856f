package completion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client produces a reply for a message addressed to a persona.
type Client interface {
	Complete(ctx context.Context, persona, message string) (Result, error)
}

// Result is one of Reply, EmptyChoices or MalformedResponse.
type Result interface {
	isResult()
}

// Reply is a successful completion.
type Reply struct {
	Text string
}

// EmptyChoices means the upstream succeeded but produced no content.
type EmptyChoices struct{}

// MalformedResponse means the upstream body could not be interpreted.
type MalformedResponse struct {
	// Raw is an excerpt of the body, for logs only.
	Raw   string
	Cause error
}

func (Reply) isResult()             {}
func (EmptyChoices) isResult()      {}
func (MalformedResponse) isResult() {}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the upstream request body.
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type choice struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

var (
	errNotObject    = errors.New("response is not a JSON object")
	errNoChoices    = errors.New("response has no choices field")
	errChoicesShape = errors.New("choices is not an array")
)

// ParseResponse classifies a 2xx response body.
func ParseResponse(body []byte) Result {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil || top == nil {
		cause := err
		if cause == nil {
			cause = errNotObject
		}
		return MalformedResponse{Raw: excerpt(body), Cause: cause}
	}

	raw, ok := top["choices"]
	if !ok {
		return MalformedResponse{Raw: excerpt(body), Cause: errNoChoices}
	}

	var choices []json.RawMessage
	if err := json.Unmarshal(raw, &choices); err != nil || choices == nil {
		return MalformedResponse{Raw: excerpt(body), Cause: errChoicesShape}
	}
	if len(choices) == 0 {
		return EmptyChoices{}
	}

	var first choice
	if err := json.Unmarshal(choices[0], &first); err != nil {
		return MalformedResponse{Raw: excerpt(body), Cause: fmt.Errorf("invalid first choice: %w", err)}
	}
	if first.Message == nil || first.Message.Content == nil {
		return EmptyChoices{}
	}
	return Reply{Text: *first.Message.Content}
}

const maxExcerpt = 512

func excerpt(b []byte) string {
	if len(b) <= maxExcerpt {
		return string(b)
	}
	return string(b[:maxExcerpt]) + "..."
}

// Outcome labels a call result for metrics, spans and logs.
func Outcome(res Result, err error) string {
	if err != nil {
		var (
			statusErr  *StatusError
			timeoutErr *TimeoutError
		)
		switch {
		case errors.As(err, &timeoutErr):
			return "timeout"
		case errors.As(err, &statusErr):
			return "status_error"
		case errors.Is(err, ErrNoCredential):
			return "no_credential"
		default:
			return "transport_error"
		}
	}
	switch res.(type) {
	case Reply:
		return "reply"
	case EmptyChoices:
		return "empty_choices"
	default:
		return "malformed"
	}
}
