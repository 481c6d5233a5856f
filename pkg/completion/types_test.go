package completion

import (
	"errors"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
		text string
	}{
		{"reply", `{"choices":[{"message":{"content":"meow"}}]}`, "reply", "meow"},
		{"reply uses first choice", `{"choices":[{"message":{"content":"one"}},{"message":{"content":"two"}}]}`, "reply", "one"},
		{"empty choices", `{"choices":[]}`, "empty_choices", ""},
		{"no message", `{"choices":[{"index":0}]}`, "empty_choices", ""},
		{"null content", `{"choices":[{"message":{"content":null}}]}`, "empty_choices", ""},
		{"empty content is a reply", `{"choices":[{"message":{"content":""}}]}`, "reply", ""},
		{"missing choices", `{"id":"x"}`, "malformed", ""},
		{"choices null", `{"choices":null}`, "malformed", ""},
		{"choices object", `{"choices":{"0":{}}}`, "malformed", ""},
		{"not json", `<html>oops</html>`, "malformed", ""},
		{"json array", `[1,2]`, "malformed", ""},
		{"json null", `null`, "malformed", ""},
		{"content not string", `{"choices":[{"message":{"content":[{"type":"text"}]}}]}`, "malformed", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseResponse([]byte(tt.body))
			if got := Outcome(res, nil); got != tt.want {
				t.Fatalf("outcome = %q, want %q (%#v)", got, tt.want, res)
			}
			if r, ok := res.(Reply); ok && r.Text != tt.text {
				t.Errorf("text = %q, want %q", r.Text, tt.text)
			}
			if m, ok := res.(MalformedResponse); ok && m.Cause == nil {
				t.Error("malformed response should carry a cause")
			}
		})
	}
}

func TestOutcome_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&StatusError{StatusCode: 500}, "status_error"},
		{&TimeoutError{}, "timeout"},
		{&TransportError{Err: errors.New("refused")}, "transport_error"},
		{ErrNoCredential, "no_credential"},
	}
	for _, tt := range tests {
		if got := Outcome(nil, tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestExcerpt(t *testing.T) {
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'a'
	}
	if got := excerpt(long); len(got) != maxExcerpt+3 {
		t.Errorf("expected truncated excerpt, got length %d", len(got))
	}
	if got := excerpt([]byte("short")); got != "short" {
		t.Errorf("unexpected excerpt %q", got)
	}
}
