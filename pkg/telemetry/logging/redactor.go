package logging

import (
	"log/slog"
	"regexp"
)

// Redactor masks secrets in log attribute values.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

var defaultPatterns = []redactPattern{
	// Provider API keys (sk-..., sk-proj-...)
	{regexp.MustCompile(`sk-[A-Za-z0-9_\-]{8,}`), "sk-***"},
	// Bearer tokens in header dumps
	{regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9\-._~+/]+=*`), "Bearer ***"},
	// JSON credential file contents
	{regexp.MustCompile(`("api_key"\s*:\s*")[^"]*(")`), "${1}***${2}"},
}

// NewRedactor returns a redactor with the built-in patterns.
func NewRedactor() *Redactor {
	return &Redactor{patterns: defaultPatterns}
}

// Redact applies every pattern to s.
func (r *Redactor) Redact(s string) string {
	for _, p := range r.patterns {
		s = p.regex.ReplaceAllString(s, p.replacement)
	}
	return s
}

// ReplaceAttr is a slog.HandlerOptions.ReplaceAttr hook. It redacts string
// values and error messages; other kinds pass through.
func (r *Redactor) ReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if v := a.Value.String(); v != "" {
			a.Value = slog.StringValue(r.Redact(v))
		}
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			a.Value = slog.StringValue(r.Redact(err.Error()))
		}
	}
	return a
}
