package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Sentinel errors wrapped by LoadError.
var (
	ErrNotFound  = errors.New("credential not found")
	ErrMalformed = errors.New("credential malformed")
	ErrEmpty     = errors.New("credential empty")
)

const redacted = "[REDACTED]"

// Credential is an opaque bearer token.
type Credential struct {
	value string
}

// New wraps a raw key.
func New(value string) Credential {
	return Credential{value: value}
}

// Reveal returns the raw key.
func (c Credential) Reveal() string {
	return c.value
}

// IsZero reports whether no key is held.
func (c Credential) IsZero() bool {
	return c.value == ""
}

// Masked returns the key with all but a short prefix and suffix hidden,
// suitable for operator output.
func (c Credential) Masked() string {
	n := len(c.value)
	switch {
	case n == 0:
		return ""
	case n <= 8:
		return "****"
	default:
		return c.value[:3] + "..." + c.value[n-4:]
	}
}

// String implements fmt.Stringer.
func (c Credential) String() string { return redacted }

// GoString implements fmt.GoStringer.
func (c Credential) GoString() string { return "credential.Credential{" + redacted + "}" }

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value { return slog.StringValue(redacted) }

// Source loads a credential from a backing store.
type Source interface {
	// Load reads the credential. It fails if the key is absent or empty.
	Load(ctx context.Context) (Credential, error)

	// Name identifies the source in logs and errors (file, env).
	Name() string
}

// LoadError describes a failed credential load.
type LoadError struct {
	Source   string
	Location string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load credential from %s %q: %v", e.Source, e.Location, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
