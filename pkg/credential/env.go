package credential

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvVar is the variable read by EnvSource when none is configured.
const DefaultEnvVar = "LOVEPAWS_API_KEY"

// EnvSource reads the credential from an environment variable.
type EnvSource struct {
	Var string

	lookup func(string) (string, bool)
}

// NewEnvSource creates an environment source for the named variable.
func NewEnvSource(name string) *EnvSource {
	if name == "" {
		name = DefaultEnvVar
	}
	return &EnvSource{Var: name, lookup: os.LookupEnv}
}

// Name returns "env".
func (s *EnvSource) Name() string { return "env" }

// Load reads the variable. An unset variable is ErrNotFound, a blank one ErrEmpty.
func (s *EnvSource) Load(ctx context.Context) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}

	lookup := s.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	value, ok := lookup(s.Var)
	if !ok {
		return Credential{}, &LoadError{Source: s.Name(), Location: s.Var, Err: ErrNotFound}
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Credential{}, &LoadError{Source: s.Name(), Location: s.Var, Err: ErrEmpty}
	}
	return New(value), nil
}
