package credential

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadyLoaded is returned when Load is called on a populated Holder.
var ErrAlreadyLoaded = errors.New("credential already loaded")

// Holder keeps the credential for the lifetime of the process.
// It is populated once and read-only afterwards.
type Holder struct {
	mu     sync.RWMutex
	cred   Credential
	source string
}

// NewHolder returns an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Load populates the holder from src.
func (h *Holder) Load(ctx context.Context, src Source) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.cred.IsZero() {
		return ErrAlreadyLoaded
	}

	cred, err := src.Load(ctx)
	if err != nil {
		return err
	}
	h.cred = cred
	h.source = src.Name()
	return nil
}

// Get returns the held credential. It is zero before Load succeeds.
func (h *Holder) Get() Credential {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cred
}

// Source returns the name of the source the credential came from.
func (h *Holder) Source() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.source
}

// Static returns a holder already populated with value. Intended for tests
// and embedding.
func Static(value string) *Holder {
	return &Holder{cred: New(value), source: "static"}
}
