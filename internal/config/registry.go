package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/readmark/readmark/pkg/provider/asr"
)

// ErrProviderNotRegistered is returned by [Registry.CreateASR] when no
// factory has been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps ASR provider names to their constructor functions. It is
// safe for concurrent use.
type Registry struct {
	mu  sync.RWMutex
	asr map[string]func(ProviderEntry) (asr.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		asr: make(map[string]func(ProviderEntry) (asr.Provider, error)),
	}
}

// RegisterASR registers an ASR provider factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterASR(name string, factory func(ProviderEntry) (asr.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asr[name] = factory
}

// CreateASR instantiates an ASR provider using the factory registered under
// entry.Name. Returns [ErrProviderNotRegistered] if no factory has been
// registered for that name.
func (r *Registry) CreateASR(entry ProviderEntry) (asr.Provider, error) {
	r.mu.RLock()
	factory, ok := r.asr[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: asr/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
