package resilience

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/readmark/readmark/pkg/provider/asr"
)

// ErrAllFailed is returned when every backend in an [ASRFallback] fails or
// has an open breaker.
var ErrAllFailed = errors.New("all asr backends failed")

// backend pairs a recognition provider with its dedicated breaker.
type backend struct {
	name     string
	provider asr.Provider
	breaker  *Breaker
}

// ASRFallback implements [asr.Provider] with automatic failover across
// multiple recognition backends. Backends are tried in registration order;
// one with an open breaker is skipped without being called.
type ASRFallback struct {
	backends []backend
	cfg      BreakerConfig
}

// Compile-time interface assertion.
var _ asr.Provider = (*ASRFallback)(nil)

// NewASRFallback creates an [ASRFallback] with primary as the preferred
// backend. cfg seeds the breaker created for each backend.
func NewASRFallback(primary asr.Provider, name string, cfg BreakerConfig) *ASRFallback {
	f := &ASRFallback{cfg: cfg}
	f.add(name, primary)
	return f
}

// AddFallback registers an additional backend tried after the ones already
// present.
func (f *ASRFallback) AddFallback(name string, provider asr.Provider) {
	f.add(name, provider)
}

func (f *ASRFallback) add(name string, provider asr.Provider) {
	cfg := f.cfg
	cfg.Backend = name
	f.backends = append(f.backends, backend{
		name:     name,
		provider: provider,
		breaker:  NewBreaker(cfg),
	})
}

// Transcribe runs the recording through the first healthy backend. The audio
// is buffered up front so every attempt gets the full recording.
func (f *ASRFallback) Transcribe(ctx context.Context, r io.Reader) (asr.Transcript, error) {
	audio, err := io.ReadAll(r)
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("resilience: read audio: %w", err)
	}

	var lastErr error
	for i := range f.backends {
		be := &f.backends[i]

		var transcript asr.Transcript
		err := be.breaker.Execute(func() error {
			var innerErr error
			transcript, innerErr = be.provider.Transcribe(ctx, bytes.NewReader(audio))
			return innerErr
		})
		if err == nil {
			return transcript, nil
		}
		lastErr = err

		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("skipping asr backend (breaker open)", "backend", be.name)
		} else {
			slog.Warn("asr backend failed, trying next",
				"backend", be.name, "error", err)
		}
	}
	return asr.Transcript{}, fmt.Errorf("%w: %v", ErrAllFailed, lastErr)
}
