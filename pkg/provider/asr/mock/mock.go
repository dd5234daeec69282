// Package mock provides a test double for the asr package interfaces.
//
// Use Provider to return a controlled Transcript and inspect which audio
// payloads were delivered.
//
// Example:
//
//	p := &mock.Provider{Result: asr.Transcript{Text: "the quick brown fox"}}
//	transcript, _ := p.Transcribe(ctx, wavFile)
package mock

import (
	"context"
	"io"
	"sync"

	"github.com/readmark/readmark/pkg/provider/asr"
)

// TranscribeCall records a single invocation of Provider.Transcribe.
type TranscribeCall struct {
	// Ctx is the context passed to Transcribe.
	Ctx context.Context
	// Audio is a copy of the bytes read from the audio reader.
	Audio []byte
}

// Provider is a mock implementation of asr.Provider.
type Provider struct {
	mu sync.Mutex

	// Result is the Transcript returned by Transcribe.
	Result asr.Transcript

	// Err, if non-nil, is returned as the error from Transcribe.
	Err error

	// TranscribeCalls records every call to Transcribe.
	TranscribeCalls []TranscribeCall
}

// Transcribe consumes r, records the call, and returns Result, Err.
func (p *Provider) Transcribe(ctx context.Context, r io.Reader) (asr.Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return asr.Transcript{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{Ctx: ctx, Audio: data})
	if p.Err != nil {
		return asr.Transcript{}, p.Err
	}
	return p.Result, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = nil
}

// Ensure Provider implements asr.Provider at compile time.
var _ asr.Provider = (*Provider)(nil)
