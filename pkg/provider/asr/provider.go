// Package asr defines the Provider interface for batch speech recognition
// backends.
//
// An ASR provider wraps a transcription engine (a whisper.cpp server, the
// whisper.cpp CGO bindings, or a mock for tests) and exposes a uniform batch
// interface: a complete audio recording goes in, a transcript comes out.
// Reading assessment operates on whole recordings, so no streaming surface
// is needed.
//
// Implementations must be safe for concurrent use.
package asr

import (
	"context"
	"io"
)

// Transcript is the result of transcribing one recording.
type Transcript struct {
	// Text is the transcribed text, untrimmed as returned by the engine.
	Text string

	// Language is the BCP-47 language code used for recognition, when the
	// provider reports one.
	Language string
}

// Provider transcribes complete audio recordings.
type Provider interface {
	// Transcribe reads a complete WAV recording from r and returns its
	// transcript. The reader is consumed entirely. Implementations honour
	// ctx cancellation for long-running inference.
	Transcribe(ctx context.Context, r io.Reader) (Transcript, error)
}
