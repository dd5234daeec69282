// This file contains the NativeProvider implementation backed by the
// whisper.cpp CGO bindings. The whisper.cpp static library (libwhisper.a)
// and headers (whisper.h) must be available at link time via LIBRARY_PATH
// and C_INCLUDE_PATH environment variables.

package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/readmark/readmark/pkg/audio"
	"github.com/readmark/readmark/pkg/provider/asr"
)

// Compile-time assertion that NativeProvider satisfies asr.Provider.
var _ asr.Provider = (*NativeProvider)(nil)

// NativeProvider implements asr.Provider using whisper.cpp Go bindings
// (CGO), eliminating HTTP overhead entirely. The model is loaded once at
// startup and shared across all transcriptions.
type NativeProvider struct {
	model    whisperlib.Model
	language string
}

// NativeOption is a functional option for configuring a NativeProvider.
type NativeOption func(*NativeProvider)

// WithNativeLanguage sets the BCP-47 language code for transcription
// (e.g., "en", "de", "fr"). Defaults to "en".
func WithNativeLanguage(lang string) NativeOption {
	return func(p *NativeProvider) { p.language = lang }
}

// NewNative creates a NativeProvider that loads the whisper.cpp model from
// the given file path. The model is loaded once and shared across all
// concurrent transcriptions. The caller must call Close when the provider is
// no longer needed.
func NewNative(modelPath string, opts ...NativeOption) (*NativeProvider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	p := &NativeProvider{
		model:    model,
		language: defaultLanguage,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model. Must be called when the provider is no
// longer needed.
func (p *NativeProvider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// Transcribe decodes the WAV recording in r and runs whisper.cpp inference
// over its samples.
func (p *NativeProvider) Transcribe(ctx context.Context, r io.Reader) (asr.Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: read audio: %w", err)
	}

	samples, err := audio.Samples(bytes.NewReader(data))
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: decode audio: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return asr.Transcript{}, err
	}

	// Create a new whisper context for this inference. Each context is NOT
	// thread-safe, but the model can be shared across goroutines.
	wctx, err := p.model.NewContext()
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: create context: %w", err)
	}

	if err := wctx.SetLanguage(p.language); err != nil {
		slog.Warn("whisper: failed to set language, using default", "language", p.language, "error", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return asr.Transcript{}, fmt.Errorf("whisper: read segment: %w", err)
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return asr.Transcript{Text: strings.Join(parts, " "), Language: p.language}, nil
}
