// Package whisper provides whisper.cpp-backed ASR providers.
//
// Two implementations are available:
//
//   - [Provider] talks to a running whisper-server binary over its REST API
//     (POST /inference) and needs no CGO.
//   - [NativeProvider] loads a model through the whisper.cpp Go bindings and
//     runs inference in-process. The whisper.cpp static library
//     (libwhisper.a) and headers (whisper.h) must be available at link time
//     via LIBRARY_PATH and C_INCLUDE_PATH environment variables.
//
// Usage:
//
//	p, err := whisper.New("http://localhost:8080",
//	    whisper.WithLanguage("en"),
//	)
//	transcript, err := p.Transcribe(ctx, wavFile)
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/readmark/readmark/pkg/provider/asr"
)

const (
	defaultLanguage    = "en"
	defaultHTTPTimeout = 2 * time.Minute
)

// Compile-time assertion that Provider implements asr.Provider.
var _ asr.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithModel sets the model identifier forwarded to the whisper.cpp server
// (e.g., "base.en", "small"). When empty the server uses whichever model it
// was started with — this is the default.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithLanguage sets the BCP-47 language code sent to the whisper.cpp server
// (e.g., "en", "de", "fr"). Defaults to "en".
func WithLanguage(lang string) Option {
	return func(p *Provider) {
		p.language = lang
	}
}

// WithHTTPClient replaces the HTTP client used for inference requests.
// The default client has a 2 minute timeout sized for batch inference on
// CPU-only hosts.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// Provider implements asr.Provider backed by a whisper.cpp HTTP server.
type Provider struct {
	serverURL  string
	model      string
	language   string
	httpClient *http.Client
}

// New creates a Provider that submits inference requests to the whisper.cpp
// server at serverURL (e.g., "http://localhost:8080").
func New(serverURL string, opts ...Option) (*Provider, error) {
	if serverURL == "" {
		return nil, errors.New("whisper: serverURL must not be empty")
	}

	p := &Provider{
		serverURL:  serverURL,
		language:   defaultLanguage,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Transcribe POSTs the recording to the whisper.cpp /inference endpoint as
// multipart/form-data and returns the transcribed text.
func (p *Provider) Transcribe(ctx context.Context, r io.Reader) (asr.Transcript, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: create form file: %w", err)
	}
	if _, err := io.Copy(fw, r); err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: copy audio: %w", err)
	}
	if p.language != "" {
		if err := mw.WriteField("language", p.language); err != nil {
			return asr.Transcript{}, fmt.Errorf("whisper: write language field: %w", err)
		}
	}
	if p.model != "" {
		if err := mw.WriteField("model", p.model); err != nil {
			return asr.Transcript{}, fmt.Errorf("whisper: write model field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: finalize form: %w", err)
	}

	endpoint := p.serverURL + "/inference"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return asr.Transcript{}, fmt.Errorf("whisper: server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: read response body: %w", err)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return asr.Transcript{}, fmt.Errorf("whisper: parse JSON response: %w", err)
	}

	return asr.Transcript{Text: result.Text, Language: p.language}, nil
}
