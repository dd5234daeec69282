// Package server exposes the reading assessment engine over HTTP.
//
// Endpoints:
//
//	POST   /assess/audio   — upload a recording and receive a scored report
//	GET    /chapters       — list available chapters
//	POST   /chapters       — create a chapter
//	GET    /chapters/{id}  — fetch a chapter
//	PUT    /chapters/{id}  — replace a chapter
//	DELETE /chapters/{id}  — remove a chapter
//	GET    /health         — liveness probe with version
//	GET    /readyz         — readiness probe
//	GET    /metrics        — Prometheus scrape endpoint
package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/readmark/readmark/internal/chapter"
	"github.com/readmark/readmark/internal/health"
	"github.com/readmark/readmark/internal/observe"
	"github.com/readmark/readmark/internal/scoring"
	"github.com/readmark/readmark/pkg/provider/asr"
)

const (
	// defaultMinAudioDuration rejects recordings too short to contain a
	// meaningful reading sample.
	defaultMinAudioDuration = 500 * time.Millisecond

	// defaultMaxUploadBytes caps multipart uploads at 32 MiB.
	defaultMaxUploadBytes = 32 << 20
)

// Option is a functional option for configuring a [Server].
type Option func(*Server)

// WithEvaluator sets the scoring evaluator. The default evaluator uses the
// standard fuzzy threshold and suspicious speed settings.
func WithEvaluator(e *scoring.Evaluator) Option {
	return func(s *Server) {
		s.evaluator = e
	}
}

// WithMetrics sets the metrics instance used by handlers and middleware.
// Defaults to [observe.DefaultMetrics].
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithMinAudioDuration sets the minimum accepted recording length.
// Defaults to 500 ms.
func WithMinAudioDuration(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.minAudioDuration = d
		}
	}
}

// WithMaxUploadBytes caps the size of an uploaded recording.
// Defaults to 32 MiB.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithVersion sets the version string reported by the health endpoint.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithHealthCheckers adds readiness checkers evaluated by /readyz.
func WithHealthCheckers(checkers ...health.Checker) Option {
	return func(s *Server) {
		s.checkers = append(s.checkers, checkers...)
	}
}

// Server handles assessment and chapter management requests. It is safe for
// concurrent use.
type Server struct {
	chapters   chapter.Store
	recognizer asr.Provider
	metrics    *observe.Metrics

	mu        sync.RWMutex
	evaluator *scoring.Evaluator

	minAudioDuration time.Duration
	maxUploadBytes   int64
	version          string
	checkers         []health.Checker
}

// New creates a [Server] serving assessments against the given chapter store
// and speech recognizer.
func New(chapters chapter.Store, recognizer asr.Provider, opts ...Option) *Server {
	s := &Server{
		chapters:         chapters,
		recognizer:       recognizer,
		evaluator:        scoring.NewEvaluator(),
		minAudioDuration: defaultMinAudioDuration,
		maxUploadBytes:   defaultMaxUploadBytes,
		version:          "dev",
	}
	for _, o := range opts {
		o(s)
	}
	if s.metrics == nil {
		s.metrics = observe.DefaultMetrics()
	}
	return s
}

// SetEvaluator replaces the scoring evaluator. Used for config hot reload;
// in-flight requests keep the evaluator they started with.
func (s *Server) SetEvaluator(e *scoring.Evaluator) {
	if e == nil {
		return
	}
	s.mu.Lock()
	s.evaluator = e
	s.mu.Unlock()
}

// currentEvaluator returns the evaluator under the read lock.
func (s *Server) currentEvaluator() *scoring.Evaluator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.evaluator
}

// Routes returns the fully wired handler: method-pattern mux wrapped in the
// observability middleware.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /assess/audio", s.handleAssessAudio)
	mux.HandleFunc("GET /chapters", s.handleListChapters)
	mux.HandleFunc("POST /chapters", s.handleCreateChapter)
	mux.HandleFunc("GET /chapters/{id}", s.handleGetChapter)
	mux.HandleFunc("PUT /chapters/{id}", s.handleUpdateChapter)
	mux.HandleFunc("DELETE /chapters/{id}", s.handleDeleteChapter)

	health.New(s.version, s.checkers...).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	return observe.Middleware(s.metrics)(mux)
}
