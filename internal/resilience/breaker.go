// Package resilience keeps assessments flowing when a speech recognition
// backend degrades. A [Breaker] guards a single backend with the classic
// closed → open → half-open cycle; [ASRFallback] chains several backends,
// each behind its own breaker, so the first healthy one serves the request.
//
// All types are safe for concurrent use.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by [Breaker.Execute] while the breaker is open
// and the cooldown has not yet elapsed.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the operating mode of a [Breaker].
type State int

const (
	// StateClosed forwards every call.
	StateClosed State = iota

	// StateOpen rejects calls with [ErrCircuitOpen] until the cooldown
	// elapses.
	StateOpen

	// StateHalfOpen lets a bounded number of probe calls through. Enough
	// successes close the breaker; any failure re-opens it.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig tunes a [Breaker].
type BreakerConfig struct {
	// Backend labels the guarded recognition backend in log messages.
	Backend string

	// TripAfter is the number of consecutive failures that open the
	// breaker. Default: 5.
	TripAfter int

	// Cooldown is how long the breaker stays open before probing the
	// backend again. Default: 30s.
	Cooldown time.Duration

	// ProbeBudget caps the half-open probe calls used to decide between
	// closing and re-opening. Default: 3.
	ProbeBudget int
}

// Breaker is a three-state circuit breaker around a recognition backend.
type Breaker struct {
	backend     string
	tripAfter   int
	cooldown    time.Duration
	probeBudget int

	mu         sync.Mutex
	state      State
	failures   int
	openedAt   time.Time
	probes     int
	probeFails int
}

// NewBreaker creates a [Breaker]. Zero-value config fields get defaults.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.TripAfter <= 0 {
		cfg.TripAfter = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.ProbeBudget <= 0 {
		cfg.ProbeBudget = 3
	}
	return &Breaker{
		backend:     cfg.Backend,
		tripAfter:   cfg.TripAfter,
		cooldown:    cfg.Cooldown,
		probeBudget: cfg.ProbeBudget,
		state:       StateClosed,
	}
}

// Execute runs fn if the breaker allows it. While open it returns
// [ErrCircuitOpen] without invoking fn; in half-open it admits at most
// ProbeBudget probes.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	switch b.state {
	case StateOpen:
		if time.Since(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probes = 0
		b.probeFails = 0
		slog.Info("asr breaker probing backend", "backend", b.backend)

	case StateHalfOpen:
		if b.probes >= b.probeBudget {
			b.mu.Unlock()
			return ErrCircuitOpen
		}
	}

	probing := b.state == StateHalfOpen
	if probing {
		b.probes++
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.onFailure(probing)
	} else {
		b.onSuccess(probing)
	}
	return err
}

// onFailure updates failure accounting. Caller holds b.mu.
func (b *Breaker) onFailure(probing bool) {
	b.openedAt = time.Now()

	if probing {
		b.probeFails++
		// One failed probe is enough evidence the backend is still down.
		b.state = StateOpen
		b.failures = b.tripAfter
		slog.Warn("asr breaker re-opened", "backend", b.backend)
		return
	}

	b.failures++
	if b.failures >= b.tripAfter {
		b.state = StateOpen
		slog.Warn("asr breaker opened",
			"backend", b.backend,
			"consecutive_failures", b.failures)
	}
}

// onSuccess updates success accounting. Caller holds b.mu.
func (b *Breaker) onSuccess(probing bool) {
	if probing {
		if b.probes-b.probeFails >= b.probeBudget {
			b.state = StateClosed
			b.failures = 0
			b.probes = 0
			b.probeFails = 0
			slog.Info("asr breaker closed", "backend", b.backend)
		}
		return
	}
	b.failures = 0
}

// State returns the breaker's current [State]. An open breaker whose cooldown
// has elapsed reports [StateHalfOpen]; the transition itself happens on the
// next [Breaker.Execute] call.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && time.Since(b.openedAt) >= b.cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Reset forces the breaker back to [StateClosed] and clears all counters.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.probeFails = 0
	slog.Info("asr breaker reset", "backend", b.backend)
}
