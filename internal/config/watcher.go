package config

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// fileStamp identifies a loaded config file revision. The modification time
// is a cheap first check; the content hash catches touch-without-change and
// editors that rewrite files with stale timestamps.
type fileStamp struct {
	modTime time.Time
	sum     [sha256.Size]byte
}

// Watcher polls the config file and reports revisions so the server can
// apply scoring, log-level, and chapter-library changes without a restart.
// An invalid revision is logged and skipped; the last valid config stays
// active. Polling keeps the dependency surface flat — a missed tick only
// delays a reload by one interval.
type Watcher struct {
	path     string
	interval time.Duration
	onChange func(old, new *Config)

	mu      sync.Mutex
	current *Config
	seen    fileStamp

	done     chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a [Watcher].
type WatcherOption func(*Watcher)

// WithInterval sets the polling interval. The default is 5 seconds.
func WithInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// NewWatcher loads the config at path and starts polling it in a background
// goroutine. onChange runs outside the watcher lock with the previous and
// new config whenever the file content changes and still validates.
func NewWatcher(path string, onChange func(old, new *Config), opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		interval: 5 * time.Second,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	cfg, stamp, err := w.load()
	if err != nil {
		return nil, fmt.Errorf("config: watcher initial load: %w", err)
	}
	w.current = cfg
	w.seen = stamp

	go w.run()
	return w, nil
}

// Current returns the most recently loaded valid config.
func (w *Watcher) Current() *Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Stop ends the polling goroutine. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.reload()
		}
	}
}

// reload re-reads the file when its modification time moved, swaps in the
// new config if the content actually changed, and notifies onChange.
func (w *Watcher) reload() {
	info, err := os.Stat(w.path)
	if err != nil {
		slog.Warn("config watcher: cannot stat file", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	unchanged := info.ModTime().Equal(w.seen.modTime)
	w.mu.Unlock()
	if unchanged {
		return
	}

	cfg, stamp, err := w.load()
	if err != nil {
		slog.Warn("config watcher: keeping previous config", "path", w.path, "err", err)
		return
	}

	w.mu.Lock()
	if stamp.sum == w.seen.sum {
		// Touched but identical content.
		w.seen.modTime = stamp.modTime
		w.mu.Unlock()
		return
	}
	old := w.current
	w.current = cfg
	w.seen = stamp
	w.mu.Unlock()

	slog.Info("config watcher: configuration reloaded", "path", w.path)
	if w.onChange != nil {
		w.onChange(old, cfg)
	}
}

// load reads, hashes, and validates the config file in one pass.
func (w *Watcher) load() (*Config, fileStamp, error) {
	info, err := os.Stat(w.path)
	if err != nil {
		return nil, fileStamp{}, err
	}
	data, err := os.ReadFile(w.path)
	if err != nil {
		return nil, fileStamp{}, err
	}

	cfg, err := LoadFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fileStamp{}, err
	}
	return cfg, fileStamp{modTime: info.ModTime(), sum: sha256.Sum256(data)}, nil
}
