// Command readmark runs the oral reading assessment server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/readmark/readmark/internal/chapter"
	"github.com/readmark/readmark/internal/config"
	"github.com/readmark/readmark/internal/health"
	"github.com/readmark/readmark/internal/observe"
	"github.com/readmark/readmark/internal/resilience"
	"github.com/readmark/readmark/internal/scoring"
	"github.com/readmark/readmark/internal/server"
	"github.com/readmark/readmark/pkg/provider/asr"
	asrmock "github.com/readmark/readmark/pkg/provider/asr/mock"
	"github.com/readmark/readmark/pkg/provider/asr/whisper"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "readmark: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "readmark: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	// The level lives in a LevelVar so a config reload can adjust it at runtime.
	logLevel := new(slog.LevelVar)
	logLevel.Set(slogLevel(cfg.Server.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	slog.Info("readmark starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	otelShutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "readmark",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown error", "err", err)
		}
	}()

	// ── Chapter store ─────────────────────────────────────────────────────────
	store, checkers, cleanup, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialise chapter store", "err", err)
		return 1
	}
	defer cleanup()

	if cfg.Chapters.LibraryFile != "" {
		if err := importLibrary(ctx, store, cfg.Chapters.LibraryFile); err != nil {
			slog.Error("failed to import chapter library", "err", err)
			return 1
		}
	}

	// ── Speech recognition provider ───────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg)

	recognizer, err := buildRecognizer(cfg, reg)
	if err != nil {
		slog.Error("failed to create asr provider", "name", cfg.ASR.Name, "err", err)
		return 1
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	opts := []server.Option{
		server.WithEvaluator(evaluatorFromConfig(cfg.Scoring)),
		server.WithVersion(version),
		server.WithHealthCheckers(checkers...),
	}
	if cfg.Scoring.MinAudioMs > 0 {
		opts = append(opts, server.WithMinAudioDuration(time.Duration(cfg.Scoring.MinAudioMs)*time.Millisecond))
	}
	if cfg.Server.MaxUploadBytes > 0 {
		opts = append(opts, server.WithMaxUploadBytes(cfg.Server.MaxUploadBytes))
	}
	srv := server.New(store, recognizer, opts...)

	// ── Config hot reload ─────────────────────────────────────────────────────
	watcher, err := config.NewWatcher(*configPath, func(old, new *config.Config) {
		diff := config.Diff(old, new)
		if !diff.HasChanges() {
			return
		}
		if diff.LogLevelChanged {
			logLevel.Set(slogLevel(diff.NewLogLevel))
			slog.Info("log level updated", "log_level", diff.NewLogLevel)
		}
		if diff.ScoringChanged {
			srv.SetEvaluator(evaluatorFromConfig(diff.NewScoring))
			slog.Info("scoring settings updated",
				"fuzzy_threshold", diff.NewScoring.FuzzyThreshold,
				"exact_only", diff.NewScoring.ExactOnly,
				"suspicious_wpm", diff.NewScoring.SuspiciousWPM,
			)
		}
		if diff.LibraryChanged && diff.NewLibraryFile != "" {
			if err := importLibrary(context.Background(), store, diff.NewLibraryFile); err != nil {
				slog.Warn("failed to reimport chapter library", "err", err)
			}
		}
	})
	if err != nil {
		slog.Warn("config watcher disabled", "err", err)
	} else {
		defer watcher.Stop()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server ready — press Ctrl+C to shut down", "listen_addr", httpSrv.Addr)
		var err error
		if cfg.Server.TLS != nil {
			err = httpSrv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
		} else {
			err = httpSrv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received, stopping…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("run error", "err", err)
		return 1
	}
	slog.Info("goodbye")
	return 0
}

// ── Store wiring ──────────────────────────────────────────────────────────────

// buildStore returns the configured chapter store plus any health checkers and
// a cleanup function for its resources. With a Postgres DSN it connects a
// pgx pool and runs the schema migration; otherwise chapters live in memory.
func buildStore(ctx context.Context, cfg *config.Config) (chapter.Store, []health.Checker, func(), error) {
	if cfg.Chapters.PostgresDSN == "" {
		slog.Info("using in-memory chapter store")
		return chapter.NewMemStore(), nil, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Chapters.PostgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	store := chapter.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("migrate chapter schema: %w", err)
	}
	slog.Info("using postgres chapter store")

	checkers := []health.Checker{{
		Name:  "database",
		Check: pool.Ping,
	}}
	return store, checkers, pool.Close, nil
}

// importLibrary loads a YAML chapter library from path and upserts its
// chapters into the store.
func importLibrary(ctx context.Context, store chapter.Store, path string) error {
	library, err := chapter.LoadLibraryFile(path)
	if err != nil {
		return err
	}
	n, err := chapter.ImportLibrary(ctx, store, library)
	if err != nil {
		return err
	}
	slog.Info("chapter library imported", "file", path, "library", library.Library.Name, "chapters", n)
	return nil
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// buildRecognizer instantiates the configured ASR provider. When fallbacks are
// configured, the providers are composed behind per-backend circuit breakers.
func buildRecognizer(cfg *config.Config, reg *config.Registry) (asr.Provider, error) {
	primary, err := reg.CreateASR(cfg.ASR)
	if err != nil {
		return nil, fmt.Errorf("create asr provider %q: %w", cfg.ASR.Name, err)
	}
	slog.Info("asr provider created", "name", cfg.ASR.Name)

	if len(cfg.ASR.Fallbacks) == 0 {
		return primary, nil
	}

	fb := resilience.NewASRFallback(primary, cfg.ASR.Name, resilience.BreakerConfig{})
	for _, entry := range cfg.ASR.Fallbacks {
		p, err := reg.CreateASR(entry)
		if err != nil {
			return nil, fmt.Errorf("create asr fallback %q: %w", entry.Name, err)
		}
		fb.AddFallback(entry.Name, p)
		slog.Info("asr fallback registered", "name", entry.Name)
	}
	return fb, nil
}

// registerBuiltinProviders wires all built-in ASR provider factories into reg.
func registerBuiltinProviders(reg *config.Registry) {
	reg.RegisterASR("whisper", func(entry config.ProviderEntry) (asr.Provider, error) {
		var opts []whisper.Option
		if entry.Model != "" {
			opts = append(opts, whisper.WithModel(entry.Model))
		}
		if entry.Language != "" {
			opts = append(opts, whisper.WithLanguage(entry.Language))
		}
		return whisper.New(entry.BaseURL, opts...)
	})

	reg.RegisterASR("whisper-native", func(entry config.ProviderEntry) (asr.Provider, error) {
		var opts []whisper.NativeOption
		if entry.Language != "" {
			opts = append(opts, whisper.WithNativeLanguage(entry.Language))
		}
		return whisper.NewNative(entry.Model, opts...)
	})

	// mock returns a fixed transcript; useful for local development without a
	// whisper backend.
	reg.RegisterASR("mock", func(entry config.ProviderEntry) (asr.Provider, error) {
		text, _ := entry.Options["text"].(string)
		return &asrmock.Provider{Result: asr.Transcript{Text: text}}, nil
	})

	for _, name := range config.ValidASRProviderNames {
		slog.Debug("registered provider", "kind", "asr", "name", name)
	}
}

// evaluatorFromConfig builds a scoring evaluator from the scoring settings,
// keeping package defaults for zero values.
func evaluatorFromConfig(cfg config.ScoringConfig) *scoring.Evaluator {
	var opts []scoring.Option
	if cfg.FuzzyThreshold > 0 {
		opts = append(opts, scoring.WithFuzzyThreshold(cfg.FuzzyThreshold))
	}
	if cfg.ExactOnly {
		opts = append(opts, scoring.WithoutFuzzyMatching())
	}
	if cfg.SuspiciousWPM > 0 {
		opts = append(opts, scoring.WithSuspiciousWPM(cfg.SuspiciousWPM))
	}
	return scoring.NewEvaluator(opts...)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func slogLevel(level config.LogLevel) slog.Level {
	switch level {
	case config.LogDebug:
		return slog.LevelDebug
	case config.LogWarn:
		return slog.LevelWarn
	case config.LogError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
