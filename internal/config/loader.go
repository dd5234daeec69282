package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidASRProviderNames lists known ASR provider names. Used by [Validate]
// to warn about unrecognised provider names.
var ValidASRProviderNames = []string{"whisper", "whisper-native", "mock"}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.MaxUploadBytes < 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes %d must not be negative", cfg.Server.MaxUploadBytes))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" {
			errs = append(errs, errors.New("server.tls.cert_file is required when tls is set"))
		}
		if cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls.key_file is required when tls is set"))
		}
	}

	// Scoring
	if cfg.Scoring.FuzzyThreshold < 0 || cfg.Scoring.FuzzyThreshold > 100 {
		errs = append(errs, fmt.Errorf("scoring.fuzzy_threshold %d is out of range [0, 100]", cfg.Scoring.FuzzyThreshold))
	}
	if cfg.Scoring.SuspiciousWPM < 0 {
		errs = append(errs, fmt.Errorf("scoring.suspicious_wpm %.1f must not be negative", cfg.Scoring.SuspiciousWPM))
	}
	if cfg.Scoring.MinAudioMs < 0 {
		errs = append(errs, fmt.Errorf("scoring.min_audio_ms %d must not be negative", cfg.Scoring.MinAudioMs))
	}

	// ASR provider name — warn for unknown names.
	if cfg.ASR.Name != "" && !slices.Contains(ValidASRProviderNames, cfg.ASR.Name) {
		slog.Warn("unknown asr provider name — may be a typo or third-party provider",
			"name", cfg.ASR.Name,
			"known", ValidASRProviderNames,
		)
	}

	// ASR wiring cross-checks, for the primary and each fallback.
	entries := append([]ProviderEntry{cfg.ASR}, cfg.ASR.Fallbacks...)
	for i, entry := range entries {
		label := "asr"
		if i > 0 {
			label = fmt.Sprintf("asr.fallbacks[%d]", i-1)
		}
		if entry.Name == "whisper" && entry.BaseURL == "" {
			errs = append(errs, fmt.Errorf("%s.base_url is required when %s.name is whisper", label, label))
		}
		if entry.Name == "whisper-native" && entry.Model == "" {
			errs = append(errs, fmt.Errorf("%s.model is required when %s.name is whisper-native", label, label))
		}
	}

	// Chapter availability
	if cfg.Chapters.LibraryFile == "" && cfg.Chapters.PostgresDSN == "" {
		slog.Warn("no chapter library or database configured; the chapter store starts empty")
	}

	return errors.Join(errs...)
}
