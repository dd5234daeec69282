package config

// ConfigDiff describes what changed between two configs.
// Only fields that can be safely hot-reloaded are tracked.
type ConfigDiff struct {
	LogLevelChanged bool
	NewLogLevel     LogLevel

	// ScoringChanged reports whether any scoring tunable changed. The whole
	// scoring block is reapplied at once since building a new evaluator is
	// cheap.
	ScoringChanged bool
	NewScoring     ScoringConfig

	// LibraryChanged reports whether the chapter library path changed.
	LibraryChanged bool
	NewLibraryFile string
}

// Diff compares old and new configs and returns what changed.
// Only tracks changes that are safe to apply without restart.
func Diff(old, new *Config) ConfigDiff {
	d := ConfigDiff{}

	// Log level
	if old.Server.LogLevel != new.Server.LogLevel {
		d.LogLevelChanged = true
		d.NewLogLevel = new.Server.LogLevel
	}

	// Scoring tunables
	if old.Scoring != new.Scoring {
		d.ScoringChanged = true
		d.NewScoring = new.Scoring
	}

	// Chapter library
	if old.Chapters.LibraryFile != new.Chapters.LibraryFile {
		d.LibraryChanged = true
		d.NewLibraryFile = new.Chapters.LibraryFile
	}

	return d
}

// HasChanges reports whether the diff contains any hot-reloadable change.
func (d ConfigDiff) HasChanges() bool {
	return d.LogLevelChanged || d.ScoringChanged || d.LibraryChanged
}
