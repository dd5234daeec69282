package chapter

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LibraryFile is the top-level structure of a chapter library YAML file.
//
// Example:
//
//	library:
//	  name: "Grade 3 Reader"
//	chapters:
//	  - id: chapter_1
//	    title: "Introduction to Reading"
//	    text: "Reading is a fundamental skill..."
type LibraryFile struct {
	Library  LibraryMeta `yaml:"library"`
	Chapters []Chapter   `yaml:"chapters"`
}

// LibraryMeta holds top-level metadata for a chapter library.
type LibraryMeta struct {
	// Name is the library's display name.
	Name string `yaml:"name"`

	// Description is a free-text summary of the library.
	Description string `yaml:"description"`
}

// LoadLibraryFile reads and parses a chapter library YAML file from disk.
// Returns a descriptive error if the file cannot be opened or parsed.
func LoadLibraryFile(path string) (*LibraryFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chapter: open library file %q: %w", path, err)
	}
	defer f.Close()

	lf, err := LoadLibraryFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("chapter: parse library file %q: %w", path, err)
	}
	return lf, nil
}

// LoadLibraryFromReader parses library YAML from an [io.Reader].
// The reader is consumed entirely; the caller is responsible for closing it.
func LoadLibraryFromReader(r io.Reader) (*LibraryFile, error) {
	var lf LibraryFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown top-level keys to catch typos
	if err := dec.Decode(&lf); err != nil {
		return nil, fmt.Errorf("chapter: decode library yaml: %w", err)
	}
	return &lf, nil
}

// ImportLibrary upserts all chapters from a parsed [LibraryFile] into store.
// Returns the number of chapters successfully imported.
// An error from the store aborts the import and returns the count so far.
func ImportLibrary(ctx context.Context, store Store, library *LibraryFile) (int, error) {
	if library == nil {
		return 0, fmt.Errorf("chapter: library must not be nil")
	}
	count := 0
	for _, ch := range library.Chapters {
		if err := store.Upsert(ctx, ch); err != nil {
			return count, fmt.Errorf("chapter: import library %q at index %d (id %q): %w",
				library.Library.Name, count, ch.ID, err)
		}
		count++
	}
	return count, nil
}
