// Package chapter provides storage and retrieval of the reference texts
// students read aloud. A [Chapter] is one assessable text; the [Store]
// interface offers CRUD and list operations with an in-memory
// implementation ([MemStore]) for tests and single-node use and a
// PostgreSQL implementation ([PostgresStore]) for deployments. Chapters
// can also be seeded from a YAML library file ([LoadLibraryFile]).
package chapter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a chapter ID does not exist in the store.
var ErrNotFound = errors.New("chapter: not found")

// ErrDuplicateID is returned by Create when the chapter ID already exists.
var ErrDuplicateID = errors.New("chapter: duplicate id")

// Chapter is a single reference text available for reading assessment.
type Chapter struct {
	// ID uniquely identifies the chapter (e.g., "chapter_1").
	ID string `yaml:"id" json:"id"`

	// Title is the human-readable chapter name.
	Title string `yaml:"title" json:"title"`

	// Text is the full reference text the student is expected to read.
	Text string `yaml:"text" json:"text"`

	// CreatedAt is the time the chapter was first persisted.
	CreatedAt time.Time `yaml:"-" json:"created_at,omitzero"`

	// UpdatedAt is the time the chapter was last modified.
	UpdatedAt time.Time `yaml:"-" json:"updated_at,omitzero"`
}

// WordCount returns the number of whitespace-separated words in the
// chapter text.
func (c Chapter) WordCount() int {
	return len(strings.Fields(c.Text))
}

// Validate checks the chapter for storage. It returns a joined error
// listing every violation found, or nil when the chapter is valid.
func (c Chapter) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, fmt.Errorf("chapter: id must not be empty"))
	}
	if strings.TrimSpace(c.Text) == "" {
		errs = append(errs, fmt.Errorf("chapter: text must not be empty"))
	}
	return errors.Join(errs...)
}

// Store provides CRUD operations over chapters.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get retrieves a chapter by ID. Returns [ErrNotFound] when absent.
	Get(ctx context.Context, id string) (Chapter, error)

	// List returns all chapters ordered by ID.
	List(ctx context.Context) ([]Chapter, error)

	// Create inserts a new chapter. The chapter is validated first.
	// Returns [ErrDuplicateID] when the ID already exists.
	Create(ctx context.Context, ch Chapter) error

	// Update replaces an existing chapter. The chapter is validated first.
	// Returns [ErrNotFound] when the ID does not exist.
	Update(ctx context.Context, ch Chapter) error

	// Delete removes a chapter by ID. Returns [ErrNotFound] when absent.
	Delete(ctx context.Context, id string) error

	// Upsert creates or replaces a chapter (used by YAML library import).
	// The chapter is validated first.
	Upsert(ctx context.Context, ch Chapter) error
}
