package chapter_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/readmark/readmark/internal/chapter"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("valid chapter", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		ch := chapter.Chapter{ID: "chapter_1", Title: "Intro", Text: "Reading is fun."}
		if err := s.Create(ctx, ch); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
		got, err := s.Get(ctx, "chapter_1")
		if err != nil {
			t.Fatalf("Get: unexpected error: %v", err)
		}
		if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
			t.Error("Create: expected timestamps to be set")
		}
	})

	t.Run("duplicate ID returns ErrDuplicateID", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		ch := chapter.Chapter{ID: "dup", Text: "first"}
		if err := s.Create(ctx, ch); err != nil {
			t.Fatalf("Create first: unexpected error: %v", err)
		}
		err := s.Create(ctx, chapter.Chapter{ID: "dup", Text: "second"})
		if !errors.Is(err, chapter.ErrDuplicateID) {
			t.Fatalf("Create duplicate: expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("missing ID is rejected", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		if err := s.Create(ctx, chapter.Chapter{Text: "no id"}); err == nil {
			t.Fatal("Create: expected validation error for missing ID")
		}
	})

	t.Run("blank text is rejected", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		if err := s.Create(ctx, chapter.Chapter{ID: "blank", Text: "   "}); err == nil {
			t.Fatal("Create: expected validation error for blank text")
		}
	})
}

func TestGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := chapter.NewMemStore()
	if err := s.Create(ctx, chapter.Chapter{ID: "chapter_1", Title: "Intro", Text: "Some text."}); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	t.Run("existing chapter", func(t *testing.T) {
		t.Parallel()
		got, err := s.Get(ctx, "chapter_1")
		if err != nil {
			t.Fatalf("Get: unexpected error: %v", err)
		}
		if got.Title != "Intro" {
			t.Errorf("Get: expected title %q, got %q", "Intro", got.Title)
		}
	})

	t.Run("missing chapter returns ErrNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := s.Get(ctx, "nope")
		if !errors.Is(err, chapter.ErrNotFound) {
			t.Fatalf("Get: expected ErrNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := chapter.NewMemStore()
	for _, id := range []string{"chapter_3", "chapter_1", "chapter_2"} {
		if err := s.Create(ctx, chapter.Chapter{ID: id, Text: "text"}); err != nil {
			t.Fatalf("Create %q: unexpected error: %v", id, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("List: expected 3 chapters, got %d", len(got))
	}
	for i, want := range []string{"chapter_1", "chapter_2", "chapter_3"} {
		if got[i].ID != want {
			t.Errorf("List[%d]: expected ID %q, got %q", i, want, got[i].ID)
		}
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("existing chapter", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		if err := s.Create(ctx, chapter.Chapter{ID: "ch", Title: "Old", Text: "old text"}); err != nil {
			t.Fatalf("Create: unexpected error: %v", err)
		}
		if err := s.Update(ctx, chapter.Chapter{ID: "ch", Title: "New", Text: "new text"}); err != nil {
			t.Fatalf("Update: unexpected error: %v", err)
		}
		got, _ := s.Get(ctx, "ch")
		if got.Title != "New" || got.Text != "new text" {
			t.Errorf("Update: chapter not replaced, got %+v", got)
		}
		if got.CreatedAt.IsZero() {
			t.Error("Update: expected CreatedAt to be preserved")
		}
	})

	t.Run("missing chapter returns ErrNotFound", func(t *testing.T) {
		t.Parallel()
		s := chapter.NewMemStore()
		err := s.Update(ctx, chapter.Chapter{ID: "nope", Text: "text"})
		if !errors.Is(err, chapter.ErrNotFound) {
			t.Fatalf("Update: expected ErrNotFound, got %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := chapter.NewMemStore()
	if err := s.Create(ctx, chapter.Chapter{ID: "ch", Text: "text"}); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	if err := s.Delete(ctx, "ch"); err != nil {
		t.Fatalf("Delete: unexpected error: %v", err)
	}
	if _, err := s.Get(ctx, "ch"); !errors.Is(err, chapter.ErrNotFound) {
		t.Fatalf("Get after delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete(ctx, "ch"); !errors.Is(err, chapter.ErrNotFound) {
		t.Fatalf("Delete again: expected ErrNotFound, got %v", err)
	}
}

func TestUpsert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := chapter.NewMemStore()

	if err := s.Upsert(ctx, chapter.Chapter{ID: "ch", Title: "First", Text: "one"}); err != nil {
		t.Fatalf("Upsert insert: unexpected error: %v", err)
	}
	if err := s.Upsert(ctx, chapter.Chapter{ID: "ch", Title: "Second", Text: "two"}); err != nil {
		t.Fatalf("Upsert replace: unexpected error: %v", err)
	}

	got, err := s.Get(ctx, "ch")
	if err != nil {
		t.Fatalf("Get: unexpected error: %v", err)
	}
	if got.Title != "Second" {
		t.Errorf("Upsert: expected title %q, got %q", "Second", got.Title)
	}
}

func TestMemStoreConcurrent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := chapter.NewMemStore()
	if err := s.Create(ctx, chapter.Chapter{ID: "shared", Text: "text"}); err != nil {
		t.Fatalf("Create: unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := s.Get(ctx, "shared"); err != nil {
					t.Errorf("Get: unexpected error: %v", err)
					return
				}
				if _, err := s.List(ctx); err != nil {
					t.Errorf("List: unexpected error: %v", err)
					return
				}
				if err := s.Upsert(ctx, chapter.Chapter{ID: "shared", Text: "text"}); err != nil {
					t.Errorf("Upsert: unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestWordCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single word", "hello", 1},
		{"sentence", "The quick brown fox jumps.", 5},
		{"extra whitespace", "  spaced   out  words  ", 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ch := chapter.Chapter{ID: "ch", Text: tc.text}
			if got := ch.WordCount(); got != tc.want {
				t.Errorf("WordCount(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}
