package chapter

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Compile-time assertion that MemStore satisfies the Store interface.
var _ Store = (*MemStore)(nil)

// MemStore is a thread-safe, in-memory implementation of [Store].
// It is suitable for single-node use and testing.
type MemStore struct {
	mu       sync.RWMutex
	chapters map[string]Chapter

	// now allows tests to pin timestamps; defaults to time.Now.
	now func() time.Time
}

// NewMemStore returns an initialised [MemStore].
func NewMemStore() *MemStore {
	return &MemStore{
		chapters: make(map[string]Chapter),
		now:      time.Now,
	}
}

// Get implements [Store.Get].
func (s *MemStore) Get(ctx context.Context, id string) (Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.chapters[id]
	if !ok {
		return Chapter{}, ErrNotFound
	}
	return ch, nil
}

// List implements [Store.List].
func (s *MemStore) List(ctx context.Context) ([]Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Chapter, 0, len(s.chapters))
	for _, ch := range s.chapters {
		result = append(result, ch)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Create implements [Store.Create].
func (s *MemStore) Create(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.chapters[ch.ID]; exists {
		return ErrDuplicateID
	}

	now := s.now()
	ch.CreatedAt = now
	ch.UpdatedAt = now
	s.chapters[ch.ID] = ch
	return nil
}

// Update implements [Store.Update].
func (s *MemStore) Update(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.chapters[ch.ID]
	if !ok {
		return ErrNotFound
	}

	ch.CreatedAt = existing.CreatedAt
	ch.UpdatedAt = s.now()
	s.chapters[ch.ID] = ch
	return nil
}

// Delete implements [Store.Delete].
func (s *MemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chapters[id]; !ok {
		return ErrNotFound
	}

	delete(s.chapters, id)
	return nil
}

// Upsert implements [Store.Upsert].
func (s *MemStore) Upsert(ctx context.Context, ch Chapter) error {
	if err := ch.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.chapters[ch.ID]; ok {
		ch.CreatedAt = existing.CreatedAt
	} else {
		ch.CreatedAt = now
	}
	ch.UpdatedAt = now
	s.chapters[ch.ID] = ch
	return nil
}
