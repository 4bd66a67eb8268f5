package repository

import (
	"context"
	"sync"

	"github.com/pkoh123/carematch-ai/internal/domain/resume"
)

// MemStore is the in-memory Store implementation.
//
// Entries live in a slice to preserve insertion order for display, with a
// side index by id for O(1) patching. A single RWMutex covers both; per-id
// updates from concurrent parse goroutines never lose writes because every
// mutation happens under the write lock.
type MemStore struct {
	mu      sync.RWMutex
	entries []resume.Entry
	index   map[string]int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		index: make(map[string]int),
	}
}

// SetAll replaces the entire collection.
func (s *MemStore) SetAll(_ context.Context, entries []resume.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]resume.Entry, len(entries))
	copy(s.entries, entries)
	s.reindex()
}

// Add appends an entry to the collection.
func (s *MemStore) Add(_ context.Context, entry resume.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	s.index[entry.ID] = len(s.entries) - 1
}

// UpdateOne merges patch into the entry matching id. Unknown ids are a
// no-op: the collection's length and contents are left unchanged.
func (s *MemStore) UpdateOne(_ context.Context, id string, patch resume.Patch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries[i] = patch.Apply(s.entries[i])
	return true
}

// Get returns the entry with the given id.
func (s *MemStore) Get(_ context.Context, id string) (resume.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return resume.Entry{}, ErrNotFound
	}
	return s.entries[i], nil
}

// List returns a copy of all entries in insertion order.
func (s *MemStore) List(_ context.Context) []resume.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]resume.Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Remove deletes the entry with the given id.
func (s *MemStore) Remove(_ context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.reindex()
	return true
}

// Count returns the number of tracked entries.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops all entries.
func (s *MemStore) Clear(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	s.index = make(map[string]int)
}

// reindex rebuilds the id index. Callers hold the write lock.
func (s *MemStore) reindex() {
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[e.ID] = i
	}
}
