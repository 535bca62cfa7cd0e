package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps entries in a map for the life of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		entries: make(map[string]*Entry),
		now:     o.now,
	}
}

// Get returns a copy of the entry for key.
func (s *MemoryStore) Get(ctx context.Context, key Key) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, false, ErrClosed
	}

	entry, ok := s.entries[key.Hash()]
	if !ok {
		return nil, false, nil
	}
	entry.LastUsed = s.now()
	entry.Hits++

	entryCopy := *entry
	return &entryCopy, true, nil
}

// Put stores output for key.
func (s *MemoryStore) Put(ctx context.Context, key Key, output string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	hash := key.Hash()
	now := s.now()
	entry, ok := s.entries[hash]
	if !ok {
		entry = &Entry{
			ID:         uuid.NewString(),
			Hash:       hash,
			Expression: key.Expression,
			Options:    key.Options,
			CreatedAt:  now,
		}
		s.entries[hash] = entry
	}
	entry.Output = output
	entry.LastUsed = now

	entryCopy := *entry
	return &entryCopy, nil
}

// Stats summarizes the store.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Stats{}, ErrClosed
	}

	stats := Stats{Backend: "memory", Entries: int64(len(s.entries))}
	for _, entry := range s.entries {
		stats.Hits += entry.Hits
		if stats.Oldest.IsZero() || entry.CreatedAt.Before(stats.Oldest) {
			stats.Oldest = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.Newest) {
			stats.Newest = entry.CreatedAt
		}
	}
	return stats, nil
}

// Prune removes cold entries. See Store.Prune.
func (s *MemoryStore) Prune(ctx context.Context, olderThan time.Time, maxEntries int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	var removed int64
	if !olderThan.IsZero() {
		for hash, entry := range s.entries {
			if entry.LastUsed.Before(olderThan) {
				delete(s.entries, hash)
				removed++
			}
		}
	}

	if maxEntries > 0 && len(s.entries) > maxEntries {
		byUse := make([]*Entry, 0, len(s.entries))
		for _, entry := range s.entries {
			byUse = append(byUse, entry)
		}
		slices.SortFunc(byUse, func(a, b *Entry) int {
			if c := b.LastUsed.Compare(a.LastUsed); c != 0 {
				return c
			}
			return b.CreatedAt.Compare(a.CreatedAt)
		})
		for _, entry := range byUse[maxEntries:] {
			delete(s.entries, entry.Hash)
			removed++
		}
	}

	return removed, nil
}

// Clear removes every entry.
func (s *MemoryStore) Clear(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	n := int64(len(s.entries))
	clear(s.entries)
	return n, nil
}

// Ping fails only after Close.
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrClosed
	}
	return nil
}

// Close drops all entries.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.entries = nil
	return nil
}
