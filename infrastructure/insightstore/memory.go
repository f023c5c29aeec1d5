package insightstore

import (
	"context"
	"strings"
	"sync"

	domainInsight "github.com/hackatransparency/alfred-vision/domains/insight"
)

// MemoryStore is a process-local KVStore with an optional byte budget. It
// mirrors how a browser profile caps its storage: once the budget is hit,
// writes fail with ErrQuotaExceeded until something is deleted.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]string
	maxBytes int64
	used     int64
}

// NewMemoryStore creates a store holding at most maxBytes of key+value
// payload. maxBytes <= 0 means unlimited.
func NewMemoryStore(maxBytes int64) *MemoryStore {
	return &MemoryStore{
		entries:  make(map[string]string),
		maxBytes: maxBytes,
	}
}

func entrySize(key, value string) int64 {
	return int64(len(key) + len(value))
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + entrySize(key, value)
	if prev, ok := s.entries[key]; ok {
		next -= entrySize(key, prev)
	}
	if s.maxBytes > 0 && next > s.maxBytes {
		return domainInsight.ErrQuotaExceeded
	}

	s.entries[key] = value
	s.used = next
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.entries[key]; ok {
		s.used -= entrySize(key, prev)
		delete(s.entries, key)
	}
	return nil
}

func (s *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
