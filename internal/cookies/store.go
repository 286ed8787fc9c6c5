// Package cookies persists small named values with an absolute expiry, the
// terminal counterpart of the browser cookie jar.
package cookies

import (
	"context"
	"sync"
	"time"
)

// Store reads and writes named values. An expired entry is reported as
// missing.
type Store interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string, expires time.Time) error
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// MemoryStore is a Store that lives for the process only.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Get(_ context.Context, name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.expires) {
		delete(s.entries, name)
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, name, value string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[name] = memoryEntry{value: value, expires: expires}
	return nil
}
