package cache

import (
	"context"
	"sync"
	"time"

	"idx-go/internal/seo"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

// MemoryStore keeps transients in process memory. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	clock   seo.Clock
}

// NewMemoryStore creates an empty store that reads the current time from clock.
func NewMemoryStore(clock seo.Clock) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		clock:   clock,
	}
}

func (m *MemoryStore) GetTransient(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && !m.clock.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (m *MemoryStore) SetTransient(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expiresAt = m.clock.Now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

func (m *MemoryStore) DeleteTransient(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
