package session

import (
	"context"
	"sync"
	"time"
)

// TokenKey is the single well-known key the credential is stored under.
const TokenKey = "token"

// Store persists session values keyed by session id.
type Store interface {
	// Get returns the stored token, or "" when the session holds none.
	Get(ctx context.Context, id string) (string, error)
	// Set stores the token and (re)starts the session TTL.
	Set(ctx context.Context, id, token string, ttl time.Duration) error
	// Delete removes the token.
	Delete(ctx context.Context, id string) error
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	token   string
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Used when no Redis is
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, id string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return "", nil
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, id)
		return "", nil
	}
	return e.token, nil
}

func (m *MemoryStore) Set(_ context.Context, id, token string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memoryEntry{token: token}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[id] = e
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
