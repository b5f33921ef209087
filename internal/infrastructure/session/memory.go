// Package session implements conversation-turn storage keyed by session id.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/snackwise/backend/internal/domain"
)

// MemoryStore holds session histories in process memory. Entries are
// evicted by TTL or when the store exceeds its capacity, so the session
// map cannot grow without bound. Appends are serialized per session id.
type MemoryStore struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *history]
}

type history struct {
	mu    sync.Mutex
	turns []domain.Turn
}

// NewMemoryStore creates a memory-backed store capped at maxEntries
// sessions with the given idle TTL.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	return &MemoryStore{
		sessions: expirable.NewLRU[string, *history](maxEntries, nil, ttl),
	}
}

// Append adds a turn to the session, creating the session on first use.
func (m *MemoryStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	m.mu.Lock()
	h, ok := m.sessions.Get(sessionID)
	if !ok {
		h = &history{}
		m.sessions.Add(sessionID, h)
	}
	m.mu.Unlock()

	h.mu.Lock()
	h.turns = append(h.turns, turn)
	h.mu.Unlock()
	return nil
}

// History returns a copy of the session's ordered turns, or
// ErrSessionNotFound for an unseen or expired session id.
func (m *MemoryStore) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	m.mu.Lock()
	h, ok := m.sessions.Get(sessionID)
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Turn, len(h.turns))
	copy(out, h.turns)
	return out, nil
}

// Len returns the number of live sessions (for tests and monitoring).
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions.Len()
}
