// internal/store/memory.go
//
// In-memory session store.
// Sessions live only as long as the process. Completed results are written
// to the daily results table.
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get and Delete return ErrNotFound for unknown IDs.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/brainburst/apps/go-server/internal/session"
)

var ErrNotFound = errors.New("session not found")

// Store keeps live sessions.
type Store interface {
	Save(ctx context.Context, s *session.Session) error
	Get(ctx context.Context, id string) (*session.Session, error)
	Delete(ctx context.Context, id string) error
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}
