// Package store provides session persistence: a volatile in-process store, a
// durable JSON-file store, and a tiered store that combines the two with
// availability over durability.
package store

import (
	"context"
	"sync"

	"github.com/sheetwise/interviewd/internal/interview"
)

// MemoryStore is the volatile backend: a mutex-guarded map keyed by session
// id. Sessions are copied in and out, so callers never share the stored
// record. Update is atomic per id.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*interview.Session
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*interview.Session)}
}

// Get returns a copy of the stored session.
func (m *MemoryStore) Get(_ context.Context, id string) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, interview.ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Put stores a copy of the session.
func (m *MemoryStore) Put(_ context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.ID] = s.Clone()
	return nil
}

// Update applies mutate to the stored session under the store's exclusion.
// An error from mutate leaves the record unchanged. Returns a copy of the
// updated session.
func (m *MemoryStore) Update(_ context.Context, id string, mutate func(*interview.Session) error) (*interview.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.sessions[id]
	if !ok {
		return nil, interview.ErrSessionNotFound
	}

	// Mutate a working copy so a failed callback cannot leave a half-applied
	// record behind.
	work := current.Clone()
	if err := mutate(work); err != nil {
		return nil, err
	}

	m.sessions[id] = work
	return work.Clone(), nil
}

// Len returns the number of stored sessions, for the health endpoint.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

var _ interview.Store = (*MemoryStore)(nil)
