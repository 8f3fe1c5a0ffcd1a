package checkout

import (
	"context"
	"slices"
	"sync"
	"time"
)

type memEntry struct {
	s       Session
	expires time.Time
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu     sync.Mutex
	m      map[string]memEntry
	locked map[string]struct{}
	ttl    time.Duration
	Now    func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{m: map[string]memEntry{}, locked: map[string]struct{}{}, ttl: ttl, Now: time.Now}
}

// clone detaches the item slices so callers never share them with the store.
func clone(s Session) Session {
	s.Builder.Items = slices.Clone(s.Builder.Items)
	if s.Pending != nil {
		p := *s.Pending
		p.Items = slices.Clone(p.Items)
		s.Pending = &p
	}
	return s
}

func (m *MemoryStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[s.ID] = memEntry{s: clone(s), expires: m.Now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Load(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.m[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if m.Now().After(e.expires) {
		delete(m.m, id)
		return Session{}, ErrSessionNotFound
	}
	return clone(e.s), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.m, id)
	return nil
}

func (m *MemoryStore) Lock(_ context.Context, id string) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, busy := m.locked[id]; busy {
		return nil, ErrSessionBusy
	}
	m.locked[id] = struct{}{}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.locked, id)
	}, nil
}
