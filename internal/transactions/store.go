package transactions

import (
	"context"
	"sync"
	"time"
)

// Store keeps transactions in insertion order.
type Store interface {
	Insert(ctx context.Context, t Transaction) (Transaction, error)
	Get(ctx context.Context, id string) (Transaction, error)
	List(ctx context.Context) ([]Transaction, error)
	Delete(ctx context.Context, id string) (Transaction, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*Repo)(nil)
)

type MemoryStore struct {
	mu   sync.RWMutex
	list []Transaction
	Now  func() time.Time
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{Now: time.Now} }

func (m *MemoryStore) Insert(_ context.Context, t Transaction) (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.CreatedAt = m.Now().UTC()
	m.list = append(m.list, t)
	return t, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.list {
		if t.ID == id {
			return t, nil
		}
	}
	return Transaction{}, ErrNotFound
}

func (m *MemoryStore) List(_ context.Context) ([]Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Transaction{}, m.list...), nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.list {
		if t.ID == id {
			m.list = append(m.list[:i:i], m.list[i+1:]...)
			return t, nil
		}
	}
	return Transaction{}, ErrNotFound
}
