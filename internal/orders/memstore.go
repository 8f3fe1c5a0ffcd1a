package orders

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type collection struct {
	orders        []Order // insertion order
	byID          map[int64]int
	payments      map[int64][]Payment
	nextID        int64
	nextSeq       int64
	nextPaymentID int64
}

// MemoryStore keeps both collections in process memory. State is lost on
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	cols map[Kind]*collection
	Now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cols: map[Kind]*collection{
			KindSale:     newCollection(),
			KindPurchase: newCollection(),
		},
		Now: time.Now,
	}
}

func newCollection() *collection {
	return &collection{byID: map[int64]int{}, payments: map[int64][]Payment{}}
}

func (s *MemoryStore) col(kind Kind) (*collection, error) {
	c, ok := s.cols[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return c, nil
}

func cloneOrder(o Order) Order {
	o.Items = append([]Item(nil), o.Items...)
	return o
}

func (s *MemoryStore) Insert(_ context.Context, o Order, initial *Payment) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.col(o.Kind)
	if err != nil {
		return Order{}, err
	}
	now := s.Now().UTC()
	c.nextID++
	o.ID = c.nextID
	if RulesFor(o.Kind).AutoNumber {
		c.nextSeq++
		o.OrderNumber = SaleNumber(c.nextSeq)
	}
	o.CreatedAt, o.UpdatedAt = now, now
	o = cloneOrder(o)
	c.byID[o.ID] = len(c.orders)
	c.orders = append(c.orders, o)
	if initial != nil {
		c.appendPayment(o, *initial, now)
	}
	return cloneOrder(o), nil
}

func (c *collection) appendPayment(o Order, p Payment, now time.Time) Payment {
	c.nextPaymentID++
	p.ID = c.nextPaymentID
	p.OrderID = o.ID
	p.Kind = o.Kind
	p.CreatedAt = now
	c.payments[o.ID] = append(c.payments[o.ID], p)
	return p
}

func (s *MemoryStore) Get(_ context.Context, kind Kind, id int64) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.col(kind)
	if err != nil {
		return Order{}, err
	}
	i, ok := c.byID[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(c.orders[i]), nil
}

func (s *MemoryStore) List(_ context.Context, kind Kind) ([]Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.col(kind)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(c.orders))
	for i := len(c.orders) - 1; i >= 0; i-- {
		out = append(out, cloneOrder(c.orders[i]))
	}
	return out, nil
}

func (s *MemoryStore) RecordPayment(_ context.Context, kind Kind, id int64, p Payment, apply func(*Order) error) (Order, Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.col(kind)
	if err != nil {
		return Order{}, Payment{}, err
	}
	i, ok := c.byID[id]
	if !ok {
		return Order{}, Payment{}, ErrNotFound
	}
	o := cloneOrder(c.orders[i])
	if err := apply(&o); err != nil {
		return Order{}, Payment{}, err
	}
	now := s.Now().UTC()
	o.UpdatedAt = now
	c.orders[i] = o
	p = c.appendPayment(o, p, now)
	return cloneOrder(o), p, nil
}

func (s *MemoryStore) Payments(_ context.Context, kind Kind, orderID int64) ([]Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.col(kind)
	if err != nil {
		return nil, err
	}
	if _, ok := c.byID[orderID]; !ok {
		return nil, ErrNotFound
	}
	return append([]Payment{}, c.payments[orderID]...), nil
}
