package transactions

import (
	"context"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	store    Store
	pub      events.Publisher
	log      *zap.Logger
	producer string
	now      func() time.Time
}

func NewService(store Store, pub events.Publisher, log *zap.Logger, producer string) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, pub: pub, log: log, producer: producer, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Add validates in and appends it at the end of the book.
func (s *Service) Add(ctx context.Context, in Input) (Transaction, error) {
	if err := in.Validate(listing.Today(s.now())); err != nil {
		return Transaction{}, err
	}
	t, err := s.store.Insert(ctx, in.Transaction(uuid.NewString()))
	if err != nil {
		return Transaction{}, err
	}
	s.log.Info("transaction added",
		zap.String("id", t.ID),
		zap.String("type", string(t.Type)),
		zap.String("amount", t.Amount.String()),
	)
	s.publish(ctx, events.TopicTransactionAdded, events.EventTransactionAdded, t.ID, t)
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (Transaction, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Transaction, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(all), nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(all), nil
}

// Delete removes the entry for good. confirm must be true.
func (s *Service) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	t, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.log.Info("transaction deleted", zap.String("id", t.ID))
	s.publish(ctx, events.TopicTransactionDeleted, events.EventTransactionDeleted, t.ID, t)
	return nil
}

func (s *Service) publish(ctx context.Context, topic, eventType, id string, payload any) {
	env, err := events.New(eventType, s.producer, "transaction:"+id, payload)
	if err != nil {
		s.log.Error("build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	env.TraceID = events.TraceFrom(ctx)
	if err := s.pub.Publish(ctx, topic, env); err != nil {
		s.log.Warn("publish event", zap.String("topic", topic), zap.Error(err))
	}
}
