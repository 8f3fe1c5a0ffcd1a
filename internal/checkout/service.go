package checkout

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service struct {
	Sessions Store
	Ledger   *orders.Ledger
	Log      *zap.Logger
}

func (s *Service) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Open starts a new order wizard with a blank builder.
func (s *Service) Open(ctx context.Context, kind orders.Kind) (Session, error) {
	if kind != orders.KindSale && kind != orders.KindPurchase {
		return Session{}, fmt.Errorf("%w: %q", orders.ErrUnknownKind, kind)
	}
	sess := Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Step:      StepOrder,
		Builder:   *orders.NewBuilder(kind, s.Ledger.Today()),
		Prefill:   decimal.Zero,
		MaxAmount: decimal.Zero,
		CreatedAt: s.Ledger.Now().UTC(),
	}
	return sess, s.save(ctx, &sess)
}

// OpenPayment starts the payment step for an order already in the ledger,
// prefilled with its outstanding balance. A zero-total order stays Unpaid and
// has nothing to pay, so it is refused up front.
func (s *Service) OpenPayment(ctx context.Context, kind orders.Kind, orderID int64) (Session, error) {
	o, err := s.Ledger.Get(ctx, kind, orderID)
	if err != nil {
		return Session{}, err
	}
	if o.PaymentStatus == orders.PaymentFullyPaid {
		return Session{}, orders.ErrAlreadyPaid
	}
	if o.Outstanding().IsZero() {
		return Session{}, orders.ErrNothingOwed
	}
	sess := Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Step:      StepPayment,
		Builder:   *orders.NewBuilder(kind, s.Ledger.Today()),
		OrderID:   o.ID,
		Prefill:   orders.Prefill(&o),
		MaxAmount: o.Outstanding(),
		CreatedAt: s.Ledger.Now().UTC(),
	}
	return sess, s.save(ctx, &sess)
}

func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	return s.Sessions.Load(ctx, id)
}

func (s *Service) AddItem(ctx context.Context, id string) (Session, error) {
	return s.edit(ctx, id, func(sess *Session) error { return sess.Builder.AddItem() })
}

func (s *Service) RemoveItem(ctx context.Context, id string, index int) (Session, error) {
	return s.edit(ctx, id, func(sess *Session) error { return sess.Builder.RemoveItem(index) })
}

func (s *Service) SetItemField(ctx context.Context, id string, index int, field orders.ItemField, value string) (Session, error) {
	return s.edit(ctx, id, func(sess *Session) error { return sess.Builder.SetItemField(index, field, value) })
}

func (s *Service) SetDetails(ctx context.Context, id, orderNumber string, timing orders.PaymentTiming, date string) (Session, error) {
	return s.edit(ctx, id, func(sess *Session) error { return sess.Builder.SetDetails(orderNumber, timing, date) })
}

// SubmitOrder validates the builder. A pay-later order goes straight into the
// ledger and the session ends; a pay-now order moves the session to the payment
// step and stays out of the ledger until SubmitPayment.
func (s *Service) SubmitOrder(ctx context.Context, id string) (Session, *orders.Order, error) {
	unlock, err := s.Sessions.Lock(ctx, id)
	if err != nil {
		return Session{}, nil, err
	}
	defer unlock()
	sess, err := s.load(ctx, id, StepOrder)
	if err != nil {
		return Session{}, nil, err
	}
	draft, err := sess.Builder.Draft()
	if err != nil {
		return sess, nil, err
	}

	if draft.PaymentTiming == orders.PayLater {
		o, err := s.Ledger.Create(ctx, draft, nil)
		if err != nil {
			return sess, nil, err
		}
		s.end(ctx, sess.ID)
		return Session{}, &o, nil
	}

	sess.Pending = &draft
	sess.Step = StepPayment
	sess.Prefill = orders.Prefill(nil)
	sess.MaxAmount = draft.Outstanding()
	if err := s.save(ctx, &sess); err != nil {
		return Session{}, nil, err
	}
	return sess, nil, nil
}

// SubmitPayment finishes the wizard: the pending order is created with the
// payment applied, or the payment is added to the existing order. The session
// is locked for the ledger write and dropped before the lock is released, so a
// repeated submit finds it busy or gone.
func (s *Service) SubmitPayment(ctx context.Context, id string, in orders.PaymentInput) (orders.Order, error) {
	unlock, err := s.Sessions.Lock(ctx, id)
	if err != nil {
		return orders.Order{}, err
	}
	defer unlock()
	sess, err := s.load(ctx, id, StepPayment)
	if err != nil {
		return orders.Order{}, err
	}

	var o orders.Order
	switch {
	case sess.PayingExisting():
		o, _, err = s.Ledger.Pay(ctx, sess.Kind, sess.OrderID, in)
	case sess.Pending != nil:
		o, err = s.Ledger.Create(ctx, *sess.Pending, &in)
	default:
		return orders.Order{}, ErrWrongStep
	}
	if err != nil {
		return orders.Order{}, err
	}
	s.end(ctx, sess.ID)
	return o, nil
}

// GoBack returns a new order to the builder with everything entered so far.
func (s *Service) GoBack(ctx context.Context, id string) (Session, error) {
	sess, err := s.load(ctx, id, StepPayment)
	if err != nil {
		return Session{}, err
	}
	if sess.PayingExisting() {
		return Session{}, ErrCannotGoBack
	}
	sess.Step = StepOrder
	sess.Pending = nil
	sess.Prefill = decimal.Zero
	sess.MaxAmount = decimal.Zero
	return sess, s.save(ctx, &sess)
}

// Cancel discards the session without touching the ledger.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if _, err := s.Sessions.Load(ctx, id); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, id)
}

func (s *Service) load(ctx context.Context, id string, step Step) (Session, error) {
	sess, err := s.Sessions.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if sess.Step != step {
		return Session{}, fmt.Errorf("%w: at %s, want %s", ErrWrongStep, sess.Step, step)
	}
	return sess, nil
}

func (s *Service) edit(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	sess, err := s.load(ctx, id, StepOrder)
	if err != nil {
		return Session{}, err
	}
	if err := fn(&sess); err != nil {
		return Session{}, err
	}
	return sess, s.save(ctx, &sess)
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	sess.CanAdd = sess.Step == StepOrder && sess.Builder.CanAddItem()
	if err := s.Sessions.Save(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// end drops a finished session. The ledger write already happened, so a
// failure here only leaves a session to expire.
func (s *Service) end(ctx context.Context, id string) {
	if err := s.Sessions.Delete(ctx, id); err != nil {
		s.log().Warn("drop checkout session", zap.String("session", id), zap.Error(err))
	}
}
