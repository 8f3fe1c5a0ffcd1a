package orders

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderCreatedPayload struct {
	OrderID       int64           `json:"order_id"`
	Kind          Kind            `json:"kind"`
	OrderNumber   string          `json:"order_number"`
	Items         int             `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentTiming PaymentTiming   `json:"payment_timing"`
	Status        Status          `json:"status"`
	Date          string          `json:"date"`
}

type PaymentRecordedPayload struct {
	OrderID       int64           `json:"order_id"`
	Kind          Kind            `json:"kind"`
	PaymentID     int64           `json:"payment_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        PaymentMethod   `json:"payment_method"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

// Ledger owns the order collections: creation, payments, lookups and filtered
// listings. Every write is followed by an event on the bus.
type Ledger struct {
	store    Store
	pub      events.Publisher
	log      *zap.Logger
	producer string
	now      func() time.Time
}

func NewLedger(store Store, pub events.Publisher, log *zap.Logger, producer string) *Ledger {
	if pub == nil {
		pub = events.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, pub: pub, log: log, producer: producer, now: time.Now}
}

// WithClock replaces the time source used for filters and default dates.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

func (l *Ledger) Now() time.Time { return l.now() }

func (l *Ledger) Today() string { return listing.Today(l.now()) }

// Create appends draft to its collection. With pay == nil the order goes in
// unpaid; otherwise pay is applied first and becomes the first history entry.
func (l *Ledger) Create(ctx context.Context, draft Order, pay *PaymentInput) (Order, error) {
	o := Normalize(draft)
	o.TotalAmount = Total(o.Items)
	o.AmountPaid = decimal.Zero
	o.PaymentStatus = PaymentUnpaid

	var initial *Payment
	if pay != nil {
		if err := pay.Validate(l.Today()); err != nil {
			return Order{}, err
		}
		if err := ApplyPayment(&o, pay.Amount, true); err != nil {
			return Order{}, err
		}
		if pay.Amount.IsPositive() {
			initial = &Payment{Amount: pay.Amount, Method: pay.Method, Reference: pay.Reference, PaymentDate: pay.PaymentDate}
		}
	}

	saved, err := l.store.Insert(ctx, o, initial)
	if err != nil {
		return Order{}, fmt.Errorf("insert %s: %w", o.Kind, err)
	}
	l.log.Info("order created",
		zap.String("kind", string(saved.Kind)),
		zap.Int64("id", saved.ID),
		zap.String("number", saved.OrderNumber),
		zap.String("total", saved.TotalAmount.String()),
		zap.String("payment_status", string(saved.PaymentStatus)),
	)
	l.publish(ctx, events.TopicOrderCreated, events.EventOrderCreated, saved, OrderCreatedPayload{
		OrderID:       saved.ID,
		Kind:          saved.Kind,
		OrderNumber:   saved.OrderNumber,
		Items:         len(saved.Items),
		TotalAmount:   saved.TotalAmount,
		AmountPaid:    saved.AmountPaid,
		PaymentStatus: saved.PaymentStatus,
		PaymentTiming: saved.PaymentTiming,
		Status:        saved.Status,
		Date:          saved.Date,
	})
	return saved, nil
}

// Pay applies a follow-up payment to an existing order.
func (l *Ledger) Pay(ctx context.Context, kind Kind, id int64, in PaymentInput) (Order, Payment, error) {
	if err := in.Validate(l.Today()); err != nil {
		return Order{}, Payment{}, err
	}
	p := Payment{Amount: in.Amount, Method: in.Method, Reference: in.Reference, PaymentDate: in.PaymentDate}
	o, p, err := l.store.RecordPayment(ctx, kind, id, p, func(o *Order) error {
		return ApplyPayment(o, in.Amount, false)
	})
	if err != nil {
		return Order{}, Payment{}, err
	}
	l.log.Info("payment recorded",
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("amount", p.Amount.String()),
		zap.String("method", string(p.Method)),
		zap.String("payment_status", string(o.PaymentStatus)),
	)
	l.publish(ctx, events.TopicPaymentRecorded, events.EventPaymentRecorded, o, PaymentRecordedPayload{
		OrderID:       o.ID,
		Kind:          kind,
		PaymentID:     p.ID,
		Amount:        p.Amount,
		Method:        p.Method,
		AmountPaid:    o.AmountPaid,
		TotalAmount:   o.TotalAmount,
		PaymentStatus: o.PaymentStatus,
	})
	return o, p, nil
}

func (l *Ledger) Get(ctx context.Context, kind Kind, id int64) (Order, error) {
	return l.store.Get(ctx, kind, id)
}

// List returns the filtered collection, newest first.
func (l *Ledger) List(ctx context.Context, kind Kind, f Filter) ([]Order, error) {
	all, err := l.store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	return f.Apply(all, l.now()), nil
}

func (l *Ledger) Payments(ctx context.Context, kind Kind, id int64) ([]Payment, error) {
	return l.store.Payments(ctx, kind, id)
}

func (l *Ledger) Summary(ctx context.Context, kind Kind) (Summary, error) {
	all, err := l.store.List(ctx, kind)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(kind, all), nil
}

// EntityKey identifies an order across both collections, e.g. "sale:12".
func EntityKey(kind Kind, id int64) string {
	return string(kind) + ":" + strconv.FormatInt(id, 10)
}

func (l *Ledger) publish(ctx context.Context, topic, eventType string, o Order, payload any) {
	env, err := events.New(eventType, l.producer, EntityKey(o.Kind, o.ID), payload)
	if err != nil {
		l.log.Error("build event", zap.String("type", eventType), zap.Error(err))
		return
	}
	env.TraceID = events.TraceFrom(ctx)
	if err := l.pub.Publish(ctx, topic, env); err != nil {
		l.log.Warn("publish event", zap.String("topic", topic), zap.Error(err))
	}
}
