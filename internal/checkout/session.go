// Package checkout runs the two-step order wizard: the order builder, then an
// optional payment step. Sessions hold the in-progress form state between
// requests; nothing reaches the ledger until a step submits.
package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/shopspring/decimal"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrWrongStep       = errors.New("checkout session is on another step")
	ErrCannotGoBack    = errors.New("going back is only possible for new orders")
	ErrSessionBusy     = errors.New("checkout session is already being submitted")
)

type Step string

const (
	StepOrder   Step = "order"
	StepPayment Step = "payment"
)

type Session struct {
	ID      string         `json:"id"`
	Kind    orders.Kind    `json:"kind"`
	Step    Step           `json:"step"`
	Builder orders.Builder `json:"builder"`
	// Pending is the submitted order waiting for its immediate payment.
	Pending *orders.Order `json:"pending,omitempty"`
	// OrderID is set when paying an order that is already in the ledger.
	OrderID int64 `json:"order_id,omitempty"`
	// Prefill is the suggested amount, MaxAmount the advisory upper bound.
	Prefill   decimal.Decimal `json:"prefill"`
	MaxAmount decimal.Decimal `json:"max_amount"`
	CanAdd    bool            `json:"can_add_item"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s Session) PayingExisting() bool { return s.OrderID != 0 }

// Store keeps sessions for a limited time. Delete of a missing id is not an error.
type Store interface {
	Save(ctx context.Context, s Session) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
	// Lock gives one caller at a time the right to submit the session. A
	// second caller gets ErrSessionBusy until unlock runs.
	Lock(ctx context.Context, id string) (unlock func(), err error)
}
