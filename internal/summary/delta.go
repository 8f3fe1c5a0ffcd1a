// Package summary projects ledger events into dashboard totals kept in Redis.
package summary

import (
	"fmt"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/ariefcatur/go-factory-ledger/internal/transactions"
	"github.com/shopspring/decimal"
)

// Hash fields. Money is kept in cents so HINCRBY stays exact.
const (
	FieldOrders        = "orders"
	FieldPending       = "pending"
	FieldCompleted     = "completed"
	FieldUnpaid        = "unpaid"
	FieldPartiallyPaid = "partially_paid"
	FieldFullyPaid     = "fully_paid"
	FieldTotalCents    = "total_cents"
	FieldPaidCents     = "paid_cents"
	FieldPayments      = "payments"

	FieldTransactions = "transactions"
	FieldIncomeCents  = "income_cents"
	FieldExpenseCents = "expense_cents"
	FieldRemainCents  = "remained_cents"
)

// Delta is the set of counter increments one event causes on one hash.
type Delta struct {
	Key  string
	Incr map[string]int64
}

func (d Delta) Empty() bool { return len(d.Incr) == 0 }

func (d *Delta) add(field string, n int64) {
	if n == 0 {
		return
	}
	if d.Incr == nil {
		d.Incr = map[string]int64{}
	}
	d.Incr[field] += n
}

func cents(d decimal.Decimal) int64 { return d.Shift(2).Round(0).IntPart() }

func paymentField(s orders.PaymentStatus) string {
	switch s {
	case orders.PaymentPartiallyPaid:
		return FieldPartiallyPaid
	case orders.PaymentFullyPaid:
		return FieldFullyPaid
	default:
		return FieldUnpaid
	}
}

func statusField(s orders.Status) string {
	if s == orders.StatusCompleted {
		return FieldCompleted
	}
	return FieldPending
}

// DeltaFor maps an envelope to its increments. Unknown event types give an
// empty delta.
func DeltaFor(env events.Envelope) (Delta, error) {
	switch env.EventType {
	case events.EventOrderCreated:
		p, err := events.Decode[orders.OrderCreatedPayload](env)
		if err != nil {
			return Delta{}, err
		}
		d := Delta{Key: fmt.Sprintf(redisx.KeySummary, p.Kind)}
		d.add(FieldOrders, 1)
		d.add(statusField(p.Status), 1)
		d.add(paymentField(p.PaymentStatus), 1)
		d.add(FieldTotalCents, cents(p.TotalAmount))
		d.add(FieldPaidCents, cents(p.AmountPaid))
		if p.AmountPaid.IsPositive() {
			d.add(FieldPayments, 1)
		}
		return d, nil

	case events.EventPaymentRecorded:
		p, err := events.Decode[orders.PaymentRecordedPayload](env)
		if err != nil {
			return Delta{}, err
		}
		d := Delta{Key: fmt.Sprintf(redisx.KeySummary, p.Kind)}
		d.add(FieldPaidCents, cents(p.Amount))
		d.add(FieldPayments, 1)
		before := orders.DerivePaymentStatus(p.TotalAmount, p.AmountPaid.Sub(p.Amount))
		if before != p.PaymentStatus {
			d.add(paymentField(before), -1)
			d.add(paymentField(p.PaymentStatus), 1)
		}
		return d, nil

	case events.EventTransactionAdded, events.EventTransactionDeleted:
		t, err := events.Decode[transactions.Transaction](env)
		if err != nil {
			return Delta{}, err
		}
		sign := int64(1)
		if env.EventType == events.EventTransactionDeleted {
			sign = -1
		}
		d := Delta{Key: redisx.KeyTransactionSummary}
		d.add(FieldTransactions, sign)
		if t.Type == transactions.TypeIncome {
			d.add(FieldIncomeCents, sign*cents(t.Amount))
		} else {
			d.add(FieldExpenseCents, sign*cents(t.Amount))
		}
		d.add(FieldRemainCents, sign*cents(t.Remained))
		return d, nil
	}
	return Delta{}, nil
}
