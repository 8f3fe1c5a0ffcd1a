package orders

import (
	"fmt"
	"strings"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/shopspring/decimal"
)

// PaymentInput is one captured payment.
type PaymentInput struct {
	Amount      decimal.Decimal `json:"amount_paid"`
	Method      PaymentMethod   `json:"payment_method"`
	Reference   string          `json:"reference,omitempty"`
	PaymentDate string          `json:"payment_date"`
}

// Validate checks the form rules. An empty date defaults to today.
func (in *PaymentInput) Validate(today string) error {
	if !in.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, in.Method)
	}
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Method.NeedsReference() && in.Reference == "" {
		return ErrReferenceRequired
	}
	if in.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if !ValidMoney(in.Amount) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MoneyScale)
	}
	if in.PaymentDate == "" {
		in.PaymentDate = today
	}
	if !listing.ValidDate(in.PaymentDate) {
		return ErrInvalidDate
	}
	return nil
}

// ApplyPayment adds amount to o.AmountPaid and recomputes the payment status.
// Fulfillment status is left alone. Payments beyond the outstanding balance are
// rejected; a zero amount is only accepted on a brand new order (initial=true).
func ApplyPayment(o *Order, amount decimal.Decimal, initial bool) error {
	if amount.IsNegative() || (!initial && amount.IsZero()) {
		return ErrInvalidAmount
	}
	if !initial && o.PaymentStatus == PaymentFullyPaid {
		return ErrAlreadyPaid
	}
	if amount.GreaterThan(o.Outstanding()) {
		return fmt.Errorf("%w: outstanding %s, got %s", ErrOverpayment, o.Outstanding(), amount)
	}
	next := DerivePaymentStatus(o.TotalAmount, o.AmountPaid.Add(amount))
	if !CanTransition(o.PaymentStatus, next) {
		return fmt.Errorf("payment status cannot go from %s to %s", o.PaymentStatus, next)
	}
	o.AmountPaid = o.AmountPaid.Add(amount)
	o.PaymentStatus = next
	return nil
}

// Prefill is the suggested amount for the payment step: the outstanding balance
// of an existing order, zero for a new one.
func Prefill(o *Order) decimal.Decimal {
	if o == nil || o.ID == 0 {
		return decimal.Zero
	}
	return o.Outstanding()
}
