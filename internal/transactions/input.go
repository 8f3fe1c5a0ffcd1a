package transactions

import (
	"fmt"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/shopspring/decimal"
)

// Validate normalises in and checks every field. An empty date becomes today;
// an empty status becomes pending, as the add form defaults it.
func (in *Input) Validate(today string) error {
	in.CustomerName = trim(in.CustomerName)
	in.Description = trim(in.Description)
	if in.Date == "" {
		in.Date = today
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	switch {
	case in.CustomerName == "":
		return fmt.Errorf("%w: customer name is required", ErrInvalid)
	case !listing.ValidDate(in.Date):
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalid)
	case !in.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, in.Type)
	case !in.PaymentMethod.Valid():
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalid, in.PaymentMethod)
	case !in.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalid, in.Status)
	case in.Amount.IsNegative(), in.Paid.IsNegative(), in.Refund.IsNegative():
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalid)
	case !cents(in.Amount), !cents(in.Paid), !cents(in.Refund):
		return fmt.Errorf("%w: amounts take at most 2 decimal places", ErrInvalid)
	}
	return nil
}

// cents reports whether d fits the NUMERIC(18,2) columns without rounding.
func cents(d decimal.Decimal) bool { return d.Equal(d.Round(2)) }

// Transaction builds the entry for a validated input.
func (in Input) Transaction(id string) Transaction {
	return Transaction{
		ID:            id,
		Date:          in.Date,
		CustomerName:  in.CustomerName,
		Type:          in.Type,
		Amount:        in.Amount,
		Paid:          in.Paid,
		Refund:        in.Refund,
		Remained:      Remained(in.Amount, in.Paid),
		PaymentMethod: in.PaymentMethod,
		Status:        in.Status,
		Description:   in.Description,
	}
}
