package orders

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Derived fields are only ever produced by the functions in this file. Every
// mutation path (builder edits, submission, store writes, payments) goes
// through them so they cannot drift from their sources.

// Recompute returns it with QuantityRemained and Subtotal derived from the
// source fields.
func (it Item) Recompute() Item {
	it.QuantityRemained = it.Quantity - it.QuantityCarried
	it.Subtotal = it.PricePerUnit.Mul(decimal.NewFromInt(int64(it.Quantity)))
	return it
}

// Validate checks the per-item invariants.
func (it Item) Validate() error {
	switch {
	case !it.Product.Valid():
		return fmt.Errorf("%w: %q", ErrUnknownProduct, it.Product)
	case it.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidItem)
	case it.QuantityCarried < 0:
		return fmt.Errorf("%w: quantity carried must not be negative", ErrInvalidItem)
	case it.QuantityCarried > it.Quantity:
		return fmt.Errorf("%w: quantity carried %d exceeds quantity %d", ErrInvalidItem, it.QuantityCarried, it.Quantity)
	case it.PricePerUnit.IsNegative():
		return fmt.Errorf("%w: price per unit must not be negative", ErrInvalidItem)
	case !ValidMoney(it.PricePerUnit):
		return fmt.Errorf("%w: price per unit has more than %d decimal places", ErrInvalidItem, MoneyScale)
	}
	return nil
}

// Total sums item subtotals.
func Total(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Subtotal)
	}
	return sum
}

// DeriveStatus is Completed once every item is fully carried.
func DeriveStatus(items []Item) Status {
	for _, it := range items {
		if it.QuantityRemained != 0 {
			return StatusPending
		}
	}
	return StatusCompleted
}

func DerivePaymentStatus(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.IsZero():
		return PaymentUnpaid
	case paid.LessThan(total):
		return PaymentPartiallyPaid
	default:
		return PaymentFullyPaid
	}
}

// Normalize recomputes every item and the payment status. TotalAmount is left
// untouched once set.
func Normalize(o Order) Order {
	items := make([]Item, len(o.Items))
	for i, it := range o.Items {
		items[i] = it.Recompute()
	}
	o.Items = items
	o.Status = DeriveStatus(items)
	o.PaymentStatus = DerivePaymentStatus(o.TotalAmount, o.AmountPaid)
	return o
}

// DuplicateProduct returns the first product that appears twice.
func DuplicateProduct(items []Item) (Product, bool) {
	seen := make(map[Product]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.Product]; ok {
			return it.Product, true
		}
		seen[it.Product] = struct{}{}
	}
	return "", false
}
