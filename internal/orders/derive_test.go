package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestItemRecompute(t *testing.T) {
	it := Item{Product: ProductSuper, Quantity: 30, QuantityCarried: 20, PricePerUnit: dec("1000")}.Recompute()
	assert.Equal(t, 10, it.QuantityRemained)
	assert.True(t, dec("30000").Equal(it.Subtotal), it.Subtotal.String())
}

func TestItemValidate(t *testing.T) {
	ok := Item{Product: ProductBran, Quantity: 5, QuantityCarried: 5, PricePerUnit: dec("1")}
	assert.NoError(t, ok.Validate())

	tests := map[string]Item{
		"unknown product":   {Product: "Flour", Quantity: 1},
		"negative quantity": {Product: ProductBran, Quantity: -1},
		"negative carried":  {Product: ProductBran, Quantity: 1, QuantityCarried: -1},
		"carried too much":  {Product: ProductBran, Quantity: 1, QuantityCarried: 2},
		"negative price":    {Product: ProductBran, Quantity: 1, PricePerUnit: dec("-1")},
	}
	for name, it := range tests {
		assert.Error(t, it.Validate(), name)
	}
}

func TestDeriveStatus(t *testing.T) {
	done := Item{QuantityRemained: 0}
	open := Item{QuantityRemained: 10}
	assert.Equal(t, StatusCompleted, DeriveStatus([]Item{done, done}))
	assert.Equal(t, StatusPending, DeriveStatus([]Item{done, open}))
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		total, paid string
		want        PaymentStatus
	}{
		{"42000", "0", PaymentUnpaid},
		{"42000", "30000", PaymentPartiallyPaid},
		{"42000", "42000", PaymentFullyPaid},
		{"42000", "50000", PaymentFullyPaid},
		{"0", "0", PaymentUnpaid},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DerivePaymentStatus(dec(tt.total), dec(tt.paid)), "%s/%s", tt.paid, tt.total)
	}
}

func TestCanTransitionIsMonotonic(t *testing.T) {
	assert.True(t, CanTransition(PaymentUnpaid, PaymentPartiallyPaid))
	assert.True(t, CanTransition(PaymentPartiallyPaid, PaymentFullyPaid))
	assert.True(t, CanTransition(PaymentPartiallyPaid, PaymentPartiallyPaid))
	assert.False(t, CanTransition(PaymentFullyPaid, PaymentPartiallyPaid))
	assert.False(t, CanTransition(PaymentPartiallyPaid, PaymentUnpaid))
}

func TestDuplicateProduct(t *testing.T) {
	p, dup := DuplicateProduct([]Item{{Product: ProductSuper}, {Product: ProductBran}, {Product: ProductSuper}})
	assert.True(t, dup)
	assert.Equal(t, ProductSuper, p)

	_, dup = DuplicateProduct([]Item{{Product: ProductSuper}, {Product: ProductBran}})
	assert.False(t, dup)
}

func TestSummarize(t *testing.T) {
	s := Summarize(KindSale, []Order{
		{TotalAmount: dec("60000"), AmountPaid: dec("60000"), Status: StatusCompleted},
		{TotalAmount: dec("42000"), AmountPaid: dec("30000"), Status: StatusPending},
	})
	assert.Equal(t, 2, s.Orders)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 1, s.Completed)
	assert.True(t, dec("102000").Equal(s.TotalAmount))
	assert.True(t, dec("90000").Equal(s.AmountPaid))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("sales")
	assert.NoError(t, err)
	assert.Equal(t, KindSale, k)
	k, err = ParseKind("purchase")
	assert.NoError(t, err)
	assert.Equal(t, KindPurchase, k)
	_, err = ParseKind("refunds")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestSaleNumber(t *testing.T) {
	assert.Equal(t, "S001", SaleNumber(1))
	assert.Equal(t, "S042", SaleNumber(42))
	assert.Equal(t, "S1000", SaleNumber(1000))
}
