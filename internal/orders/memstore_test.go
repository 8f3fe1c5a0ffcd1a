package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	o, err := s.Insert(ctx, Order{Kind: KindPurchase, OrderNumber: "P1", Items: []Item{{Product: ProductBran, Quantity: 1}}}, nil)
	require.NoError(t, err)

	o.Items[0].Quantity = 99
	got, err := s.Get(ctx, KindPurchase, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Items[0].Quantity)
}

func TestMemoryStoreRecordPaymentIsAllOrNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	o, err := s.Insert(ctx, Order{Kind: KindSale, TotalAmount: dec("10"), AmountPaid: dec("0"), PaymentStatus: PaymentUnpaid}, nil)
	require.NoError(t, err)

	_, _, err = s.RecordPayment(ctx, KindSale, o.ID, Payment{Amount: dec("20")}, func(o *Order) error {
		return ApplyPayment(o, dec("20"), false)
	})
	assert.ErrorIs(t, err, ErrOverpayment)

	pays, err := s.Payments(ctx, KindSale, o.ID)
	require.NoError(t, err)
	assert.Empty(t, pays)

	got, err := s.Get(ctx, KindSale, o.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
}

func TestMemoryStoreUnknownKindAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_, err := s.List(ctx, "refund")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = s.Payments(ctx, KindSale, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
