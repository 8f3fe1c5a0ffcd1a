package orders

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clock = func() time.Time { return time.Date(2023, time.November, 22, 9, 0, 0, 0, time.UTC) }

func newTestLedger(t *testing.T) (*Ledger, *MemoryStore, *events.Recorder) {
	t.Helper()
	store := NewMemoryStore()
	store.Now = clock
	rec := &events.Recorder{}
	return NewLedger(store, rec, nil, "test").WithClock(clock), store, rec
}

func saleDraft(t *testing.T, product Product, qty, carried int, price string) Order {
	t.Helper()
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.SetItemField(0, FieldProduct, string(product)))
	require.NoError(t, b.SetItemField(0, FieldQuantity, strconv.Itoa(qty)))
	require.NoError(t, b.SetItemField(0, FieldQuantityCarried, strconv.Itoa(carried)))
	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, price))
	o, err := b.Draft()
	require.NoError(t, err)
	return o
}

func TestCreateSaleWithImmediatePayment(t *testing.T) {
	l, _, rec := newTestLedger(t)
	ctx := context.Background()

	o, err := l.Create(ctx, saleDraft(t, ProductSuper, 50, 0, "1200"), &PaymentInput{Amount: dec("60000"), Method: MethodCash})
	require.NoError(t, err)

	assert.Equal(t, int64(1), o.ID)
	assert.Equal(t, "S001", o.OrderNumber)
	assert.True(t, dec("60000").Equal(o.TotalAmount))
	assert.True(t, dec("60000").Equal(o.AmountPaid))
	assert.Equal(t, PaymentFullyPaid, o.PaymentStatus)
	assert.Equal(t, StatusPending, o.Status, "fulfillment only follows quantity remained")

	pays, err := l.Payments(ctx, KindSale, o.ID)
	require.NoError(t, err)
	require.Len(t, pays, 1)
	assert.Equal(t, today, pays[0].PaymentDate)

	require.Equal(t, 1, rec.Len())
	assert.Equal(t, events.TopicOrderCreated, rec.Topics[0])
	assert.Equal(t, "sale:1", rec.Events[0].CorrelationID)
}

func TestCreatePurchasePayLater(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	b := NewBuilder(KindPurchase, today)
	require.NoError(t, b.SetDetails("P006", PayLater, ""))
	require.NoError(t, b.SetItemField(0, FieldQuantity, "100"))
	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "800"))
	draft, err := b.Draft()
	require.NoError(t, err)

	o, err := l.Create(ctx, draft, nil)
	require.NoError(t, err)
	assert.Equal(t, "P006", o.OrderNumber)
	assert.True(t, o.AmountPaid.IsZero())
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)

	list, err := l.List(ctx, KindPurchase, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	pays, err := l.Payments(ctx, KindPurchase, o.ID)
	require.NoError(t, err)
	assert.Empty(t, pays)
}

func TestMakePaymentOnExistingOrder(t *testing.T) {
	l, _, rec := newTestLedger(t)
	ctx := context.Background()

	draft := saleDraft(t, ProductOrdinaire, 30, 20, "1400")
	o, err := l.Create(ctx, draft, &PaymentInput{Amount: dec("30000"), Method: MethodCash})
	require.NoError(t, err)
	require.Equal(t, PaymentPartiallyPaid, o.PaymentStatus)

	paid, p, err := l.Pay(ctx, KindSale, o.ID, PaymentInput{Amount: dec("12000"), Method: MethodBankTransfer, Reference: "TRX-77"})
	require.NoError(t, err)
	assert.True(t, dec("42000").Equal(paid.AmountPaid))
	assert.Equal(t, PaymentFullyPaid, paid.PaymentStatus)
	assert.Equal(t, o.Status, paid.Status)
	assert.Equal(t, "TRX-77", p.Reference)

	_, _, err = l.Pay(ctx, KindSale, o.ID, PaymentInput{Amount: dec("1"), Method: MethodCash})
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	assert.Equal(t, events.TopicPaymentRecorded, rec.Topics[len(rec.Topics)-1])
}

func TestPayUnknownOrder(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, _, err := l.Pay(context.Background(), KindSale, 99, PaymentInput{Amount: dec("1"), Method: MethodCash})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsOverpaymentWithoutInsert(t *testing.T) {
	l, _, rec := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Create(ctx, saleDraft(t, ProductBran, 10, 0, "100"), &PaymentInput{Amount: dec("1001"), Method: MethodCash})
	assert.ErrorIs(t, err, ErrOverpayment)

	list, err := l.List(ctx, KindSale, Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, rec.Len())
}

func TestSaleNumbersAndIDsIncrease(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := l.Create(ctx, saleDraft(t, ProductSuper, 1, 1, "10"), nil)
		require.NoError(t, err)
	}
	list, err := l.List(ctx, KindSale, Filter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"S003", "S002", "S001"}, []string{list[0].OrderNumber, list[1].OrderNumber, list[2].OrderNumber})
	assert.Equal(t, int64(3), list[0].ID)
}

func TestCollectionsAreIndependent(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()
	_, err := l.Create(ctx, saleDraft(t, ProductSuper, 1, 0, "10"), nil)
	require.NoError(t, err)

	purchases, err := l.List(ctx, KindPurchase, Filter{})
	require.NoError(t, err)
	assert.Empty(t, purchases)

	_, err = l.Get(ctx, KindPurchase, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilters(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	done := saleDraft(t, ProductSuper, 5, 5, "10")
	done.Date = "2023-11-22"
	open := saleDraft(t, ProductBran, 5, 1, "10")
	open.Date = "2023-10-02"
	_, err := l.Create(ctx, done, nil)
	require.NoError(t, err)
	_, err = l.Create(ctx, open, nil)
	require.NoError(t, err)

	got, err := l.List(ctx, KindSale, Filter{Status: string(StatusCompleted)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S001", got[0].OrderNumber)

	got, err = l.List(ctx, KindSale, Filter{Date: listing.DateMonth})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S001", got[0].OrderNumber)

	got, err = l.List(ctx, KindSale, Filter{Search: "s002"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, StatusPending, got[0].Status)

	s, err := l.Summary(ctx, KindSale)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Orders)
	assert.Equal(t, 1, s.Pending)
}
