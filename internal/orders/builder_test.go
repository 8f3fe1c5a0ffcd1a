package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2023-11-22"

func TestNewBuilderStartsBlank(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.Len(t, b.Items, 1)
	assert.Equal(t, ProductSuper, b.Items[0].Product)
	assert.Equal(t, 0, b.Items[0].Quantity)
	assert.True(t, b.Items[0].Subtotal.IsZero())
	assert.Equal(t, PayNow, b.PaymentTiming)
	assert.Equal(t, today, b.Date)
}

func TestSaleBuilderCapsItemsAtThree(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.AddItem())
	require.NoError(t, b.AddItem())
	assert.False(t, b.CanAddItem())
	assert.ErrorIs(t, b.AddItem(), ErrItemLimit)
	assert.Len(t, b.Items, 3)
}

func TestPurchaseBuilderHasNoItemCap(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	for i := 0; i < 6; i++ {
		require.NoError(t, b.AddItem())
	}
	assert.Len(t, b.Items, 7)
}

func TestRemoveItem(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	assert.ErrorIs(t, b.RemoveItem(0), ErrLastItem)

	require.NoError(t, b.AddItem())
	require.NoError(t, b.SetItemField(1, FieldProduct, "Bran"))
	assert.ErrorIs(t, b.RemoveItem(5), ErrItemIndex)
	require.NoError(t, b.RemoveItem(0))
	require.Len(t, b.Items, 1)
	assert.Equal(t, ProductBran, b.Items[0].Product)
}

func TestSetItemFieldRecomputesDerivedFields(t *testing.T) {
	b := NewBuilder(KindSale, today)

	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "1000"))
	assert.True(t, b.Items[0].Subtotal.IsZero())

	require.NoError(t, b.SetItemField(0, FieldQuantity, "30"))
	assert.Equal(t, 30, b.Items[0].QuantityRemained)
	assert.True(t, dec("30000").Equal(b.Items[0].Subtotal))

	require.NoError(t, b.SetItemField(0, FieldQuantityCarried, "20"))
	assert.Equal(t, 10, b.Items[0].QuantityRemained)
	assert.True(t, dec("30000").Equal(b.Items[0].Subtotal))

	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "1200.50"))
	assert.True(t, dec("36015").Equal(b.Items[0].Subtotal))
	assert.Equal(t, 10, b.Items[0].QuantityRemained)

	require.NoError(t, b.SetItemField(0, FieldProduct, "Ordinaire"))
	assert.Equal(t, ProductOrdinaire, b.Items[0].Product)
	assert.True(t, dec("36015").Equal(b.Items[0].Subtotal))
}

func TestSetItemFieldRejectsBadInput(t *testing.T) {
	b := NewBuilder(KindSale, today)
	assert.ErrorIs(t, b.SetItemField(0, FieldProduct, "Flour"), ErrUnknownProduct)
	assert.ErrorIs(t, b.SetItemField(0, FieldQuantity, "-4"), ErrInvalidValue)
	assert.ErrorIs(t, b.SetItemField(0, FieldQuantity, "ten"), ErrInvalidValue)
	assert.ErrorIs(t, b.SetItemField(0, FieldPricePerUnit, "-1"), ErrInvalidValue)
	assert.ErrorIs(t, b.SetItemField(0, FieldPricePerUnit, "0.004"), ErrInvalidValue)
	assert.ErrorIs(t, b.SetItemField(0, "subtotal", "5"), ErrUnknownField)
	assert.ErrorIs(t, b.SetItemField(3, FieldQuantity, "1"), ErrItemIndex)
}

func TestPriceScaleIsCents(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.SetItemField(0, FieldQuantity, "3"))
	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "12.50"))
	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "12.500"))
	assert.True(t, dec("37.5").Equal(b.Items[0].Subtotal))

	b.Items[0].PricePerUnit = dec("0.004")
	_, err := b.Draft()
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestDraftRejectsDuplicateProductsForSales(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.AddItem())
	_, err := b.Draft()
	assert.ErrorIs(t, err, ErrDuplicateProduct)
}

func TestDraftAllowsDuplicateProductsForPurchases(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	require.NoError(t, b.SetDetails("P010", "", ""))
	require.NoError(t, b.AddItem())
	_, err := b.Draft()
	assert.NoError(t, err)
}

func TestDraftComputesTotalsAndStatus(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.SetItemField(0, FieldQuantity, "30"))
	require.NoError(t, b.SetItemField(0, FieldQuantityCarried, "20"))
	require.NoError(t, b.SetItemField(0, FieldPricePerUnit, "1000"))
	require.NoError(t, b.AddItem())
	require.NoError(t, b.SetItemField(1, FieldProduct, "Bran"))
	require.NoError(t, b.SetItemField(1, FieldQuantity, "15"))
	require.NoError(t, b.SetItemField(1, FieldQuantityCarried, "15"))
	require.NoError(t, b.SetItemField(1, FieldPricePerUnit, "800"))
	require.NoError(t, b.SetDetails("ignored", PayLater, "2023-11-20"))

	o, err := b.Draft()
	require.NoError(t, err)
	assert.True(t, dec("42000").Equal(o.TotalAmount))
	assert.True(t, o.TotalAmount.Equal(Total(o.Items)))
	assert.True(t, o.AmountPaid.IsZero())
	assert.Equal(t, PaymentUnpaid, o.PaymentStatus)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, PayLater, o.PaymentTiming)
	assert.Equal(t, "2023-11-20", o.Date)
	assert.Empty(t, o.OrderNumber)
}

func TestDraftEnforcesCarriedInvariant(t *testing.T) {
	b := NewBuilder(KindSale, today)
	require.NoError(t, b.SetItemField(0, FieldQuantity, "5"))
	require.NoError(t, b.SetItemField(0, FieldQuantityCarried, "6"))
	_, err := b.Draft()
	assert.ErrorIs(t, err, ErrInvalidItem)
}

func TestDraftPurchaseNeedsOrderNumber(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	_, err := b.Draft()
	assert.ErrorIs(t, err, ErrOrderNumber)
}

func TestSetDetailsValidates(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	assert.ErrorIs(t, b.SetDetails("", "Someday", ""), ErrInvalidTiming)
	assert.ErrorIs(t, b.SetDetails("", "", "22/11/2023"), ErrInvalidDate)
}

func TestReset(t *testing.T) {
	b := NewBuilder(KindPurchase, today)
	require.NoError(t, b.SetDetails("P9", PayLater, "2023-01-01"))
	require.NoError(t, b.AddItem())
	b.Reset(today)
	assert.Len(t, b.Items, 1)
	assert.Empty(t, b.OrderNumber)
	assert.Equal(t, PayNow, b.PaymentTiming)
	assert.Equal(t, today, b.Date)
}
