package orders

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
	"github.com/shopspring/decimal"
)

// Rules are the per-collection constraints applied by the builder.
type Rules struct {
	MaxItems       int // 0 = unlimited
	UniqueProducts bool
	AutoNumber     bool // order number assigned by the store
}

func RulesFor(kind Kind) Rules {
	if kind == KindSale {
		return Rules{MaxItems: 3, UniqueProducts: true, AutoNumber: true}
	}
	return Rules{}
}

type ItemField string

const (
	FieldProduct         ItemField = "product"
	FieldQuantity        ItemField = "quantity"
	FieldQuantityCarried ItemField = "quantity_carried"
	FieldPricePerUnit    ItemField = "price_per_unit"
)

// Builder collects items and order metadata before submission.
type Builder struct {
	Kind          Kind          `json:"kind"`
	OrderNumber   string        `json:"order_number,omitempty"`
	Items         []Item        `json:"items"`
	PaymentTiming PaymentTiming `json:"payment_timing"`
	Date          string        `json:"date"`
}

func NewBuilder(kind Kind, today string) *Builder {
	b := &Builder{Kind: kind}
	b.Reset(today)
	return b
}

func blankItem() Item {
	return Item{Product: Catalog[0], PricePerUnit: decimal.Zero, Subtotal: decimal.Zero}
}

// Reset returns the builder to one blank item, immediate payment and today.
func (b *Builder) Reset(today string) {
	b.OrderNumber = ""
	b.Items = []Item{blankItem()}
	b.PaymentTiming = PayNow
	b.Date = today
}

func (b *Builder) Rules() Rules { return RulesFor(b.Kind) }

// CanAddItem mirrors the disabled state of the add control.
func (b *Builder) CanAddItem() bool {
	limit := b.Rules().MaxItems
	return limit == 0 || len(b.Items) < limit
}

func (b *Builder) AddItem() error {
	if !b.CanAddItem() {
		return fmt.Errorf("%w: at most %d items", ErrItemLimit, b.Rules().MaxItems)
	}
	b.Items = append(b.Items, blankItem())
	return nil
}

func (b *Builder) RemoveItem(index int) error {
	if index < 0 || index >= len(b.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	if len(b.Items) == 1 {
		return ErrLastItem
	}
	b.Items = append(b.Items[:index:index], b.Items[index+1:]...)
	return nil
}

// SetItemField parses value for field and updates the dependent derived fields:
// quantity touches remained and subtotal, quantity carried touches remained,
// price touches subtotal, product touches nothing.
func (b *Builder) SetItemField(index int, field ItemField, value string) error {
	if index < 0 || index >= len(b.Items) {
		return fmt.Errorf("%w: %d", ErrItemIndex, index)
	}
	it := b.Items[index]
	value = strings.TrimSpace(value)
	switch field {
	case FieldProduct:
		p := Product(value)
		if !p.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownProduct, value)
		}
		it.Product = p
	case FieldQuantity:
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		it.Quantity = n
		it = it.Recompute()
	case FieldQuantityCarried:
		n, err := parseCount(value)
		if err != nil {
			return err
		}
		it.QuantityCarried = n
		it.QuantityRemained = it.Quantity - it.QuantityCarried
	case FieldPricePerUnit:
		d, err := decimal.NewFromString(value)
		if err != nil || !ValidMoney(d) {
			return fmt.Errorf("%w: price %q", ErrInvalidValue, value)
		}
		it.PricePerUnit = d
		it.Subtotal = d.Mul(decimal.NewFromInt(int64(it.Quantity)))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	b.Items[index] = it
	return nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: quantity %q", ErrInvalidValue, s)
	}
	return n, nil
}

// SetDetails updates order-level metadata. Empty arguments leave the current
// value in place. The order number is ignored for auto-numbered collections.
func (b *Builder) SetDetails(orderNumber string, timing PaymentTiming, date string) error {
	if timing != "" {
		if !timing.Valid() {
			return ErrInvalidTiming
		}
		b.PaymentTiming = timing
	}
	if date != "" {
		if !listing.ValidDate(date) {
			return ErrInvalidDate
		}
		b.Date = date
	}
	if orderNumber != "" && !b.Rules().AutoNumber {
		b.OrderNumber = strings.TrimSpace(orderNumber)
	}
	return nil
}

// Draft validates the builder and produces the order to submit: total from the
// item subtotals, nothing paid, fulfillment status derived. The builder is not
// modified. For auto-numbered collections OrderNumber is left empty for the
// store to fill.
func (b *Builder) Draft() (Order, error) {
	rules := b.Rules()
	if len(b.Items) == 0 {
		return Order{}, ErrLastItem
	}
	if rules.MaxItems > 0 && len(b.Items) > rules.MaxItems {
		return Order{}, fmt.Errorf("%w: at most %d items", ErrItemLimit, rules.MaxItems)
	}
	if rules.UniqueProducts {
		if p, dup := DuplicateProduct(b.Items); dup {
			return Order{}, fmt.Errorf("%w (%s)", ErrDuplicateProduct, p)
		}
	}
	items := make([]Item, len(b.Items))
	for i, it := range b.Items {
		it = it.Recompute()
		if err := it.Validate(); err != nil {
			return Order{}, fmt.Errorf("item %d: %w", i, err)
		}
		items[i] = it
	}
	if !b.PaymentTiming.Valid() {
		return Order{}, ErrInvalidTiming
	}
	if !listing.ValidDate(b.Date) {
		return Order{}, ErrInvalidDate
	}
	o := Order{
		Kind:          b.Kind,
		Items:         items,
		TotalAmount:   Total(items),
		AmountPaid:    decimal.Zero,
		PaymentTiming: b.PaymentTiming,
		Date:          b.Date,
	}
	if !rules.AutoNumber {
		if b.OrderNumber == "" {
			return Order{}, ErrOrderNumber
		}
		o.OrderNumber = b.OrderNumber
	}
	return Normalize(o), nil
}
