package orders

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a member of the factory's fixed catalog.
type Product string

const (
	ProductSuper     Product = "Super"
	ProductOrdinaire Product = "Ordinaire"
	ProductBran      Product = "Bran"
)

// Catalog lists every product; the first entry is the default for new items.
var Catalog = []Product{ProductSuper, ProductOrdinaire, ProductBran}

func (p Product) Valid() bool {
	for _, c := range Catalog {
		if p == c {
			return true
		}
	}
	return false
}

// MoneyScale is the number of decimal places kept for money; the database
// columns are NUMERIC(18,2).
const MoneyScale = 2

// ValidMoney reports whether d is non-negative and has no more than
// MoneyScale decimal places.
func ValidMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && d.Equal(d.Round(MoneyScale))
}

type Item struct {
	Product          Product         `json:"product"`
	Quantity         int             `json:"quantity"`
	QuantityCarried  int             `json:"quantity_carried"`
	QuantityRemained int             `json:"quantity_remained"`
	PricePerUnit     decimal.Decimal `json:"price_per_unit"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type Order struct {
	ID            int64           `json:"id"`
	Kind          Kind            `json:"kind"`
	OrderNumber   string          `json:"order_number"`
	Items         []Item          `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentTiming PaymentTiming   `json:"payment_timing"`
	Status        Status          `json:"status"`
	Date          string          `json:"date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Outstanding is what is still owed; never negative.
func (o Order) Outstanding() decimal.Decimal {
	rest := o.TotalAmount.Sub(o.AmountPaid)
	if rest.IsNegative() {
		return decimal.Zero
	}
	return rest
}

// Payment is one entry of an order's payment history.
type Payment struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount_paid"`
	Method      PaymentMethod   `json:"payment_method"`
	Reference   string          `json:"reference,omitempty"`
	PaymentDate string          `json:"payment_date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Summary mirrors the stats header of the order lists.
type Summary struct {
	Kind        Kind            `json:"kind"`
	Orders      int             `json:"orders"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	AmountPaid  decimal.Decimal `json:"amount_paid"`
	Pending     int             `json:"pending"`
	Completed   int             `json:"completed"`
}

func Summarize(kind Kind, list []Order) Summary {
	s := Summary{Kind: kind, TotalAmount: decimal.Zero, AmountPaid: decimal.Zero}
	for _, o := range list {
		s.Orders++
		s.TotalAmount = s.TotalAmount.Add(o.TotalAmount)
		s.AmountPaid = s.AmountPaid.Add(o.AmountPaid)
		switch o.Status {
		case StatusPending:
			s.Pending++
		case StatusCompleted:
			s.Completed++
		}
	}
	return s
}
