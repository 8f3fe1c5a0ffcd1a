package summary

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ariefcatur/go-factory-ledger/internal/orders"
	"github.com/ariefcatur/go-factory-ledger/internal/redisx"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type Collection struct {
	Orders        int64           `json:"orders"`
	Pending       int64           `json:"pending"`
	Completed     int64           `json:"completed"`
	Unpaid        int64           `json:"unpaid"`
	PartiallyPaid int64           `json:"partially_paid"`
	FullyPaid     int64           `json:"fully_paid"`
	Payments      int64           `json:"payments"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

type Transactions struct {
	Count    int64           `json:"count"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Remained decimal.Decimal `json:"remained"`
}

type Dashboard struct {
	Sales        Collection   `json:"sales"`
	Purchases    Collection   `json:"purchases"`
	Transactions Transactions `json:"transactions"`
}

// Reader serves the projected totals. They trail the ledger by the consumer lag.
type Reader struct {
	Redis *redis.Client
}

func (r *Reader) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		out Dashboard
		err error
	)
	if out.Sales, err = r.collection(ctx, orders.KindSale); err != nil {
		return Dashboard{}, err
	}
	if out.Purchases, err = r.collection(ctx, orders.KindPurchase); err != nil {
		return Dashboard{}, err
	}
	h, err := r.Redis.HGetAll(ctx, redisx.KeyTransactionSummary).Result()
	if err != nil {
		return Dashboard{}, err
	}
	out.Transactions = TransactionsFrom(h)
	return out, nil
}

func (r *Reader) collection(ctx context.Context, kind orders.Kind) (Collection, error) {
	h, err := r.Redis.HGetAll(ctx, fmt.Sprintf(redisx.KeySummary, kind)).Result()
	if err != nil {
		return Collection{}, err
	}
	return CollectionFrom(h), nil
}

// CollectionFrom reads a summary hash; missing or malformed fields count as 0.
func CollectionFrom(h map[string]string) Collection {
	c := Collection{
		Orders:        num(h, FieldOrders),
		Pending:       num(h, FieldPending),
		Completed:     num(h, FieldCompleted),
		Unpaid:        num(h, FieldUnpaid),
		PartiallyPaid: num(h, FieldPartiallyPaid),
		FullyPaid:     num(h, FieldFullyPaid),
		Payments:      num(h, FieldPayments),
		TotalAmount:   money(h, FieldTotalCents),
		AmountPaid:    money(h, FieldPaidCents),
	}
	c.Outstanding = c.TotalAmount.Sub(c.AmountPaid)
	return c
}

func TransactionsFrom(h map[string]string) Transactions {
	return Transactions{
		Count:    num(h, FieldTransactions),
		Income:   money(h, FieldIncomeCents),
		Expense:  money(h, FieldExpenseCents),
		Remained: money(h, FieldRemainCents),
	}
}

func num(h map[string]string, field string) int64 {
	n, _ := strconv.ParseInt(h[field], 10, 64)
	return n
}

func money(h map[string]string, field string) decimal.Decimal {
	return decimal.New(num(h, field), -2)
}
