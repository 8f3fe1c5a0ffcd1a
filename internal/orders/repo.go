package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Repo is the Postgres Store. Money travels as text and is cast to numeric in
// SQL so no precision is lost on either side.
type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, kind, order_number, total_amount::text, amount_paid::text,
	payment_status, payment_timing, status, order_date::text, created_at, updated_at`

func (r *Repo) Insert(ctx context.Context, o Order, initial *Payment) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if RulesFor(o.Kind).AutoNumber {
		// counter row is locked until commit, so numbers are gap-free and unique
		var seq int64
		err = tx.QueryRow(ctx, `
			INSERT INTO order_counters(kind, last_seq) VALUES ($1, 1)
			ON CONFLICT (kind) DO UPDATE SET last_seq = order_counters.last_seq + 1
			RETURNING last_seq`, o.Kind).Scan(&seq)
		if err != nil {
			return Order{}, fmt.Errorf("next order number: %w", err)
		}
		o.OrderNumber = SaleNumber(seq)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(kind, order_number, total_amount, amount_paid, payment_status, payment_timing, status, order_date)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7, $8::date)
		RETURNING id, created_at, updated_at`,
		o.Kind, o.OrderNumber, o.TotalAmount.String(), o.AmountPaid.String(),
		o.PaymentStatus, o.PaymentTiming, o.Status, o.Date,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, position, product, quantity, quantity_carried, quantity_remained, price_per_unit, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric)`,
			o.ID, i, it.Product, it.Quantity, it.QuantityCarried, it.QuantityRemained,
			it.PricePerUnit.String(), it.Subtotal.String(),
		)
		if err != nil {
			return Order{}, err
		}
	}

	if initial != nil {
		if _, err := insertPayment(ctx, tx, o, *initial); err != nil {
			return Order{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return o, nil
}

func insertPayment(ctx context.Context, tx pgx.Tx, o Order, p Payment) (Payment, error) {
	p.OrderID, p.Kind = o.ID, o.Kind
	err := tx.QueryRow(ctx, `
		INSERT INTO payments(order_id, amount, method, reference, payment_date)
		VALUES ($1, $2::numeric, $3, $4, $5::date)
		RETURNING id, created_at`,
		o.ID, p.Amount.String(), p.Method, p.Reference, p.PaymentDate,
	).Scan(&p.ID, &p.CreatedAt)
	return p, err
}

func (r *Repo) Get(ctx context.Context, kind Kind, id int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE kind=$1 AND id=$2`, kind, id))
	if err != nil {
		return Order{}, err
	}
	items, err := r.items(ctx, r.DB, []int64{o.ID})
	if err != nil {
		return Order{}, err
	}
	o.Items = items[o.ID]
	return o, nil
}

func (r *Repo) List(ctx context.Context, kind Kind) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE kind=$1 ORDER BY id DESC`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	var ids []int64
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Order{}, nil
	}

	items, err := r.items(ctx, r.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) RecordPayment(ctx context.Context, kind Kind, id int64, p Payment, apply func(*Order) error) (Order, Payment, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, Payment{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE kind=$1 AND id=$2 FOR UPDATE`, kind, id))
	if err != nil {
		return Order{}, Payment{}, err
	}
	items, err := r.items(ctx, tx, []int64{o.ID})
	if err != nil {
		return Order{}, Payment{}, err
	}
	o.Items = items[o.ID]

	if err := apply(&o); err != nil {
		return Order{}, Payment{}, err
	}

	err = tx.QueryRow(ctx, `
		UPDATE orders SET amount_paid=$2::numeric, payment_status=$3, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`, o.ID, o.AmountPaid.String(), o.PaymentStatus).Scan(&o.UpdatedAt)
	if err != nil {
		return Order{}, Payment{}, err
	}
	p, err = insertPayment(ctx, tx, o, p)
	if err != nil {
		return Order{}, Payment{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, Payment{}, err
	}
	return o, p, nil
}

func (r *Repo) Payments(ctx context.Context, kind Kind, orderID int64) ([]Payment, error) {
	var exists bool
	if err := r.DB.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE kind=$1 AND id=$2)`, kind, orderID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	rows, err := r.DB.Query(ctx, `
		SELECT id, amount::text, method, reference, payment_date::text, created_at
		FROM payments WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Payment{}
	for rows.Next() {
		p := Payment{OrderID: orderID, Kind: kind}
		var amount string
		if err := rows.Scan(&p.ID, &amount, &p.Method, &p.Reference, &p.PaymentDate, &p.CreatedAt); err != nil {
			return nil, err
		}
		if p.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repo) items(ctx context.Context, q querier, ids []int64) (map[int64][]Item, error) {
	rows, err := q.Query(ctx, `
		SELECT order_id, product, quantity, quantity_carried, quantity_remained, price_per_unit::text, subtotal::text
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, position`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]Item, len(ids))
	for rows.Next() {
		var (
			orderID         int64
			it              Item
			price, subtotal string
		)
		if err := rows.Scan(&orderID, &it.Product, &it.Quantity, &it.QuantityCarried, &it.QuantityRemained, &price, &subtotal); err != nil {
			return nil, err
		}
		if it.PricePerUnit, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if it.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o           Order
		total, paid string
	)
	err := row.Scan(&o.ID, &o.Kind, &o.OrderNumber, &total, &paid,
		&o.PaymentStatus, &o.PaymentTiming, &o.Status, &o.Date, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return Order{}, err
	}
	if o.AmountPaid, err = decimal.NewFromString(paid); err != nil {
		return Order{}, err
	}
	return o, nil
}
