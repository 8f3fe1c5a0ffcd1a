package transactions

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB *pgxpool.Pool }

const columns = `id::text, tx_date::text, customer_name, type, amount::text, paid::text, refund::text,
	remained::text, payment_method, status, description, created_at`

func (r *Repo) Insert(ctx context.Context, t Transaction) (Transaction, error) {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO transactions(id, tx_date, customer_name, type, amount, paid, refund, remained, payment_method, status, description)
		VALUES ($1::uuid, $2::date, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9, $10, $11)
		RETURNING created_at`,
		t.ID, t.Date, t.CustomerName, t.Type, t.Amount.String(), t.Paid.String(), t.Refund.String(),
		t.Remained.String(), t.PaymentMethod, t.Status, t.Description,
	).Scan(&t.CreatedAt)
	return t, err
}

func (r *Repo) Get(ctx context.Context, id string) (Transaction, error) {
	return scan(r.DB.QueryRow(ctx, `SELECT `+columns+` FROM transactions WHERE id::text=$1`, id))
}

func (r *Repo) List(ctx context.Context) ([]Transaction, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+columns+` FROM transactions ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Transaction{}
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id string) (Transaction, error) {
	return scan(r.DB.QueryRow(ctx, `DELETE FROM transactions WHERE id::text=$1 RETURNING `+columns, id))
}

func scan(row pgx.Row) (Transaction, error) {
	var (
		t                              Transaction
		amount, paid, refund, remained string
	)
	err := row.Scan(&t.ID, &t.Date, &t.CustomerName, &t.Type, &amount, &paid, &refund,
		&remained, &t.PaymentMethod, &t.Status, &t.Description, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, ErrNotFound
	}
	if err != nil {
		return Transaction{}, err
	}
	for _, f := range []struct {
		src string
		dst *decimal.Decimal
	}{{amount, &t.Amount}, {paid, &t.Paid}, {refund, &t.Refund}, {remained, &t.Remained}} {
		if *f.dst, err = decimal.NewFromString(f.src); err != nil {
			return Transaction{}, err
		}
	}
	return t, nil
}
