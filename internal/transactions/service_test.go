package transactions

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *events.Recorder) {
	rec := &events.Recorder{}
	svc := NewService(NewMemoryStore(), rec, nil, "test").
		WithClock(func() time.Time { return time.Date(2025, time.March, 25, 10, 0, 0, 0, time.UTC) })
	return svc, rec
}

func input(name string, typ Type, amount, paid int64) Input {
	return Input{
		CustomerName:  name,
		Type:          typ,
		Amount:        decimal.NewFromInt(amount),
		Paid:          decimal.NewFromInt(paid),
		PaymentMethod: MethodCash,
	}
}

func TestAddDerivesRemainedAndDefaults(t *testing.T) {
	svc, rec := newTestService()
	tx, err := svc.Add(context.Background(), input("  John Doe ", TypeIncome, 1500, 1000))
	require.NoError(t, err)

	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "John Doe", tx.CustomerName)
	assert.Equal(t, "2025-03-25", tx.Date)
	assert.Equal(t, StatusPending, tx.Status)
	assert.True(t, decimal.NewFromInt(500).Equal(tx.Remained))

	require.Equal(t, 1, rec.Len())
	assert.Equal(t, events.TopicTransactionAdded, rec.Topics[0])
	assert.Equal(t, "transaction:"+tx.ID, rec.Events[0].CorrelationID)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()
	cases := map[string]func(*Input){
		"no name":         func(in *Input) { in.CustomerName = " " },
		"bad type":        func(in *Input) { in.Type = "refund" },
		"bad method":      func(in *Input) { in.PaymentMethod = "mobile" },
		"bad status":      func(in *Input) { in.Status = "done" },
		"bad date":        func(in *Input) { in.Date = "25/03/2025" },
		"negative paid":   func(in *Input) { in.Paid = decimal.NewFromInt(-1) },
		"sub-cent amount": func(in *Input) { in.Amount = decimal.RequireFromString("10.005") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := input("Jane", TypeExpense, 10, 0)
			mutate(&in)
			_, err := svc.Add(ctx, in)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
	list, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, rec.Len())
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	john, err := svc.Add(ctx, input("John Doe", TypeIncome, 100, 100))
	require.NoError(t, err)
	pending := input("Jane Smith", TypeExpense, 50, 0)
	pending.Status = StatusPending
	jane, err := svc.Add(ctx, pending)
	require.NoError(t, err)

	got, err := svc.List(ctx, Filter{Search: "JOHN"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, john.ID, got[0].ID)

	got, err = svc.List(ctx, Filter{Search: jane.ID[:8]})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jane.ID, got[0].ID)

	got, err = svc.List(ctx, Filter{Type: "expense", Status: "all"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, jane.ID, got[0].ID)

	got, err = svc.List(ctx, Filter{Status: "failed"})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = svc.List(ctx, Filter{Type: "all"})
	require.NoError(t, err)
	assert.Equal(t, []string{john.ID, jane.ID}, ids(got))
}

func TestDeleteKeepsOthersInOrder(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()
	var added []string
	for _, name := range []string{"A", "B", "C"} {
		tx, err := svc.Add(ctx, input(name, TypeIncome, 10, 5))
		require.NoError(t, err)
		added = append(added, tx.ID)
	}

	assert.ErrorIs(t, svc.Delete(ctx, added[1], false), ErrConfirmationRequired)
	require.NoError(t, svc.Delete(ctx, added[1], true))
	assert.ErrorIs(t, svc.Delete(ctx, added[1], true), ErrNotFound)

	list, err := svc.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []string{added[0], added[2]}, ids(list))

	_, err = svc.Get(ctx, added[1])
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, events.TopicTransactionDeleted, rec.Topics[len(rec.Topics)-1])
}

func TestSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	_, err := svc.Add(ctx, input("A", TypeIncome, 1500, 1000))
	require.NoError(t, err)
	_, err = svc.Add(ctx, input("B", TypeExpense, 200, 200))
	require.NoError(t, err)

	s, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.True(t, decimal.NewFromInt(1500).Equal(s.Income))
	assert.True(t, decimal.NewFromInt(200).Equal(s.Expense))
	assert.True(t, decimal.NewFromInt(500).Equal(s.Remained))
}

func ids(list []Transaction) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}
