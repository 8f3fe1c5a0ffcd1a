// Package transactions is the payment actions book: free-standing income and
// expense entries that can be added, filtered and deleted.
package transactions

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("transaction not found")
	ErrInvalid              = errors.New("invalid transaction")
	ErrConfirmationRequired = errors.New("deleting a transaction must be confirmed")
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool { return t == TypeIncome || t == TypeExpense }

type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank transfer"
)

func (m Method) Valid() bool {
	return m == MethodCash || m == MethodCard || m == MethodBankTransfer
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

func (s Status) Valid() bool {
	return s == StatusCompleted || s == StatusPending || s == StatusFailed
}

type Transaction struct {
	ID            string          `json:"id"`
	Date          string          `json:"date"`
	CustomerName  string          `json:"customer_name"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          decimal.Decimal `json:"paid"`
	Refund        decimal.Decimal `json:"refund"`
	Remained      decimal.Decimal `json:"remained"`
	PaymentMethod Method          `json:"payment_method"`
	Status        Status          `json:"status"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Remained is amount minus paid. Refunds are recorded but do not change it.
func Remained(amount, paid decimal.Decimal) decimal.Decimal {
	return amount.Sub(paid)
}

// Input is the add form.
type Input struct {
	Date          string          `json:"date"`
	CustomerName  string          `json:"customer_name"`
	Type          Type            `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Paid          decimal.Decimal `json:"paid"`
	Refund        decimal.Decimal `json:"refund"`
	PaymentMethod Method          `json:"payment_method"`
	Status        Status          `json:"status"`
	Description   string          `json:"description"`
}

type Summary struct {
	Count    int             `json:"count"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Remained decimal.Decimal `json:"remained"`
}

func Summarize(list []Transaction) Summary {
	s := Summary{Count: len(list), Income: decimal.Zero, Expense: decimal.Zero, Remained: decimal.Zero}
	for _, t := range list {
		if t.Type == TypeIncome {
			s.Income = s.Income.Add(t.Amount)
		} else {
			s.Expense = s.Expense.Add(t.Amount)
		}
		s.Remained = s.Remained.Add(t.Remained)
	}
	return s
}

func trim(s string) string { return strings.TrimSpace(s) }
