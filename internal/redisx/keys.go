package redisx

import "time"

const (
	// Checkout wizard state: checkout:{session_id} -> session JSON
	KeyCheckout = "checkout:%s"
	// Held while a wizard step writes to the ledger: checkout:{session_id}:submit
	KeyCheckoutSubmit = "checkout:%s:submit"

	// Dedup event processing: dedup:{consumer}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Dashboard totals per collection: hash summary:{kind}
	// fields: orders, pending, completed, total_amount, amount_paid
	KeySummary = "summary:%s"

	// Payment actions totals: hash summary:transactions
	KeyTransactionSummary = "summary:transactions"
)

var (
	TTLCheckout       = 30 * time.Minute
	TTLCheckoutSubmit = time.Minute
	TTLDedup          = 48 * time.Hour
)
