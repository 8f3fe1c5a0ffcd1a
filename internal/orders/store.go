package orders

import "context"

// Store persists both order collections. Implementations assign ids and sale
// numbers inside the same atomic step as the insert, and never reuse an id.
type Store interface {
	// Insert appends o to its collection. initial, when not nil, is recorded as
	// the first entry of the payment history.
	Insert(ctx context.Context, o Order, initial *Payment) (Order, error)
	Get(ctx context.Context, kind Kind, id int64) (Order, error)
	// List returns the collection newest first.
	List(ctx context.Context, kind Kind) ([]Order, error)
	// RecordPayment loads the order, runs apply on it and persists the result
	// together with p, all or nothing.
	RecordPayment(ctx context.Context, kind Kind, id int64, p Payment, apply func(*Order) error) (Order, Payment, error)
	Payments(ctx context.Context, kind Kind, orderID int64) ([]Payment, error)
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*Repo)(nil)
)
