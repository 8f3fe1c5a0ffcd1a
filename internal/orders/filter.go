package orders

import (
	"time"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
)

type Filter struct {
	Search string            // order number, case-insensitive
	Status string            // Pending | Completed | all
	Date   listing.DateRange // all | today | week | month
}

func (f Filter) Match(o Order, now time.Time) bool {
	return listing.ContainsFold(o.OrderNumber, f.Search) &&
		listing.Equal(string(o.Status), f.Status) &&
		f.Date.Match(o.Date, now)
}

// Apply returns the matching orders in their original order.
func (f Filter) Apply(list []Order, now time.Time) []Order {
	return listing.Select(list, func(o Order) bool { return f.Match(o, now) })
}
