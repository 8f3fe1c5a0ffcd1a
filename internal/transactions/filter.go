package transactions

import (
	"strings"

	"github.com/ariefcatur/go-factory-ledger/internal/listing"
)

type Filter struct {
	Search string // customer name (case-insensitive) or id substring
	Type   string // income | expense | all
	Status string // completed | pending | failed | all
}

func (f Filter) Match(t Transaction) bool {
	search := listing.ContainsFold(t.CustomerName, f.Search) || strings.Contains(t.ID, f.Search)
	return search &&
		listing.Equal(string(t.Type), f.Type) &&
		listing.Equal(string(t.Status), f.Status)
}

func (f Filter) Apply(list []Transaction) []Transaction {
	return listing.Select(list, f.Match)
}
