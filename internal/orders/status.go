package orders

import "fmt"

// Kind selects one of the two independent order collections.
type Kind string

const (
	KindSale     Kind = "sale"
	KindPurchase Kind = "purchase"
)

func ParseKind(s string) (Kind, error) {
	switch s {
	case "sale", "sales":
		return KindSale, nil
	case "purchase", "purchases":
		return KindPurchase, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Status is fulfillment progress.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "Unpaid"
	PaymentPartiallyPaid PaymentStatus = "Partially Paid"
	PaymentFullyPaid     PaymentStatus = "Fully Paid"
)

// payment status only ever moves forward
var paymentRank = map[PaymentStatus]int{
	PaymentUnpaid:        0,
	PaymentPartiallyPaid: 1,
	PaymentFullyPaid:     2,
}

func CanTransition(from, to PaymentStatus) bool {
	return paymentRank[to] >= paymentRank[from]
}

type PaymentTiming string

const (
	PayNow   PaymentTiming = "Now"
	PayLater PaymentTiming = "Later"
)

func (t PaymentTiming) Valid() bool { return t == PayNow || t == PayLater }

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
	MethodMobileMoney  PaymentMethod = "Mobile Money"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodBankTransfer || m == MethodMobileMoney
}

// NeedsReference is true for every method that leaves a paper trail elsewhere.
func (m PaymentMethod) NeedsReference() bool { return m != MethodCash }
