package orders

import "errors"

var (
	ErrUnknownKind       = errors.New("unknown order kind")
	ErrNotFound          = errors.New("order not found")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownField      = errors.New("field cannot be set")
	ErrInvalidValue      = errors.New("invalid value")
	ErrItemIndex         = errors.New("item index out of range")
	ErrItemLimit         = errors.New("item limit reached")
	ErrLastItem          = errors.New("an order needs at least one item")
	ErrDuplicateProduct  = errors.New("each product can only be added once to an order, remove duplicates")
	ErrInvalidItem       = errors.New("invalid item")
	ErrOrderNumber       = errors.New("order number is required")
	ErrInvalidDate       = errors.New("date must be YYYY-MM-DD")
	ErrInvalidTiming     = errors.New("payment timing must be Now or Later")
	ErrInvalidMethod     = errors.New("unknown payment method")
	ErrReferenceRequired = errors.New("payment reference is required for non-cash payments")
	ErrInvalidAmount     = errors.New("payment amount must be positive")
	ErrOverpayment       = errors.New("payment exceeds outstanding balance")
	ErrAlreadyPaid       = errors.New("order is already fully paid")
	ErrNothingOwed       = errors.New("order has no outstanding balance")
)

// IsValidation reports whether err is caused by bad input rather than state.
func IsValidation(err error) bool {
	for _, e := range []error{
		ErrUnknownKind, ErrUnknownProduct, ErrUnknownField, ErrInvalidValue,
		ErrItemIndex, ErrItemLimit, ErrLastItem, ErrDuplicateProduct, ErrInvalidItem,
		ErrOrderNumber, ErrInvalidDate, ErrInvalidTiming, ErrInvalidMethod,
		ErrReferenceRequired, ErrInvalidAmount, ErrOverpayment,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
