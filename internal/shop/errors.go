package shop

import "fmt"

// RejectReason Distinguishes why an order request was refused. Callers branch
// on it to show the right storefront message.
type RejectReason string

const (
	// ReasonDailyLimit the customer already placed the daily maximum today.
	ReasonDailyLimit RejectReason = "daily_limit"
	// ReasonInsufficientStock at least one item exceeds available stock.
	ReasonInsufficientStock RejectReason = "insufficient_stock"
	// ReasonInvalidRequest the request itself was malformed (empty name,
	// empty cart, non-positive quantity, unknown status).
	ReasonInvalidRequest RejectReason = "invalid_request"
)

// RejectError is a recoverable validation rejection: no order was created and
// no stock was touched. Backing-store failures are returned as plain wrapped
// errors instead.
type RejectError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("order rejected (%s): %s", e.Reason, e.Message)
}

func rejectf(reason RejectReason, format string, args ...interface{}) error {
	return &RejectError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// AsReject unwraps err into a RejectError if it is one.
func AsReject(err error) (*RejectError, bool) {
	re, ok := err.(*RejectError)
	return re, ok
}
