package billing

import (
	"errors"
	"fmt"
)

// Sentinel validation outcomes. These are all locally recoverable: the
// caller surfaces them and lets the user correct the draft.
var (
	// ErrEmptyBill is returned when aggregation is attempted with no line items.
	ErrEmptyBill = errors.New("bill has no items")

	// ErrNoPaymentMethod is returned when settlement is attempted with no splits.
	ErrNoPaymentMethod = errors.New("no payment method selected")
)

// InvalidLineItemError reports a line item that fails its input constraints.
type InvalidLineItemError struct {
	Name   string
	Reason string
}

func (e *InvalidLineItemError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("invalid line item: %s", e.Reason)
	}
	return fmt.Sprintf("invalid line item %q: %s", e.Name, e.Reason)
}

// InvalidSplitAmountError reports a malformed payment split entry.
type InvalidSplitAmountError struct {
	Index  int
	Method string
	Amount float64
}

func (e *InvalidSplitAmountError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("payment split %d has no payment method", e.Index+1)
	}
	return fmt.Sprintf("payment split %d (%s) has invalid amount %.2f", e.Index+1, e.Method, e.Amount)
}

// PaymentMismatchError reports that the splits do not settle the grand
// total. The message states the shortfall or excess so the user can
// correct the entry.
type PaymentMismatchError struct {
	Expected   float64
	Actual     float64
	Difference float64 // Actual - Expected
}

func (e *PaymentMismatchError) Error() string {
	if e.Difference < 0 {
		return fmt.Sprintf("payments total %.2f, short of bill total %.2f by %.2f",
			e.Actual, e.Expected, -e.Difference)
	}
	return fmt.Sprintf("payments total %.2f, exceed bill total %.2f by %.2f",
		e.Actual, e.Expected, e.Difference)
}

// IsValidationError reports whether err is one of the engine's
// validation outcomes, as opposed to an infrastructure failure.
func IsValidationError(err error) bool {
	if errors.Is(err, ErrEmptyBill) || errors.Is(err, ErrNoPaymentMethod) {
		return true
	}
	var lineErr *InvalidLineItemError
	var splitErr *InvalidSplitAmountError
	var mismatchErr *PaymentMismatchError
	return errors.As(err, &lineErr) || errors.As(err, &splitErr) || errors.As(err, &mismatchErr)
}
