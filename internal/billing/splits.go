package billing

import (
	"github.com/saralbilling/saral-api/pkg/money"
)

// PaymentSplit is one payment-method contribution toward settling a bill.
type PaymentSplit struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// ValidateSplits checks that the splits exactly settle the grand total
// (within one paisa). It runs on every split change for live feedback
// and again immediately before a bill is committed; a failure blocks
// the write, so no partial settlement ever reaches storage.
//
// The splits are not normalized or redistributed: persistence keeps
// exactly what the cashier entered.
func ValidateSplits(splits []PaymentSplit, grandTotal float64) error {
	if len(splits) == 0 {
		return ErrNoPaymentMethod
	}

	var sum float64
	for i, s := range splits {
		if s.Method == "" || s.Amount <= 0 {
			return &InvalidSplitAmountError{Index: i, Method: s.Method, Amount: s.Amount}
		}
		sum += s.Amount
	}

	splitTotal := money.Round2(sum)
	if !money.ApproxEqual(splitTotal, grandTotal) {
		return &PaymentMismatchError{
			Expected:   grandTotal,
			Actual:     splitTotal,
			Difference: money.Round2(splitTotal - grandTotal),
		}
	}
	return nil
}

// SplitTotal sums the split amounts, rounded once.
func SplitTotal(splits []PaymentSplit) float64 {
	var sum float64
	for _, s := range splits {
		sum += s.Amount
	}
	return money.Round2(sum)
}
