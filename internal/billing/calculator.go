// Package billing implements the bill computation and reconciliation
// engine: per-line GST math, bill-level aggregation, payment split
// validation and the canonical payment snapshot encoding. Everything
// here is pure; persistence and transport live elsewhere.
package billing

import (
	"math"

	"github.com/saralbilling/saral-api/pkg/money"
)

// LineItem is one billed product line as entered at the counter.
type LineItem struct {
	ProductID     string
	Name          string
	Unit          string
	Quantity      float64
	Rate          float64
	GSTPercentage float64
	// MRP and CostPrice feed the savings display only; they are not
	// part of the tax math.
	MRP       float64
	CostPrice float64
}

// LineAmounts holds the derived money figures for a single line.
type LineAmounts struct {
	Amount    float64 // quantity x rate
	GSTAmount float64
	LineTotal float64
}

// ComputedLine pairs a line item with its derived amounts.
type ComputedLine struct {
	LineItem
	LineAmounts
}

// ComputeLine derives amount, GST amount and line total for one item.
// Quantity must be positive, rate non-negative and the GST percentage
// within [0, 100]; anything else is an InvalidLineItemError.
func ComputeLine(item LineItem) (LineAmounts, error) {
	switch {
	case math.IsNaN(item.Quantity) || math.IsInf(item.Quantity, 0):
		return LineAmounts{}, &InvalidLineItemError{Name: item.Name, Reason: "quantity is not a finite number"}
	case math.IsNaN(item.Rate) || math.IsInf(item.Rate, 0):
		return LineAmounts{}, &InvalidLineItemError{Name: item.Name, Reason: "rate is not a finite number"}
	case item.Quantity <= 0:
		return LineAmounts{}, &InvalidLineItemError{Name: item.Name, Reason: "quantity must be greater than zero"}
	case item.Rate < 0:
		return LineAmounts{}, &InvalidLineItemError{Name: item.Name, Reason: "rate cannot be negative"}
	case item.GSTPercentage < 0 || item.GSTPercentage > 100:
		return LineAmounts{}, &InvalidLineItemError{Name: item.Name, Reason: "GST percentage must be between 0 and 100"}
	}

	amount := money.Round2(item.Quantity * item.Rate)
	gstAmount := money.Round2(amount * item.GSTPercentage / 100)

	return LineAmounts{
		Amount:    amount,
		GSTAmount: gstAmount,
		LineTotal: money.Round2(amount + gstAmount),
	}, nil
}

// ComputeLines computes every line, failing on the first invalid item.
func ComputeLines(items []LineItem) ([]ComputedLine, error) {
	lines := make([]ComputedLine, 0, len(items))
	for _, item := range items {
		amounts, err := ComputeLine(item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ComputedLine{LineItem: item, LineAmounts: amounts})
	}
	return lines, nil
}

// Savings returns the MRP savings across lines (MRP minus rate, per
// unit, for lines where MRP exceeds the billed rate). Display only.
func Savings(lines []ComputedLine) float64 {
	var total float64
	for _, l := range lines {
		if l.MRP > l.Rate {
			total += (l.MRP - l.Rate) * l.Quantity
		}
	}
	return money.Round2(total)
}
