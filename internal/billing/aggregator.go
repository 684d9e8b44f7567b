package billing

import (
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/pkg/money"
)

// BillTotals is the bill-level money composition.
type BillTotals struct {
	Subtotal       float64 `json:"subtotal"`
	GSTTotal       float64 `json:"gst_total"`
	DiscountAmount float64 `json:"discount_amount"`
	GrandTotal     float64 `json:"grand_total"`
	HasGSTItems    bool    `json:"has_gst_items"`
}

// Aggregate composes bill totals from computed lines.
//
// Whether GST is added into the grand total is decided by scanning the
// lines for a nonzero GST percentage, not by the regime flag: a
// nominally-GST bill of zero-rated items settles at the plain subtotal.
// The regime independently gates GSTIN collection and invoice layout.
//
// A negotiated amount > 0 is the settlement target and fully replaces
// the discount-derived total; discount and negotiation never combine.
// Per-line values are summed at full precision and rounded once.
func Aggregate(lines []ComputedLine, regime enum.Regime, discountPercentage, negotiatedAmount float64) (BillTotals, error) {
	if len(lines) == 0 {
		return BillTotals{}, ErrEmptyBill
	}

	var subtotal, gstTotal float64
	hasGST := false
	for _, l := range lines {
		subtotal += l.Amount
		gstTotal += l.GSTAmount
		if l.GSTPercentage > 0 {
			hasGST = true
		}
	}
	subtotal = money.Round2(subtotal)
	gstTotal = money.Round2(gstTotal)

	totals := BillTotals{
		Subtotal:    subtotal,
		GSTTotal:    gstTotal,
		HasGSTItems: hasGST,
	}

	if negotiatedAmount > 0 {
		totals.GrandTotal = money.Round2(negotiatedAmount)
		return totals, nil
	}

	totals.DiscountAmount = money.Round2(subtotal * discountPercentage / 100)
	if hasGST {
		totals.GrandTotal = money.Round2(subtotal - totals.DiscountAmount + gstTotal)
	} else {
		totals.GrandTotal = money.Round2(subtotal - totals.DiscountAmount)
	}
	return totals, nil
}

// GSTPercentageForBill returns the GST rate reported at bill level:
// the first GST-bearing line's percentage, or zero when no line
// carries GST. Kept for the persisted bill record, which stores a
// single headline rate alongside the per-line breakdown.
func GSTPercentageForBill(lines []ComputedLine) float64 {
	for _, l := range lines {
		if l.GSTPercentage > 0 {
			return l.GSTPercentage
		}
	}
	return 0
}
