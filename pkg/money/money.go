package money

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used when comparing independently computed
// currency amounts (one paisa). Chained float multiplication/division
// makes exact equality unsafe.
const Epsilon = 0.01

// Round2 rounds to two decimal places using half-up semantics.
// All displayed and persisted monetary values go through this.
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// ApproxEqual reports whether two amounts are equal within Epsilon.
func ApproxEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon
}

// ToPaise converts a rupee amount to integer paise for storage.
// The value is rounded to the nearest paisa first so that 10.005
// does not truncate to 1000 paise.
func ToPaise(amount float64) int64 {
	return int64(math.Floor(amount*100 + 0.5))
}

// FromPaise converts stored paise back to a rupee amount.
func FromPaise(paise int64) float64 {
	return float64(paise) / 100
}

// Format renders an amount the way receipts and exports show it.
func Format(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// FormatINR renders an amount with the currency marker used on tax invoices.
func FormatINR(amount float64) string {
	return fmt.Sprintf("Rs. %.2f", amount)
}
