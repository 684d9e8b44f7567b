package billing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeLine(t *testing.T) {
	tests := []struct {
		name       string
		item       LineItem
		wantAmount float64
		wantGST    float64
		wantTotal  float64
	}{
		{
			name:       "standard 18 percent line",
			item:       LineItem{Name: "Soap", Quantity: 2, Rate: 100, GSTPercentage: 18},
			wantAmount: 200.00,
			wantGST:    36.00,
			wantTotal:  236.00,
		},
		{
			name:       "zero rated line",
			item:       LineItem{Name: "Rice", Quantity: 3, Rate: 50, GSTPercentage: 0},
			wantAmount: 150.00,
			wantGST:    0.00,
			wantTotal:  150.00,
		},
		{
			name:       "fractional quantity",
			item:       LineItem{Name: "Oil", Unit: "kg", Quantity: 1.5, Rate: 90.50, GSTPercentage: 5},
			wantAmount: 135.75,
			wantGST:    6.79,
			wantTotal:  142.54,
		},
		{
			name:       "free item",
			item:       LineItem{Name: "Sample", Quantity: 1, Rate: 0, GSTPercentage: 12},
			wantAmount: 0,
			wantGST:    0,
			wantTotal:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeLine(tt.item)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantAmount, got.Amount, 1e-9)
			assert.InDelta(t, tt.wantGST, got.GSTAmount, 1e-9)
			assert.InDelta(t, tt.wantTotal, got.LineTotal, 1e-9)
			// The line total is always the exact sum of its parts.
			assert.InDelta(t, got.Amount+got.GSTAmount, got.LineTotal, 1e-9)
		})
	}
}

func TestComputeLineRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		item LineItem
	}{
		{"zero quantity", LineItem{Name: "X", Quantity: 0, Rate: 10}},
		{"negative quantity", LineItem{Name: "X", Quantity: -1, Rate: 10}},
		{"negative rate", LineItem{Name: "X", Quantity: 1, Rate: -5}},
		{"gst over 100", LineItem{Name: "X", Quantity: 1, Rate: 10, GSTPercentage: 120}},
		{"negative gst", LineItem{Name: "X", Quantity: 1, Rate: 10, GSTPercentage: -1}},
		{"NaN quantity", LineItem{Name: "X", Quantity: math.NaN(), Rate: 10}},
		{"infinite rate", LineItem{Name: "X", Quantity: 1, Rate: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeLine(tt.item)
			require.Error(t, err)
			var lineErr *InvalidLineItemError
			assert.ErrorAs(t, err, &lineErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestComputeLinesFailsFast(t *testing.T) {
	items := []LineItem{
		{Name: "Good", Quantity: 1, Rate: 10, GSTPercentage: 5},
		{Name: "Bad", Quantity: -2, Rate: 10},
	}
	lines, err := ComputeLines(items)
	require.Error(t, err)
	assert.Nil(t, lines)
	assert.Contains(t, err.Error(), "Bad")
}

func TestSavings(t *testing.T) {
	lines, err := ComputeLines([]LineItem{
		{Name: "Soap", Quantity: 2, Rate: 90, MRP: 100, GSTPercentage: 18},
		{Name: "Rice", Quantity: 1, Rate: 50, MRP: 50},
		{Name: "NoMRP", Quantity: 3, Rate: 20},
	})
	require.NoError(t, err)
	// Only the soap line saves anything: (100-90) x 2.
	assert.InDelta(t, 20.00, Savings(lines), 1e-9)
}
