package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSplits(t *testing.T) {
	tests := []struct {
		name   string
		splits []PaymentSplit
		total  float64
	}{
		{
			name:   "single method exact",
			splits: []PaymentSplit{{Method: "Cash", Amount: 236.00}},
			total:  236.00,
		},
		{
			name:   "two methods exact",
			splits: []PaymentSplit{{Method: "Cash", Amount: 150}, {Method: "UPI", Amount: 60}},
			total:  210.00,
		},
		{
			name:   "within one paisa tolerance",
			splits: []PaymentSplit{{Method: "Card", Amount: 70.00}, {Method: "Cash", Amount: 140.01}},
			total:  210.00,
		},
		{
			name: "many small splits with float drift",
			splits: []PaymentSplit{
				{Method: "Cash", Amount: 33.33},
				{Method: "UPI", Amount: 33.33},
				{Method: "Card", Amount: 33.34},
			},
			total: 100.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, ValidateSplits(tt.splits, tt.total))
		})
	}
}

func TestValidateSplitsFailures(t *testing.T) {
	t.Run("empty split list", func(t *testing.T) {
		err := ValidateSplits(nil, 100)
		assert.ErrorIs(t, err, ErrNoPaymentMethod)
	})

	t.Run("zero amount split", func(t *testing.T) {
		err := ValidateSplits([]PaymentSplit{{Method: "Cash", Amount: 0}}, 100)
		var splitErr *InvalidSplitAmountError
		require.ErrorAs(t, err, &splitErr)
		assert.Equal(t, 0, splitErr.Index)
	})

	t.Run("missing method", func(t *testing.T) {
		err := ValidateSplits([]PaymentSplit{
			{Method: "Cash", Amount: 50},
			{Method: "", Amount: 50},
		}, 100)
		var splitErr *InvalidSplitAmountError
		require.ErrorAs(t, err, &splitErr)
		assert.Equal(t, 1, splitErr.Index)
	})

	t.Run("shortfall reported with difference", func(t *testing.T) {
		err := ValidateSplits([]PaymentSplit{
			{Method: "Cash", Amount: 150},
			{Method: "UPI", Amount: 59.50},
		}, 210.00)
		var mismatch *PaymentMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.InDelta(t, 210.00, mismatch.Expected, 1e-9)
		assert.InDelta(t, 209.50, mismatch.Actual, 1e-9)
		assert.InDelta(t, -0.50, mismatch.Difference, 1e-9)
		assert.Contains(t, err.Error(), "0.50")
		assert.Contains(t, err.Error(), "short")
	})

	t.Run("excess reported with difference", func(t *testing.T) {
		err := ValidateSplits([]PaymentSplit{{Method: "Cash", Amount: 212}}, 210.00)
		var mismatch *PaymentMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.InDelta(t, 2.00, mismatch.Difference, 1e-9)
		assert.Contains(t, err.Error(), "exceed")
	})

	t.Run("perturbation beyond tolerance always fails", func(t *testing.T) {
		base := []PaymentSplit{{Method: "Cash", Amount: 150}, {Method: "UPI", Amount: 60}}
		for _, delta := range []float64{0.02, 0.05, 1, -0.02, -5} {
			splits := []PaymentSplit{base[0], {Method: "UPI", Amount: base[1].Amount + delta}}
			err := ValidateSplits(splits, 210.00)
			var mismatch *PaymentMismatchError
			assert.ErrorAs(t, err, &mismatch, "delta %v must fail", delta)
		}
	})
}

func TestSplitTotal(t *testing.T) {
	assert.InDelta(t, 210.00, SplitTotal([]PaymentSplit{
		{Method: "Cash", Amount: 150},
		{Method: "UPI", Amount: 60},
	}), 1e-9)
	assert.Zero(t, SplitTotal(nil))
}
