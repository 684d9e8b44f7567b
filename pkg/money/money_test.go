package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"no-op on two decimals", 216.00, 216.00},
		{"half rounds up", 0.125, 0.13},
		{"just below half rounds down", 0.1249, 0.12},
		{"chained multiplication drift", 2 * 100 * 0.18, 36.00},
		{"zero", 0, 0},
		{"large amount", 999999.995, 1000000.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Round2(tt.in), 1e-9)
		})
	}
}

func TestApproxEqual(t *testing.T) {
	assert.True(t, ApproxEqual(210.00, 210.00))
	assert.True(t, ApproxEqual(210.00, 210.01))
	assert.True(t, ApproxEqual(210.01, 210.00))
	assert.False(t, ApproxEqual(210.00, 210.02))
	assert.False(t, ApproxEqual(210.00, 209.50))

	// Sums that drift by less than a paisa still compare equal.
	sum := 0.0
	for i := 0; i < 3; i++ {
		sum += 70.0003
	}
	assert.True(t, ApproxEqual(sum, 210.00))
}

func TestPaiseConversion(t *testing.T) {
	assert.Equal(t, int64(23600), ToPaise(236.00))
	assert.Equal(t, int64(1001), ToPaise(10.005))
	assert.Equal(t, int64(0), ToPaise(0))
	assert.InDelta(t, 236.00, FromPaise(23600), 1e-9)

	// Round-trip through paise is lossless for two-decimal amounts.
	for _, v := range []float64{0.01, 142.50, 216.00, 99999.99} {
		assert.InDelta(t, v, FromPaise(ToPaise(v)), 1e-9)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "142.50", Format(142.5))
	assert.Equal(t, "Rs. 236.00", FormatINR(236))
}
