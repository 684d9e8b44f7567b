package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralbilling/saral-api/internal/domain/enum"
)

func mustCompute(t *testing.T, items []LineItem) []ComputedLine {
	t.Helper()
	lines, err := ComputeLines(items)
	require.NoError(t, err)
	return lines
}

func TestAggregate(t *testing.T) {
	gstItems := []LineItem{{Name: "Soap", Quantity: 2, Rate: 100, GSTPercentage: 18}}

	tests := []struct {
		name       string
		items      []LineItem
		regime     enum.Regime
		discount   float64
		negotiated float64
		want       BillTotals
	}{
		{
			name:   "gst bill no discount",
			items:  gstItems,
			regime: enum.RegimeGST,
			want: BillTotals{
				Subtotal: 200.00, GSTTotal: 36.00, DiscountAmount: 0,
				GrandTotal: 236.00, HasGSTItems: true,
			},
		},
		{
			name:     "discount applies to subtotal, gst stays on pre-discount base",
			items:    gstItems,
			regime:   enum.RegimeGST,
			discount: 10,
			want: BillTotals{
				Subtotal: 200.00, GSTTotal: 36.00, DiscountAmount: 20.00,
				GrandTotal: 216.00, HasGSTItems: true,
			},
		},
		{
			name:       "negotiated amount overrides discount entirely",
			items:      gstItems,
			regime:     enum.RegimeGST,
			discount:   10,
			negotiated: 210,
			want: BillTotals{
				Subtotal: 200.00, GSTTotal: 36.00, DiscountAmount: 0,
				GrandTotal: 210.00, HasGSTItems: true,
			},
		},
		{
			name:     "non gst bill excludes the gst term entirely",
			items:    []LineItem{{Name: "Rice", Quantity: 3, Rate: 50, GSTPercentage: 0}},
			regime:   enum.RegimeNonGST,
			discount: 5,
			want: BillTotals{
				Subtotal: 150.00, GSTTotal: 0, DiscountAmount: 7.50,
				GrandTotal: 142.50, HasGSTItems: false,
			},
		},
		{
			name: "gst regime with only zero-rated lines settles without gst",
			items: []LineItem{
				{Name: "Atta", Quantity: 2, Rate: 45, GSTPercentage: 0},
			},
			regime: enum.RegimeGST,
			want: BillTotals{
				Subtotal: 90.00, GSTTotal: 0, DiscountAmount: 0,
				GrandTotal: 90.00, HasGSTItems: false,
			},
		},
		{
			name: "mixed rates sum per line",
			items: []LineItem{
				{Name: "Soap", Quantity: 1, Rate: 100, GSTPercentage: 18},
				{Name: "Biscuit", Quantity: 2, Rate: 30, GSTPercentage: 5},
			},
			regime: enum.RegimeGST,
			want: BillTotals{
				Subtotal: 160.00, GSTTotal: 21.00, DiscountAmount: 0,
				GrandTotal: 181.00, HasGSTItems: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(mustCompute(t, tt.items), tt.regime, tt.discount, tt.negotiated)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.GSTTotal, got.GSTTotal, 1e-9)
			assert.InDelta(t, tt.want.DiscountAmount, got.DiscountAmount, 1e-9)
			assert.InDelta(t, tt.want.GrandTotal, got.GrandTotal, 1e-9)
			assert.Equal(t, tt.want.HasGSTItems, got.HasGSTItems)
		})
	}
}

func TestAggregateEmptyBill(t *testing.T) {
	_, err := Aggregate(nil, enum.RegimeGST, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyBill)
	assert.True(t, IsValidationError(err))
}

func TestAggregateOrderIndependence(t *testing.T) {
	items := []LineItem{
		{Name: "A", Quantity: 1, Rate: 33.33, GSTPercentage: 18},
		{Name: "B", Quantity: 2, Rate: 66.67, GSTPercentage: 12},
		{Name: "C", Quantity: 3, Rate: 9.99, GSTPercentage: 5},
	}
	reversed := []LineItem{items[2], items[1], items[0]}

	forward, err := Aggregate(mustCompute(t, items), enum.RegimeGST, 7.5, 0)
	require.NoError(t, err)
	backward, err := Aggregate(mustCompute(t, reversed), enum.RegimeGST, 7.5, 0)
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestGSTPercentageForBill(t *testing.T) {
	lines := mustCompute(t, []LineItem{
		{Name: "Zero", Quantity: 1, Rate: 10, GSTPercentage: 0},
		{Name: "Five", Quantity: 1, Rate: 10, GSTPercentage: 5},
		{Name: "Eighteen", Quantity: 1, Rate: 10, GSTPercentage: 18},
	})
	assert.InDelta(t, 5.0, GSTPercentageForBill(lines), 1e-9)

	zeroOnly := mustCompute(t, []LineItem{{Name: "Zero", Quantity: 1, Rate: 10}})
	assert.Zero(t, GSTPercentageForBill(zeroOnly))
}
