package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

func splitBill(splits ...billing.PaymentSplit) entity.Bill {
	encoded, _ := billing.EncodePaymentSplits(splits)
	var total float64
	for _, s := range splits {
		total += s.Amount
	}
	return entity.Bill{
		PaymentType: encoded,
		TotalAmount: int64(total * 100),
	}
}

func TestGroupSplitsByMethod(t *testing.T) {
	tests := []struct {
		name  string
		bills []entity.Bill
		want  []PaymentMethodBreakup
	}{
		{
			name:  "no bills",
			bills: nil,
			want:  []PaymentMethodBreakup{},
		},
		{
			name: "single method",
			bills: []entity.Bill{
				splitBill(billing.PaymentSplit{Method: "Cash", Amount: 236}),
			},
			want: []PaymentMethodBreakup{
				{Method: "Cash", Total: 236, BillCount: 1},
			},
		},
		{
			name: "split bill counts once per method",
			bills: []entity.Bill{
				splitBill(
					billing.PaymentSplit{Method: "Cash", Amount: 100},
					billing.PaymentSplit{Method: "UPI", Amount: 136},
				),
				splitBill(billing.PaymentSplit{Method: "UPI", Amount: 500}),
			},
			want: []PaymentMethodBreakup{
				{Method: "Cash", Total: 100, BillCount: 1},
				{Method: "UPI", Total: 636, BillCount: 2},
			},
		},
		{
			name: "repeated method within one bill",
			bills: []entity.Bill{
				splitBill(
					billing.PaymentSplit{Method: "Card", Amount: 50},
					billing.PaymentSplit{Method: "Card", Amount: 70},
				),
			},
			want: []PaymentMethodBreakup{
				{Method: "Card", Total: 120, BillCount: 1},
			},
		},
		{
			name: "bare method string taken at full bill amount",
			bills: []entity.Bill{
				{PaymentType: "Cash", TotalAmount: 23600},
				splitBill(billing.PaymentSplit{Method: "Cash", Amount: 64}),
			},
			want: []PaymentMethodBreakup{
				{Method: "Cash", Total: 300, BillCount: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupSplitsByMethod(tt.bills))
		})
	}
}

type dashboardAnalyticsStub struct {
	summary      []repository.GSTSummaryResult
	summaryStart time.Time
	daily        []repository.DailySalesResult
	revenue      float64
	billCount    int64
}

func (s *dashboardAnalyticsStub) GetTopProducts(_ context.Context, _, _ time.Time, _ int) ([]repository.TopProductResult, error) {
	return nil, nil
}

func (s *dashboardAnalyticsStub) GetTopCustomers(_ context.Context, _, _ time.Time, _ int) ([]repository.TopCustomerResult, error) {
	return nil, nil
}

func (s *dashboardAnalyticsStub) GetDailySales(_ context.Context, _ int) ([]repository.DailySalesResult, error) {
	return s.daily, nil
}

func (s *dashboardAnalyticsStub) GetGSTSummary(_ context.Context, start, _ time.Time) ([]repository.GSTSummaryResult, error) {
	s.summaryStart = start
	return s.summary, nil
}

func (s *dashboardAnalyticsStub) GetTotalRevenue(_ context.Context, _, _ time.Time) (float64, error) {
	return s.revenue, nil
}

func (s *dashboardAnalyticsStub) GetBillCount(_ context.Context, _, _ time.Time) (int64, error) {
	return s.billCount, nil
}

type dashboardProductRepoStub struct {
	repository.ProductRepository
}

func (s *dashboardProductRepoStub) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 12, nil
}

func (s *dashboardProductRepoStub) GetLowStock(_ context.Context) ([]entity.Product, error) {
	return []entity.Product{{Name: "Sugar"}}, nil
}

type dashboardCustomerRepoStub struct {
	repository.CustomerRepository
}

func (s *dashboardCustomerRepoStub) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	return nil, 7, nil
}

func TestGetDashboardStats(t *testing.T) {
	analytics := &dashboardAnalyticsStub{
		summary: []repository.GSTSummaryResult{
			{GSTPercentage: 5, GSTCollected: 412.50},
			{GSTPercentage: 18, GSTCollected: 1087.25},
		},
		daily: []repository.DailySalesResult{
			{Date: time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), Revenue: 500, GSTTotal: 76.27, Bills: 3},
		},
		revenue:   9000,
		billCount: 42,
	}
	svc := NewDashboardService(
		&stubBillRepo{bills: []entity.Bill{splitBill(billing.PaymentSplit{Method: "UPI", Amount: 236})}},
		&dashboardProductRepoStub{},
		&dashboardCustomerRepoStub{},
		analytics,
	)

	stats, err := svc.GetDashboardStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(7), stats.TotalCustomers)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(42), stats.TotalBills)
	assert.Equal(t, 9000.0, stats.MonthlyRevenue)

	// GST for the month is summed over every rate slab, not inferred
	// from the 7-day sales window.
	assert.Equal(t, 1499.75, stats.MonthlyGST)
	assert.Equal(t, 1, analytics.summaryStart.Day())

	require.Len(t, stats.DailySalesData, 1)
	assert.Equal(t, "Aug 30", stats.DailySalesData[0].Date)

	require.Len(t, stats.PaymentBreakups, 1)
	assert.Equal(t, "UPI", stats.PaymentBreakups[0].Method)
	assert.Equal(t, 236.0, stats.PaymentBreakups[0].Total)
}
