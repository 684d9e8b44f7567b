package service

import (
	"context"
	"time"

	"github.com/saralbilling/saral-api/internal/billing"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/pkg/money"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// DashboardService provides counter and store-level statistics
type DashboardService struct {
	billRepo      repository.BillRepository
	productRepo   repository.ProductRepository
	customerRepo  repository.CustomerRepository
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	billRepo repository.BillRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	analyticsRepo repository.AnalyticsRepository,
) *DashboardService {
	return &DashboardService{
		billRepo:      billRepo,
		productRepo:   productRepo,
		customerRepo:  customerRepo,
		analyticsRepo: analyticsRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers  int64                          `json:"total_customers"`
	TotalProducts   int64                          `json:"total_products"`
	TotalBills      int64                          `json:"total_bills"`
	TodayBills      int64                          `json:"today_bills"`
	TodayRevenue    float64                        `json:"today_revenue"`
	MonthlyRevenue  float64                        `json:"monthly_revenue"`
	MonthlyGST      float64                        `json:"monthly_gst"`
	LowStockCount   int64                          `json:"low_stock_count"`
	DailySalesData  []DailySalesPoint              `json:"daily_sales_data"`
	PaymentBreakups []PaymentMethodBreakup         `json:"payment_breakups"`
	TopProducts     []repository.TopProductResult  `json:"top_products"`
	TopCustomers    []repository.TopCustomerResult `json:"top_customers"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date     string  `json:"date"`
	Revenue  float64 `json:"revenue"`
	GSTTotal float64 `json:"gst_total"`
	Bills    int     `json:"bills"`
}

// PaymentMethodBreakup aggregates collections per payment method
type PaymentMethodBreakup struct {
	Method    string  `json:"method"`
	Total     float64 `json:"total"`
	BillCount int     `json:"bill_count"`
}

// GroupSplitsByMethod tallies collections per payment method across bills.
// Each bill's stored snapshot is decoded first, so legacy bare-string rows
// count under their method at the full bill amount.
func GroupSplitsByMethod(bills []entity.Bill) []PaymentMethodBreakup {
	totals := make(map[string]*PaymentMethodBreakup)
	order := make([]string, 0)

	for i := range bills {
		splits := billing.DecodePaymentSplits(bills[i].PaymentType, bills[i].GetTotalDecimal())
		seen := make(map[string]bool, len(splits))
		for _, split := range splits {
			entry, ok := totals[split.Method]
			if !ok {
				entry = &PaymentMethodBreakup{Method: split.Method}
				totals[split.Method] = entry
				order = append(order, split.Method)
			}
			entry.Total = money.Round2(entry.Total + split.Amount)
			if !seen[split.Method] {
				entry.BillCount++
				seen[split.Method] = true
			}
		}
	}

	result := make([]PaymentMethodBreakup, 0, len(order))
	for _, method := range order {
		result = append(result, *totals[method])
	}
	return result
}

// GetDashboardStats returns dashboard statistics for the current tenant
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	countParams := pagination.DefaultPagination()
	countParams.PerPage = 1

	_, customerCount, err := s.customerRepo.List(ctx, countParams, "")
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	productParams := &repository.ProductFilterParams{Pagination: countParams}
	_, productCount, err := s.productRepo.List(ctx, productParams)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	lowStock, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	stats.TotalBills, err = s.analyticsRepo.GetBillCount(ctx, time.Time{}, now)
	if err != nil {
		return nil, err
	}

	stats.TodayBills, err = s.analyticsRepo.GetBillCount(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}

	stats.TodayRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}

	stats.MonthlyRevenue, err = s.analyticsRepo.GetTotalRevenue(ctx, startOfMonth, now)
	if err != nil {
		return nil, err
	}

	gstRows, err := s.analyticsRepo.GetGSTSummary(ctx, startOfMonth, now)
	if err != nil {
		return nil, err
	}
	for _, row := range gstRows {
		stats.MonthlyGST = money.Round2(stats.MonthlyGST + row.GSTCollected)
	}

	daily, err := s.analyticsRepo.GetDailySales(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(daily))
	for _, d := range daily {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:     d.Date.Format("Jan 02"),
			Revenue:  d.Revenue,
			GSTTotal: d.GSTTotal,
			Bills:    d.Bills,
		})
	}

	// Payment breakups come from today's bills, decoded split by split
	todayBills, err := s.billRepo.ListForExport(ctx, startOfDay, now)
	if err != nil {
		return nil, err
	}
	stats.PaymentBreakups = GroupSplitsByMethod(todayBills)

	stats.TopProducts, err = s.analyticsRepo.GetTopProducts(ctx, startOfMonth, now, 5)
	if err != nil {
		return nil, err
	}

	stats.TopCustomers, err = s.analyticsRepo.GetTopCustomers(ctx, startOfMonth, now, 5)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
