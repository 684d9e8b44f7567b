package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	QuantitySold float64
	Revenue      float64
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   float64
	BillCount    int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date     time.Time
	Revenue  float64
	GSTTotal float64
	Bills    int
}

// GSTSummaryResult aggregates taxable value and GST collected per rate slab
type GSTSummaryResult struct {
	GSTPercentage float64
	TaxableValue  float64
	GSTCollected  float64
	BillCount     int
}

// AnalyticsRepository defines interface for analytics/aggregation queries.
// All queries are tenant-scoped through the context.
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue within a date range
	GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]TopProductResult, error)

	// GetTopCustomers returns top customers by total spending within a date range
	GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]TopCustomerResult, error)

	// GetDailySales returns daily revenue and GST collected for the last N days
	GetDailySales(ctx context.Context, days int) ([]DailySalesResult, error)

	// GetGSTSummary aggregates taxable value and GST collected per rate slab
	GetGSTSummary(ctx context.Context, start, end time.Time) ([]GSTSummaryResult, error)

	// GetTotalRevenue returns total revenue from active and paid bills in a date range
	GetTotalRevenue(ctx context.Context, start, end time.Time) (float64, error)

	// GetBillCount returns the number of non-cancelled bills in a date range
	GetBillCount(ctx context.Context, start, end time.Time) (int64, error)
}
