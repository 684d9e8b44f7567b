package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// tenantID pulls the tenant from the context for raw queries, which bypass
// the GORM scope. The nil UUID matches no rows.
func (r *analyticsRepository) tenantID(ctx context.Context) uuid.UUID {
	id, ok := GetTenantID(ctx)
	if !ok {
		return uuid.Nil
	}
	return id
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			COALESCE(SUM(bi.quantity), 0) as quantity_sold,
			COALESCE(SUM(bi.line_total), 0) / 100.0 as revenue
		FROM bill_items bi
		JOIN products p ON p.id = bi.product_id
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.tenant_id = ?
		AND b.status <> 2
		AND b.deleted_at IS NULL
		AND bi.deleted_at IS NULL
		AND b.bill_date >= ? AND b.bill_date <= ?
		GROUP BY p.id, p.name
		ORDER BY revenue DESC
		LIMIT ?
	`, r.tenantID(ctx), start, end, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, start, end time.Time, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(b.total_amount), 0) / 100.0 as total_spent,
			COUNT(b.id) as bill_count
		FROM bills b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.tenant_id = ?
		AND b.status <> 2
		AND b.deleted_at IS NULL
		AND b.customer_id IS NOT NULL
		AND b.bill_date >= ? AND b.bill_date <= ?
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, r.tenantID(ctx), start, end, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Revenue  sql.NullFloat64
			GSTTotal sql.NullFloat64
			Bills    int
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT
				COALESCE(SUM(total_amount), 0) / 100.0 as revenue,
				COALESCE(SUM(gst_total), 0) / 100.0 as gst_total,
				COUNT(id) as bills
			FROM bills
			WHERE tenant_id = ?
			AND status <> 2
			AND deleted_at IS NULL
			AND bill_date >= ? AND bill_date < ?
		`, r.tenantID(ctx), startOfDay, endOfDay).Scan(&row).Error

		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:     startOfDay,
			Revenue:  row.Revenue.Float64,
			GSTTotal: row.GSTTotal.Float64,
			Bills:    row.Bills,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetGSTSummary(ctx context.Context, start, end time.Time) ([]domainRepo.GSTSummaryResult, error) {
	var results []domainRepo.GSTSummaryResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			bi.gst_percentage as gst_percentage,
			COALESCE(SUM(bi.amount), 0) / 100.0 as taxable_value,
			COALESCE(SUM(bi.gst_amount), 0) / 100.0 as gst_collected,
			COUNT(DISTINCT b.id) as bill_count
		FROM bill_items bi
		JOIN bills b ON b.id = bi.bill_id
		WHERE b.tenant_id = ?
		AND b.regime = 'gst'
		AND b.status <> 2
		AND b.deleted_at IS NULL
		AND bi.deleted_at IS NULL
		AND b.bill_date >= ? AND b.bill_date <= ?
		GROUP BY bi.gst_percentage
		ORDER BY bi.gst_percentage ASC
	`, r.tenantID(ctx), start, end).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context, start, end time.Time) (float64, error) {
	var revenue float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total_amount), 0) / 100.0
		FROM bills
		WHERE tenant_id = ?
		AND status <> 2
		AND deleted_at IS NULL
		AND bill_date >= ? AND bill_date <= ?
	`, r.tenantID(ctx), start, end).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetBillCount(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(id)
		FROM bills
		WHERE tenant_id = ?
		AND status <> 2
		AND deleted_at IS NULL
		AND bill_date >= ? AND bill_date <= ?
	`, r.tenantID(ctx), start, end).Scan(&count).Error

	return count, err
}
