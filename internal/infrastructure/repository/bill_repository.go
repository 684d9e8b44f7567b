package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Customer").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&bill, "bill_no = ?", billNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Bill{}, "id = ?", id).Error
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("bill_no ILIKE ? OR customer_name ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.Regime != nil {
		query = query.Where("regime = ?", *params.Regime)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("bill_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("bill_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// sort_by comes straight off the query string; only known columns
	// may reach the ORDER BY clause.
	sortBy := "created_at"
	switch params.SortBy {
	case "bill_date", "created_at", "total_amount", "bill_no":
		sortBy = params.SortBy
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// NextBillSequence upserts the per-tenant counter and returns the new value
// in a single statement so concurrent callers never see the same number.
func (r *billRepository) NextBillSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO bill_sequences (tenant_id, last_value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_value = bill_sequences.last_value + 1, updated_at = NOW()
		RETURNING last_value
	`, tenantID).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("next bill sequence: %w", err)
	}
	return next, nil
}

func (r *billRepository) ListForExport(ctx context.Context, start, end time.Time) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("bill_date >= ? AND bill_date <= ?", start, end).
		Preload("Customer").
		Preload("Items").
		Order("bill_date ASC, created_at ASC").
		Find(&bills).Error
	return bills, err
}

type billItemRepository struct {
	db *gorm.DB
}

// NewBillItemRepository creates a new bill item repository
func NewBillItemRepository(db *gorm.DB) domainRepo.BillItemRepository {
	return &billItemRepository{db: db}
}

func (r *billItemRepository) CreateBatch(ctx context.Context, items []entity.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *billItemRepository) GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.BillItem, error) {
	var items []entity.BillItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("bill_id = ?", billID).
		Find(&items).Error
	return items, err
}

func (r *billItemRepository) DeleteByBillID(ctx context.Context, billID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.BillItem{}, "bill_id = ?", billID).Error
}
