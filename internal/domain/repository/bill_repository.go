package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/enum"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// BillRepository defines the interface for bill data operations
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	GetByBillNo(ctx context.Context, billNo string) (*entity.Bill, error)
	// GetWithItems retrieves a bill with its line items and customer preloaded
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.BillStatus) error
	// NextBillSequence returns the next per-tenant bill sequence number.
	// Implementations must be safe under concurrent bill creation.
	NextBillSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// ListForExport returns all bills in a date range without pagination,
	// ordered by creation time, for report generation.
	ListForExport(ctx context.Context, start, end time.Time) ([]entity.Bill, error)
}

// BillFilterParams contains filtering parameters for bill queries
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.BillStatus
	Regime     *enum.Regime
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// BillItemRepository defines the interface for bill line item data operations
type BillItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.BillItem) error
	GetByBillID(ctx context.Context, billID uuid.UUID) ([]entity.BillItem, error)
	DeleteByBillID(ctx context.Context, billID uuid.UUID) error
}
