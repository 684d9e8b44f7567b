package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBatch(ctx context.Context, products []entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs retrieves multiple products by their IDs in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetByHSNCode(ctx context.Context, hsnCode string) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context) ([]entity.Product, error)
	// AtomicDecrementStock atomically decrements stock only if sufficient.
	// Returns (true, nil) if successful, (false, nil) if insufficient stock, (false, err) on error.
	AtomicDecrementStock(ctx context.Context, id uuid.UUID, quantity float64) (bool, error)
	// AtomicDecrementBatch atomically decrements stock for multiple products.
	// Returns product IDs that failed due to insufficient stock; if any product
	// fails, the entire transaction is rolled back.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]float64) (failedIDs []uuid.UUID, err error)
	// AtomicIncrementBatch atomically increments stock for multiple products (for cancellations)
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]float64) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Category   string
	LowStock   bool
	SortBy     string
	SortOrder  string
}
