package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) CreateBatch(ctx context.Context, products []entity.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&products).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("id IN ?", ids).
		Find(&products).Error
	return products, err
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	var product entity.Product
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).First(&product, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

func (r *productRepository) GetByHSNCode(ctx context.Context, hsnCode string) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("hsn_code = ?", hsnCode).
		Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id).Error
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Product{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR hsn_code ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.LowStock {
		query = query.Where("stock <= stock_alert")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// sort_by comes straight off the query string; only known columns
	// may reach the ORDER BY clause.
	sortBy := "created_at"
	switch params.SortBy {
	case "name", "created_at", "selling_price", "stock":
		sortBy = params.SortBy
	}
	sortOrder := "DESC"
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order(sortBy + " " + sortOrder).
		Find(&products).Error

	return products, total, err
}

func (r *productRepository) GetLowStock(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("stock <= stock_alert").
		Find(&products).Error
	return products, err
}

// AtomicDecrementStock decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET stock = stock - qty WHERE id = ? AND stock >= qty
func (r *productRepository) AtomicDecrementStock(ctx context.Context, id uuid.UUID, quantity float64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// AtomicDecrementBatch decrements stock for multiple products in a single
// transaction. If any product has insufficient stock, the entire transaction
// is rolled back and the failed IDs are returned.
func (r *productRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]float64) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, quantity := range decrements {
			result := tx.Model(&entity.Product{}).
				Where("id = ? AND stock >= ?", id, quantity).
				Update("stock", gorm.Expr("stock - ?", quantity))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return gorm.ErrInvalidTransaction
		}

		return nil
	})

	// Rolled back due to insufficient stock: report the IDs, not the sentinel
	if errors.Is(err, gorm.ErrInvalidTransaction) && len(failedIDs) > 0 {
		return failedIDs, nil
	}

	return failedIDs, err
}

// AtomicIncrementBatch increments stock for multiple products (for cancellations)
func (r *productRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]float64) error {
	if len(increments) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, quantity := range increments {
			if err := tx.Model(&entity.Product{}).
				Where("id = ?", id).
				Update("stock", gorm.Expr("stock + ?", quantity)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
