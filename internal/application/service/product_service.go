package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	infraRepo "github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/pkg/apperror"
	"github.com/saralbilling/saral-api/pkg/money"
	"github.com/saralbilling/saral-api/pkg/pagination"
	"github.com/saralbilling/saral-api/pkg/utils"
)

// ProductService handles product catalog operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID        uuid.UUID
	Name          string
	Code          string
	HSNCode       string
	Unit          string
	Category      string
	GSTPercentage float64
	SellingPrice  float64
	CostPrice     float64
	MRP           float64
	Stock         float64
	StockAlert    float64
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.GSTPercentage < 0 || input.GSTPercentage > 100 {
		return nil, apperror.NewBadRequestError("GST percentage must be between 0 and 100")
	}

	code := input.Code
	if code == "" {
		code = utils.GenerateProductCode()
	}

	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product code already exists")
	}

	product := &entity.Product{
		TenantID:      tenantID,
		UserID:        input.UserID,
		Name:          input.Name,
		Slug:          utils.Slugify(input.Name) + "-" + strings.ToLower(uuid.New().String()[:8]),
		Code:          code,
		HSNCode:       input.HSNCode,
		Unit:          input.Unit,
		Category:      input.Category,
		GSTPercentage: input.GSTPercentage,
		SellingPrice:  money.ToPaise(input.SellingPrice),
		CostPrice:     money.ToPaise(input.CostPrice),
		MRP:           money.ToPaise(input.MRP),
		Stock:         input.Stock,
		StockAlert:    input.StockAlert,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	UserID        uuid.UUID
	ID            uuid.UUID
	SkipUserCheck bool
	Name          *string
	Code          *string
	HSNCode       *string
	Unit          *string
	Category      *string
	GSTPercentage *float64
	SellingPrice  *float64
	CostPrice     *float64
	MRP           *float64
	Stock         *float64
	StockAlert    *float64
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if !input.SkipUserCheck && product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}

	if input.Code != nil && *input.Code != product.Code {
		existing, err := s.productRepo.GetByCode(ctx, *input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewConflictError("Product code already exists")
		}
		product.Code = *input.Code
	}

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = utils.Slugify(*input.Name) + "-" + strings.ToLower(uuid.New().String()[:8])
	}
	if input.HSNCode != nil {
		product.HSNCode = *input.HSNCode
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.GSTPercentage != nil {
		if *input.GSTPercentage < 0 || *input.GSTPercentage > 100 {
			return nil, apperror.NewBadRequestError("GST percentage must be between 0 and 100")
		}
		product.GSTPercentage = *input.GSTPercentage
	}
	if input.SellingPrice != nil {
		product.SellingPrice = money.ToPaise(*input.SellingPrice)
	}
	if input.CostPrice != nil {
		product.CostPrice = money.ToPaise(*input.CostPrice)
	}
	if input.MRP != nil {
		product.MRP = money.ToPaise(*input.MRP)
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.StockAlert != nil {
		product.StockAlert = *input.StockAlert
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, userID, id uuid.UUID, skipOwnerCheck bool) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return apperror.NewNotFoundError("Product")
	}

	if !skipOwnerCheck && product.UserID != userID {
		return apperror.ErrForbidden
	}

	return s.productRepo.Delete(ctx, id)
}

// GetLowStockProducts returns products at or below their stock alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.GetLowStock(ctx)
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name          string
	Code          string
	HSNCode       string
	Unit          string
	Category      string
	GSTPercentage float64
	SellingPrice  float64
	CostPrice     float64
	MRP           float64
	Stock         float64
	StockAlert    float64
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows
func (s *ProductService) ImportProducts(ctx context.Context, userID uuid.UUID, rows []ImportProductRow) (*ImportResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError

	// code -> row number, to catch duplicates within the file itself
	seenCodes := make(map[string]int)

	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header, data starts at row 2

		if strings.TrimSpace(row.Name) == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		if row.GSTPercentage < 0 || row.GSTPercentage > 100 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "gst_percentage", Message: "GST percentage must be between 0 and 100"})
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateProductCode()
		}

		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}

		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "code", Message: "Error checking code: " + err.Error()})
			continue
		}
		if existing != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Product code '%s' already exists", code),
			})
			continue
		}

		seenCodes[code] = rowNum

		unit := strings.TrimSpace(row.Unit)
		if unit == "" {
			unit = "pcs"
		}

		product := entity.Product{
			TenantID:      tenantID,
			UserID:        userID,
			Name:          strings.TrimSpace(row.Name),
			Slug:          utils.Slugify(row.Name) + "-" + strings.ToLower(uuid.New().String()[:8]),
			Code:          code,
			HSNCode:       strings.TrimSpace(row.HSNCode),
			Unit:          unit,
			Category:      strings.TrimSpace(row.Category),
			GSTPercentage: row.GSTPercentage,
			SellingPrice:  money.ToPaise(row.SellingPrice),
			CostPrice:     money.ToPaise(row.CostPrice),
			MRP:           money.ToPaise(row.MRP),
			Stock:         row.Stock,
			StockAlert:    row.StockAlert,
		}

		validProducts = append(validProducts, product)
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, apperror.NewAppError(500, "Failed to import products: "+err.Error())
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}
