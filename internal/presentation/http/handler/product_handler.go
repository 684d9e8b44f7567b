package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/request"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		Search:    filter.Search,
		Category:  filter.Category,
		LowStock:  filter.LowStock,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	result, err := h.productService.ListProducts(scopedContext(c), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		UserID:        *userID,
		Name:          req.Name,
		Code:          req.Code,
		HSNCode:       req.HSNCode,
		Unit:          req.Unit,
		Category:      req.Category,
		GSTPercentage: req.GSTPercentage,
		SellingPrice:  req.SellingPrice,
		CostPrice:     req.CostPrice,
		MRP:           req.MRP,
		Stock:         req.Stock,
		StockAlert:    req.StockAlert,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		UserID:        *userID,
		ID:            id,
		SkipUserCheck: IsSuperAdmin(c),
		Name:          req.Name,
		Code:          req.Code,
		HSNCode:       req.HSNCode,
		Unit:          req.Unit,
		Category:      req.Category,
		GSTPercentage: req.GSTPercentage,
		SellingPrice:  req.SellingPrice,
		CostPrice:     req.CostPrice,
		MRP:           req.MRP,
		Stock:         req.Stock,
		StockAlert:    req.StockAlert,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), *userID, id, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetLowStock handles getting low stock products
func (h *ProductHandler) GetLowStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	products, err := h.productService.GetLowStockProducts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// Import handles bulk product import
func (h *ProductHandler) Import(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.ImportProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rows := make([]service.ImportProductRow, 0, len(req.Rows))
	for _, r := range req.Rows {
		rows = append(rows, service.ImportProductRow{
			Name:          r.Name,
			Code:          r.Code,
			HSNCode:       r.HSNCode,
			Unit:          r.Unit,
			Category:      r.Category,
			GSTPercentage: r.GSTPercentage,
			SellingPrice:  r.SellingPrice,
			CostPrice:     r.CostPrice,
			MRP:           r.MRP,
			Stock:         r.Stock,
			StockAlert:    r.StockAlert,
		})
	}

	result, err := h.productService.ImportProducts(c.Request.Context(), *userID, rows)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product import completed", result)
}
