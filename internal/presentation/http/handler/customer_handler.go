package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers
func (h *CustomerHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var query struct {
		Search  string `form:"search"`
		Page    int    `form:"page"`
		PerPage int    `form:"per_page"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    query.Page,
		PerPage: query.PerPage,
	}

	result, err := h.customerService.ListCustomers(scopedContext(c), params, query.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name      string  `json:"name" binding:"required,min=2,max=255"`
		Phone     *string `json:"phone" binding:"omitempty,max=20"`
		Email     *string `json:"email" binding:"omitempty,email"`
		GSTIN     string  `json:"gstin" binding:"omitempty,max=15"`
		Address   *string `json:"address"`
		StateCode *string `json:"state_code" binding:"omitempty,len=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		UserID:    *userID,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		GSTIN:     req.GSTIN,
		Address:   req.Address,
		StateCode: req.StateCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// FindByPhone handles counter-side customer lookup by phone number
func (h *CustomerHandler) FindByPhone(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		response.BadRequest(c, "Phone number is required")
		return
	}

	customer, err := h.customerService.FindByPhone(c.Request.Context(), phone)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req struct {
		Name      *string `json:"name" binding:"omitempty,min=2,max=255"`
		Phone     *string `json:"phone" binding:"omitempty,max=20"`
		Email     *string `json:"email" binding:"omitempty,email"`
		GSTIN     *string `json:"gstin" binding:"omitempty,max=15"`
		Address   *string `json:"address"`
		StateCode *string `json:"state_code" binding:"omitempty,len=2"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		UserID:       *userID,
		ID:           id,
		IsSuperAdmin: IsSuperAdmin(c),
		Name:         req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		GSTIN:        req.GSTIN,
		Address:      req.Address,
		StateCode:    req.StateCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), *userID, id, IsSuperAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetNotes handles listing the notes attached to a customer
func (h *CustomerHandler) GetNotes(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	notes, err := h.customerService.GetCustomerNotes(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer notes retrieved successfully", notes)
}
