package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/domain/entity"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
	"github.com/saralbilling/saral-api/pkg/pagination"
)

// TenantHandler handles store-related HTTP requests
type TenantHandler struct {
	tenantService *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService *service.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

func bindPagination(c *gin.Context) *pagination.PaginationParams {
	var query struct {
		Page    int `form:"page"`
		PerPage int `form:"per_page"`
	}
	_ = c.ShouldBindQuery(&query)
	return &pagination.PaginationParams{Page: query.Page, PerPage: query.PerPage}
}

// List handles listing the stores the current user belongs to. Super
// admins see every store.
func (h *TenantHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	params := bindPagination(c)

	var (
		tenants []entity.Tenant
		pag     *pagination.Pagination
		err     error
	)
	if IsSuperAdmin(c) {
		tenants, pag, err = h.tenantService.ListAllTenants(c.Request.Context(), params)
	} else {
		tenants, pag, err = h.tenantService.GetUserTenants(c.Request.Context(), *userID, params)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Stores retrieved successfully", pagination.NewPaginatedResult(tenants, pag))
}

// Create handles creating a store owned by the current user
func (h *TenantHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=2,max=255"`
		Slug string `json:"slug" binding:"omitempty,min=2,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), &service.CreateTenantInput{
		Name:    req.Name,
		Slug:    req.Slug,
		OwnerID: *userID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Store created successfully", tenant)
}

// Get handles getting a single store
func (h *TenantHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	tenant, err := h.tenantService.GetTenant(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store retrieved successfully", tenant)
}

// Update handles updating store details and settings
func (h *TenantHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	var req struct {
		Name     *string                `json:"name" binding:"omitempty,min=2,max=255"`
		Settings *entity.TenantSettings `json:"settings"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request.Context(), id, *userID, &service.UpdateTenantInput{
		Name:     req.Name,
		Settings: req.Settings,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Store updated successfully", tenant)
}

// Delete handles deleting a store. Only the owner can delete it.
func (h *TenantHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	if err := h.tenantService.DeleteTenant(c.Request.Context(), id, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// GetMembers handles listing a store's members
func (h *TenantHandler) GetMembers(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	members, err := h.tenantService.GetMembers(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Members retrieved successfully", members)
}

// AddMember handles adding a user to a store by email
func (h *TenantHandler) AddMember(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"omitempty,oneof=admin member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	membership, err := h.tenantService.AddMember(c.Request.Context(), id, *userID, &service.AddMemberInput{
		Email: req.Email,
		Role:  req.Role,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Member added successfully", membership)
}

// UpdateMemberRole handles changing a member's role. Owner only.
func (h *TenantHandler) UpdateMemberRole(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	var req struct {
		Role string `json:"role" binding:"required,oneof=admin member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.tenantService.UpdateMemberRole(c.Request.Context(), id, *userID, memberID, req.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Member role updated successfully", nil)
}

// RemoveMember handles removing a member from a store
func (h *TenantHandler) RemoveMember(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid store ID")
		return
	}

	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		response.BadRequest(c, "Invalid member ID")
		return
	}

	if err := h.tenantService.RemoveMember(c.Request.Context(), id, *userID, memberID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
