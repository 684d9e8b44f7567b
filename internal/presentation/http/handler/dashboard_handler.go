package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats handles fetching dashboard statistics
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(scopedContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}
