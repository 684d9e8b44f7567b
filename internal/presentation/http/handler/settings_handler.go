package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles user settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get handles fetching the current user's settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// Update handles updating the current user's settings
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Language           string `json:"language" binding:"omitempty,max=10"`
		Timezone           string `json:"timezone" binding:"omitempty,max=64"`
		Currency           string `json:"currency" binding:"omitempty,max=10"`
		DateFormat         string `json:"date_format" binding:"omitempty,max=20"`
		EmailNotifications bool   `json:"email_notifications"`
		BillAlerts         bool   `json:"bill_alerts"`
		LowStockAlerts     bool   `json:"low_stock_alerts"`
		DailySummaryEmail  bool   `json:"daily_summary_email"`
		Theme              string `json:"theme" binding:"omitempty,oneof=light dark system"`
		CompactMode        bool   `json:"compact_mode"`
		SessionTimeout     string `json:"session_timeout" binding:"omitempty,max=10"`
		LoginAlerts        bool   `json:"login_alerts"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:             *userID,
		Language:           req.Language,
		Timezone:           req.Timezone,
		Currency:           req.Currency,
		DateFormat:         req.DateFormat,
		EmailNotifications: req.EmailNotifications,
		BillAlerts:         req.BillAlerts,
		LowStockAlerts:     req.LowStockAlerts,
		DailySummaryEmail:  req.DailySummaryEmail,
		Theme:              req.Theme,
		CompactMode:        req.CompactMode,
		SessionTimeout:     req.SessionTimeout,
		LoginAlerts:        req.LoginAlerts,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
