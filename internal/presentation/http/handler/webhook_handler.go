package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/presentation/http/dto/response"
)

// WebhookHandler handles webhook subscription HTTP requests
type WebhookHandler struct {
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// List handles listing the tenant's webhook subscriptions
func (h *WebhookHandler) List(c *gin.Context) {
	hooks, err := h.webhookService.ListWebhooks(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Webhooks retrieved successfully", hooks)
}

// Create handles creating a webhook subscription. The signing secret is
// returned only in this response; it is never readable again.
func (h *WebhookHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		URL    string   `json:"url" binding:"required,url"`
		Events []string `json:"events" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	hook, secret, err := h.webhookService.CreateWebhook(c.Request.Context(), &service.CreateWebhookInput{
		UserID: *userID,
		URL:    req.URL,
		Events: req.Events,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Webhook created successfully", gin.H{
		"webhook": hook,
		"secret":  secret,
	})
}

// Get handles getting a single webhook subscription
func (h *WebhookHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid webhook ID")
		return
	}

	hook, err := h.webhookService.GetWebhook(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Webhook retrieved successfully", hook)
}

// Update handles updating a webhook subscription
func (h *WebhookHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid webhook ID")
		return
	}

	var req struct {
		URL    *string  `json:"url" binding:"omitempty,url"`
		Events []string `json:"events" binding:"omitempty,min=1"`
		Active *bool    `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	hook, err := h.webhookService.UpdateWebhook(c.Request.Context(), id, &service.UpdateWebhookInput{
		URL:    req.URL,
		Events: req.Events,
		Active: req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Webhook updated successfully", hook)
}

// Delete handles deleting a webhook subscription
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid webhook ID")
		return
	}

	if err := h.webhookService.DeleteWebhook(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
