package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/service"
)

// WebhookHandler serves webhook registration and delivery-log endpoints
type WebhookHandler struct {
	webhookService service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService service.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// Create handles POST /webhooks
func (h *WebhookHandler) Create(c *gin.Context) {
	var req domain.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.webhookService.Create(&req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// List handles GET /webhooks
func (h *WebhookHandler) List(c *gin.Context) {
	webhooks, err := h.webhookService.List()
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, webhooks, nil)
}

// Get handles GET /webhooks/:id
func (h *WebhookHandler) Get(c *gin.Context) {
	resp, err := h.webhookService.Get(c.Param("id"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Update handles PUT /webhooks/:id
func (h *WebhookHandler) Update(c *gin.Context) {
	var req domain.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.webhookService.Update(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Delete handles DELETE /webhooks/:id
func (h *WebhookHandler) Delete(c *gin.Context) {
	if err := h.webhookService.Delete(c.Param("id")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListDeliveries handles GET /webhooks/:id/deliveries
func (h *WebhookHandler) ListDeliveries(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	deliveries, err := h.webhookService.ListDeliveries(c.Param("id"), limit)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, deliveries, nil)
}
