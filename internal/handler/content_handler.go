package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/internal/service"
	"github.com/lingora/lingora-backend/pkg/markdown"
)

// ContentHandler serves the content collection endpoints
type ContentHandler struct {
	contentService service.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService service.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Create handles POST /contents
func (h *ContentHandler) Create(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.contentService.Create(&req, middleware.GetActorID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// List handles GET /contents
func (h *ContentHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	filter := repository.ContentFilter{
		Type:    c.Query("type"),
		Page:    page,
		PerPage: perPage,
	}
	if tags := c.Query("tags"); tags != "" {
		filter.TagKeys = strings.Split(tags, ",")
	}

	items, total, err := h.contentService.List(filter, c.Query("lang"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, items, common.NewMeta(filter.Page, filter.PerPage, total))
}

// Get handles GET /contents/:id
func (h *ContentHandler) Get(c *gin.Context) {
	resp, err := h.contentService.Get(c.Param("id"), c.Query("lang"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Render handles POST /contents/render, a stateless markdown preview
func (h *ContentHandler) Render(c *gin.Context) {
	var req struct {
		Markdown string `json:"markdown" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}
	common.SuccessResponse(c, gin.H{"html": markdown.Render(req.Markdown)}, nil)
}

// Update handles PUT /contents/:id
func (h *ContentHandler) Update(c *gin.Context) {
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.contentService.Update(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Delete handles DELETE /contents/:id
func (h *ContentHandler) Delete(c *gin.Context) {
	if err := h.contentService.Delete(c.Param("id")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ManageTags handles POST /contents/:id/tags
func (h *ContentHandler) ManageTags(c *gin.Context) {
	var req domain.ManageContentTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.contentService.ManageTags(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}
