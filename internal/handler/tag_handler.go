package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/service"
)

// TagHandler serves the taxonomy endpoints
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// Create handles POST /tags
func (h *TagHandler) Create(c *gin.Context) {
	var req domain.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.tagService.Create(&req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// List handles GET /tags
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagService.List(c.Query("lang"), c.Query("namespace"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, tags, nil)
}

// Get handles GET /tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	resp, err := h.tagService.Get(c.Param("id"), c.Query("lang"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Update handles PUT /tags/:id
func (h *TagHandler) Update(c *gin.Context) {
	var req domain.UpdateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.tagService.Update(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Delete handles DELETE /tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	if err := h.tagService.Delete(c.Param("id")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertLabel handles PUT /tags/:id/labels
func (h *TagHandler) UpsertLabel(c *gin.Context) {
	var req domain.UpsertTagLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.tagService.UpsertLabel(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}
