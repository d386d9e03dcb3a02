package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/internal/service"
)

// TranslationHandler serves per-language article bodies and their version
// history under /contents/:id/translations.
type TranslationHandler struct {
	translationService service.TranslationService
}

// NewTranslationHandler creates a new TranslationHandler
func NewTranslationHandler(translationService service.TranslationService) *TranslationHandler {
	return &TranslationHandler{translationService: translationService}
}

// Create handles POST /contents/:id/translations
func (h *TranslationHandler) Create(c *gin.Context) {
	var req domain.CreateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.translationService.Create(c.Param("id"), &req, middleware.GetActorID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// Get handles GET /contents/:id/translations/:lang
func (h *TranslationHandler) Get(c *gin.Context) {
	resp, err := h.translationService.Get(c.Param("id"), c.Param("lang"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Update handles PUT /contents/:id/translations/:lang
func (h *TranslationHandler) Update(c *gin.Context) {
	var req domain.UpdateTranslationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.translationService.Update(c.Param("id"), c.Param("lang"), &req, middleware.GetActorID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Delete handles DELETE /contents/:id/translations/:lang
func (h *TranslationHandler) Delete(c *gin.Context) {
	if err := h.translationService.Delete(c.Param("id"), c.Param("lang")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListVersions handles GET /contents/:id/translations/:lang/versions
func (h *TranslationHandler) ListVersions(c *gin.Context) {
	versions, err := h.translationService.ListVersions(c.Param("id"), c.Param("lang"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, versions, nil)
}

// GetVersion handles GET /contents/:id/translations/:lang/versions/:versionId
func (h *TranslationHandler) GetVersion(c *gin.Context) {
	resp, err := h.translationService.GetVersion(c.Param("id"), c.Param("lang"), c.Param("versionId"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// Revert handles POST /contents/:id/translations/:lang/versions/:versionId/revert
func (h *TranslationHandler) Revert(c *gin.Context) {
	resp, err := h.translationService.Revert(
		c.Param("id"), c.Param("lang"), c.Param("versionId"), middleware.GetActorID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}
