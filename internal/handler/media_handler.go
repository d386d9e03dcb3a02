package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/middleware"
	"github.com/lingora/lingora-backend/internal/service"
)

// maxUploadSize caps media uploads at 512 MiB
const maxUploadSize = 512 << 20

// MediaHandler serves media binaries and transcripts for video, audio and
// publication content
type MediaHandler struct {
	mediaService service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload handles POST /contents/:id/media (multipart form, field "file")
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "file field is required", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "unable to read uploaded file", err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	resp, err := h.mediaService.Upload(
		c.Param("id"), fileHeader.Filename, contentType, file, fileHeader.Size,
		middleware.GetActorID(c))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, resp)
}

// Get handles GET /contents/:id/media
func (h *MediaHandler) Get(c *gin.Context) {
	resp, err := h.mediaService.Get(c.Param("id"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// GetDownloadURL handles GET /contents/:id/media/download
func (h *MediaHandler) GetDownloadURL(c *gin.Context) {
	url, err := h.mediaService.GetDownloadURL(c.Param("id"))
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"url": url}, nil)
}

// Delete handles DELETE /contents/:id/media
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.mediaService.Delete(c.Param("id")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpsertTranscript handles PUT /contents/:id/media/transcripts
func (h *MediaHandler) UpsertTranscript(c *gin.Context) {
	var req domain.UpsertTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "invalid request body: "+err.Error(), err)
		return
	}

	resp, err := h.mediaService.UpsertTranscript(c.Param("id"), &req)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.SuccessResponse(c, resp, nil)
}

// DeleteTranscript handles DELETE /contents/:id/media/transcripts/:lang
func (h *MediaHandler) DeleteTranscript(c *gin.Context) {
	if err := h.mediaService.DeleteTranscript(c.Param("id"), c.Param("lang")); err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
