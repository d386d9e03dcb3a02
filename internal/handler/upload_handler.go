package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/service"
	"github.com/lingora/lingora-backend/pkg/storage"
)

// UploadHandler serves editor image and file attachment uploads
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadImage handles POST /uploads/image (multipart form, field "file")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	h.upload(c, h.uploadService.UploadImage)
}

// UploadFile handles POST /uploads/file (multipart form, field "file")
func (h *UploadHandler) UploadFile(c *gin.Context) {
	h.upload(c, h.uploadService.UploadFile)
}

func (h *UploadHandler) upload(c *gin.Context, fn func(string, string, io.Reader, int64) (*storage.UploadResult, error)) {
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

	result, err := fn(fileHeader.Filename, contentType, file, fileHeader.Size)
	if err != nil {
		common.ErrorFromDomain(c, err)
		return
	}
	common.CreatedResponse(c, result)
}
