package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/lingora/lingora-backend/pkg/storage"
)

const (
	maxImageSize = 10 * 1024 * 1024
	maxFileSize  = 50 * 1024 * 1024
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true, ".svg": true,
}

var blockedExtensions = map[string]bool{
	".exe": true, ".bat": true, ".cmd": true, ".sh": true, ".php": true, ".jsp": true, ".asp": true,
}

// UploadService stores editor images and standalone file attachments in
// object storage under date-prefixed unique keys. Content-owned media
// binaries go through MediaService instead.
type UploadService interface {
	UploadImage(filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)
	UploadFile(filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error)
}

type uploadService struct {
	storage *storage.S3Client
}

// NewUploadService creates a new UploadService. storage may be nil; uploads
// then fail with a validation error.
func NewUploadService(storageClient *storage.S3Client) UploadService {
	return &uploadService{storage: storageClient}
}

// UploadImage stores an editor image. Only image extensions are accepted.
func (s *uploadService) UploadImage(filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExtensions[ext] {
		return nil, fmt.Errorf("%w: unsupported image type %q", common.ErrValidation, ext)
	}
	if size > maxImageSize {
		return nil, fmt.Errorf("%w: image exceeds the 10MB limit", common.ErrValidation)
	}
	return s.upload("images", filename, contentType, body, size)
}

// UploadFile stores a generic attachment. Executable extensions are blocked.
func (s *uploadService) UploadFile(filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if blockedExtensions[ext] {
		return nil, fmt.Errorf("%w: file type %q is not allowed", common.ErrValidation, ext)
	}
	if size > maxFileSize {
		return nil, fmt.Errorf("%w: file exceeds the 50MB limit", common.ErrValidation)
	}
	return s.upload("files", filename, contentType, body, size)
}

func (s *uploadService) upload(prefix, filename, contentType string, body io.Reader, size int64) (*storage.UploadResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	key := storage.GenerateKey(prefix, filename)
	result, err := s.storage.Upload(context.Background(), key, body, contentType, size)
	if err != nil {
		return nil, err
	}

	logger.GetLogger().Info().
		Str("key", result.Key).
		Int64("size", size).
		Msg("file uploaded")

	return result, nil
}
