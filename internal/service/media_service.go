package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/lingora/lingora-backend/pkg/storage"
	"gorm.io/gorm"
)

const presignedURLExpiry = 15 * time.Minute

// MediaService owns binary-asset metadata and transcripts for video, audio
// and publication content. Binaries live in object storage.
type MediaService interface {
	Upload(contentID, filename, contentType string, body io.Reader, size int64, actorID *string) (*domain.MediaResponse, error)
	Get(contentID string) (*domain.MediaResponse, error)
	GetDownloadURL(contentID string) (string, error)
	Delete(contentID string) error
	UpsertTranscript(contentID string, req *domain.UpsertTranscriptRequest) (*domain.TranscriptResponse, error)
	DeleteTranscript(contentID, language string) error
}

type mediaService struct {
	contentRepo repository.ContentRepository
	mediaRepo   repository.MediaRepository
	txManager   repository.TxManager
	storage     *storage.S3Client
	dispatcher  EventDispatcher
}

// NewMediaService creates a new MediaService. storage and dispatcher may be
// nil; uploads fail without storage, metadata reads still work.
func NewMediaService(
	contentRepo repository.ContentRepository,
	mediaRepo repository.MediaRepository,
	txManager repository.TxManager,
	storageClient *storage.S3Client,
	dispatcher EventDispatcher,
) MediaService {
	return &mediaService{
		contentRepo: contentRepo,
		mediaRepo:   mediaRepo,
		txManager:   txManager,
		storage:     storageClient,
		dispatcher:  dispatcher,
	}
}

// Upload stores the binary and creates or replaces the content's media row.
func (s *mediaService) Upload(contentID, filename, contentType string, body io.Reader, size int64, actorID *string) (*domain.MediaResponse, error) {
	content, err := s.findMediaContent(contentID)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}

	key := storage.MediaKey(content.ID, filename)
	result, err := s.storage.Upload(context.Background(), key, body, contentType, size)
	if err != nil {
		return nil, err
	}

	media, err := s.mediaRepo.FindByContentID(content.ID)
	switch {
	case err == nil:
		// Replacing the binary: the previous object is removed best-effort
		// after the metadata write succeeds.
		oldKey := media.ObjectKey
		media.ObjectKey = result.Key
		media.MimeType = &contentType
		media.FileSize = &size
		if err := s.mediaRepo.Save(media); err != nil {
			return nil, err
		}
		if oldKey != "" && oldKey != result.Key {
			if err := s.storage.Delete(context.Background(), oldKey); err != nil {
				logger.GetLogger().Warn().Err(err).Str("key", oldKey).Msg("stale media object not removed")
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		media = &domain.MediaContent{
			ContentID: content.ID,
			Kind:      content.Type,
			ObjectKey: result.Key,
			MimeType:  &contentType,
			FileSize:  &size,
		}
		if err := s.mediaRepo.Create(media); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(domain.EventMediaUploaded, map[string]interface{}{
			"content_id": content.ID,
			"media_id":   media.ID,
			"object_key": media.ObjectKey,
		})
	}
	logger.GetLogger().Info().
		Str("content_id", content.ID).
		Str("object_key", media.ObjectKey).
		Int64("size", size).
		Msg("media uploaded")

	return media.ToResponse(true), nil
}

func (s *mediaService) Get(contentID string) (*domain.MediaResponse, error) {
	media, err := s.findMedia(contentID)
	if err != nil {
		return nil, err
	}
	return media.ToResponse(true), nil
}

func (s *mediaService) GetDownloadURL(contentID string) (string, error) {
	media, err := s.findMedia(contentID)
	if err != nil {
		return "", err
	}
	if s.storage == nil {
		return "", fmt.Errorf("object storage is not configured")
	}
	return s.storage.GetPresignedURL(context.Background(), media.ObjectKey, presignedURLExpiry)
}

func (s *mediaService) Delete(contentID string) error {
	media, err := s.findMedia(contentID)
	if err != nil {
		return err
	}

	if err := s.mediaRepo.Delete(media.ID); err != nil {
		return err
	}
	if s.storage != nil && media.ObjectKey != "" {
		if err := s.storage.Delete(context.Background(), media.ObjectKey); err != nil {
			logger.GetLogger().Warn().Err(err).Str("key", media.ObjectKey).Msg("media object not removed")
		}
	}
	return nil
}

// UpsertTranscript creates or replaces the transcript for one language.
func (s *mediaService) UpsertTranscript(contentID string, req *domain.UpsertTranscriptRequest) (*domain.TranscriptResponse, error) {
	media, err := s.findMedia(contentID)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(strings.TrimSpace(req.Language))
	if !languagePattern.MatchString(language) {
		return nil, fmt.Errorf("%w: invalid language code %q", common.ErrValidation, req.Language)
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: transcript text is required", common.ErrValidation)
	}

	var transcript *domain.Transcript
	err = s.txManager.Transaction(func(tx *gorm.DB) error {
		mediaRepo := s.mediaRepo.WithTx(tx)

		existing, err := mediaRepo.FindTranscript(media.ID, language)
		switch {
		case err == nil:
			existing.Text = req.Text
			existing.Model = req.Model
			existing.IsPrimary = req.IsPrimary
			transcript = existing
			if err := mediaRepo.SaveTranscript(existing); err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			transcript = &domain.Transcript{
				MediaID:   media.ID,
				Language:  language,
				Text:      req.Text,
				Model:     req.Model,
				IsPrimary: req.IsPrimary,
			}
			if err := mediaRepo.CreateTranscript(transcript); err != nil {
				return err
			}
		default:
			return err
		}

		if transcript.IsPrimary {
			return tx.Model(&domain.Transcript{}).
				Where("media_id = ? AND id != ?", media.ID, transcript.ID).
				Update("is_primary", false).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return transcript.ToResponse(), nil
}

func (s *mediaService) DeleteTranscript(contentID, language string) error {
	media, err := s.findMedia(contentID)
	if err != nil {
		return err
	}

	transcript, err := s.mediaRepo.FindTranscript(media.ID, strings.ToLower(language))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound
		}
		return err
	}
	return s.mediaRepo.DeleteTranscript(transcript.ID)
}

func (s *mediaService) findMediaContent(contentID string) (*domain.Content, error) {
	content, err := s.contentRepo.FindByID(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, err
	}
	if !domain.IsMediaType(content.Type) {
		return nil, common.ErrNotMediaContent
	}
	return content, nil
}

func (s *mediaService) findMedia(contentID string) (*domain.MediaContent, error) {
	if _, err := s.findMediaContent(contentID); err != nil {
		return nil, err
	}
	media, err := s.mediaRepo.FindByContentID(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrMediaNotFound
		}
		return nil, err
	}
	return media, nil
}
