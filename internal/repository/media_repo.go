package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// MediaRepository media asset and transcript data access
type MediaRepository interface {
	WithTx(tx *gorm.DB) MediaRepository
	Create(media *domain.MediaContent) error
	Save(media *domain.MediaContent) error
	FindByID(id string) (*domain.MediaContent, error)
	FindByContentID(contentID string) (*domain.MediaContent, error)
	Delete(id string) error
	FindTranscript(mediaID, language string) (*domain.Transcript, error)
	CreateTranscript(transcript *domain.Transcript) error
	SaveTranscript(transcript *domain.Transcript) error
	DeleteTranscript(id string) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) WithTx(tx *gorm.DB) MediaRepository {
	if tx == nil {
		return r
	}
	return &mediaRepository{db: tx}
}

func (r *mediaRepository) Create(media *domain.MediaContent) error {
	return r.db.Create(media).Error
}

func (r *mediaRepository) Save(media *domain.MediaContent) error {
	return r.db.Save(media).Error
}

func (r *mediaRepository) FindByID(id string) (*domain.MediaContent, error) {
	var media domain.MediaContent
	err := r.db.Preload("Transcripts").Where("id = ?", id).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) FindByContentID(contentID string) (*domain.MediaContent, error) {
	var media domain.MediaContent
	err := r.db.Preload("Transcripts").Where("content_id = ?", contentID).First(&media).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.MediaContent{}).Error
}

func (r *mediaRepository) FindTranscript(mediaID, language string) (*domain.Transcript, error) {
	var transcript domain.Transcript
	err := r.db.Where("media_id = ? AND language = ?", mediaID, language).
		First(&transcript).Error
	if err != nil {
		return nil, err
	}
	return &transcript, nil
}

func (r *mediaRepository) CreateTranscript(transcript *domain.Transcript) error {
	return r.db.Create(transcript).Error
}

func (r *mediaRepository) SaveTranscript(transcript *domain.Transcript) error {
	return r.db.Save(transcript).Error
}

func (r *mediaRepository) DeleteTranscript(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Transcript{}).Error
}
