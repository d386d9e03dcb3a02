package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// ContentFilter narrows content listings
type ContentFilter struct {
	Type    string
	TagKeys []string
	Page    int
	PerPage int
}

// ContentRepository content identity data access
type ContentRepository interface {
	WithTx(tx *gorm.DB) ContentRepository
	Create(content *domain.Content) error
	FindByID(id string) (*domain.Content, error)
	List(filter ContentFilter) ([]*domain.Content, int64, error)
	Save(content *domain.Content) error
	Delete(id string) error
	AttachTag(contentID, tagID string) error
	DetachTag(contentID, tagID string) error
	ClearTags(contentID string) error
	HasTag(contentID, tagID string) (bool, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) WithTx(tx *gorm.DB) ContentRepository {
	if tx == nil {
		return r
	}
	return &contentRepository{db: tx}
}

func (r *contentRepository) Create(content *domain.Content) error {
	return r.db.Create(content).Error
}

func (r *contentRepository) FindByID(id string) (*domain.Content, error) {
	var content domain.Content
	err := r.db.
		Preload("Translations").
		Preload("Media").
		Preload("Media.Transcripts").
		Preload("Tags").
		Preload("Tags.Labels").
		Where("id = ?", id).
		First(&content).Error
	if err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *contentRepository) List(filter ContentFilter) ([]*domain.Content, int64, error) {
	var contents []*domain.Content
	var total int64

	query := r.db.Model(&domain.Content{})
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if len(filter.TagKeys) > 0 {
		query = query.
			Joins("JOIN content_tags ON content_tags.content_id = contents.id").
			Joins("JOIN tags ON tags.id = content_tags.tag_id").
			Where("tags.key IN ?", filter.TagKeys).
			Distinct("contents.*")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PerPage
	err := query.
		Preload("Translations").
		Preload("Media").
		Preload("Tags").
		Preload("Tags.Labels").
		Order("updated_at DESC").
		Offset(offset).
		Limit(filter.PerPage).
		Find(&contents).Error
	if err != nil {
		return nil, 0, err
	}
	return contents, total, nil
}

func (r *contentRepository) Save(content *domain.Content) error {
	return r.db.Save(content).Error
}

func (r *contentRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Content{}).Error
}

func (r *contentRepository) AttachTag(contentID, tagID string) error {
	return r.db.Create(&domain.ContentTag{ContentID: contentID, TagID: tagID}).Error
}

func (r *contentRepository) DetachTag(contentID, tagID string) error {
	return r.db.Where("content_id = ? AND tag_id = ?", contentID, tagID).
		Delete(&domain.ContentTag{}).Error
}

func (r *contentRepository) ClearTags(contentID string) error {
	return r.db.Where("content_id = ?", contentID).Delete(&domain.ContentTag{}).Error
}

func (r *contentRepository) HasTag(contentID, tagID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ContentTag{}).
		Where("content_id = ? AND tag_id = ?", contentID, tagID).
		Count(&count).Error
	return count > 0, err
}
