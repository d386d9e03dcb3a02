package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// TranslationRepository article translation data access
type TranslationRepository interface {
	WithTx(tx *gorm.DB) TranslationRepository
	Create(translation *domain.ArticleTranslation) error
	Save(translation *domain.ArticleTranslation) error
	FindByID(id string) (*domain.ArticleTranslation, error)
	FindByContentAndLanguage(contentID, language string) (*domain.ArticleTranslation, error)
	SlugExists(slug, language string) (bool, error)
	ClearPrimary(contentID, exceptID string) error
	Delete(id string) error
}

type translationRepository struct {
	db *gorm.DB
}

// NewTranslationRepository creates a new TranslationRepository
func NewTranslationRepository(db *gorm.DB) TranslationRepository {
	return &translationRepository{db: db}
}

func (r *translationRepository) WithTx(tx *gorm.DB) TranslationRepository {
	if tx == nil {
		return r
	}
	return &translationRepository{db: tx}
}

func (r *translationRepository) Create(translation *domain.ArticleTranslation) error {
	return r.db.Create(translation).Error
}

func (r *translationRepository) Save(translation *domain.ArticleTranslation) error {
	return r.db.Save(translation).Error
}

func (r *translationRepository) FindByID(id string) (*domain.ArticleTranslation, error) {
	var translation domain.ArticleTranslation
	err := r.db.Where("id = ?", id).First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) FindByContentAndLanguage(contentID, language string) (*domain.ArticleTranslation, error) {
	var translation domain.ArticleTranslation
	err := r.db.Where("content_id = ? AND language = ?", contentID, language).
		First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (r *translationRepository) SlugExists(slug, language string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ArticleTranslation{}).
		Where("slug = ? AND language = ?", slug, language).
		Count(&count).Error
	return count > 0, err
}

// Delete removes the translation; its versions go with it by cascade.
func (r *translationRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.ArticleTranslation{}).Error
}

// ClearPrimary unsets the primary flag on every translation of the content
// except the given one, so promoting a translation is atomic.
func (r *translationRepository) ClearPrimary(contentID, exceptID string) error {
	return r.db.Model(&domain.ArticleTranslation{}).
		Where("content_id = ? AND id != ?", contentID, exceptID).
		Update("is_primary", false).Error
}
