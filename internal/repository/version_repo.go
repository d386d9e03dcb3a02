package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// VersionRepository translation version snapshot data access.
// Version rows are append-only: there is deliberately no update or delete
// beyond the cascade from the parent translation.
type VersionRepository interface {
	WithTx(tx *gorm.DB) VersionRepository
	Create(version *domain.ArticleTranslationVersion) error
	NextVersionNumber(translationID string) (int, error)
	FindByTranslation(translationID string) ([]*domain.ArticleTranslationVersion, error)
	FindForTranslation(versionID, translationID string) (*domain.ArticleTranslationVersion, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new VersionRepository
func NewVersionRepository(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) WithTx(tx *gorm.DB) VersionRepository {
	if tx == nil {
		return r
	}
	return &versionRepository{db: tx}
}

func (r *versionRepository) Create(version *domain.ArticleTranslationVersion) error {
	return r.db.Create(version).Error
}

// NextVersionNumber computes MAX(version_number)+1 for the translation,
// or 1 when no snapshot exists yet. The unique (translation_id,
// version_number) index catches the read-modify-write race; callers retry
// on gorm.ErrDuplicatedKey.
func (r *versionRepository) NextVersionNumber(translationID string) (int, error) {
	var maxVersion *int
	err := r.db.Model(&domain.ArticleTranslationVersion{}).
		Where("translation_id = ?", translationID).
		Select("MAX(version_number)").
		Scan(&maxVersion).Error
	if err != nil {
		return 1, err
	}
	if maxVersion == nil {
		return 1, nil
	}
	return *maxVersion + 1, nil
}

func (r *versionRepository) FindByTranslation(translationID string) ([]*domain.ArticleTranslationVersion, error) {
	var versions []*domain.ArticleTranslationVersion
	err := r.db.Where("translation_id = ?", translationID).
		Order("version_number DESC").
		Find(&versions).Error
	return versions, err
}

// FindForTranslation resolves a version id scoped to its translation, so a
// version belonging to another translation is simply not found.
func (r *versionRepository) FindForTranslation(versionID, translationID string) (*domain.ArticleTranslationVersion, error) {
	var version domain.ArticleTranslationVersion
	err := r.db.Where("id = ? AND translation_id = ?", versionID, translationID).
		First(&version).Error
	if err != nil {
		return nil, err
	}
	return &version, nil
}
