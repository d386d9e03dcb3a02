package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// TagRepository tag taxonomy data access
type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(tag *domain.Tag) error
	FindByID(id string) (*domain.Tag, error)
	FindByKey(key string) (*domain.Tag, error)
	List(namespace string) ([]*domain.Tag, error)
	Save(tag *domain.Tag) error
	Delete(id string) error
	FindLabel(tagID, language string) (*domain.TagLabel, error)
	CreateLabel(label *domain.TagLabel) error
	SaveLabel(label *domain.TagLabel) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	if tx == nil {
		return r
	}
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(tag *domain.Tag) error {
	return r.db.Create(tag).Error
}

func (r *tagRepository) FindByID(id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.Preload("Labels").Where("id = ?", id).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByKey(key string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.Preload("Labels").Where("`key` = ?", key).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) List(namespace string) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	query := r.db.Preload("Labels")
	if namespace != "" {
		query = query.Where("namespace = ?", namespace)
	}
	err := query.Order("default_label ASC").Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Save(tag *domain.Tag) error {
	return r.db.Save(tag).Error
}

func (r *tagRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Tag{}).Error
}

func (r *tagRepository) FindLabel(tagID, language string) (*domain.TagLabel, error) {
	var label domain.TagLabel
	err := r.db.Where("tag_id = ? AND language = ?", tagID, language).First(&label).Error
	if err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *tagRepository) CreateLabel(label *domain.TagLabel) error {
	return r.db.Create(label).Error
}

func (r *tagRepository) SaveLabel(label *domain.TagLabel) error {
	return r.db.Save(label).Error
}
