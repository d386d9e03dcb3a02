package domain

import (
	"time"

	"gorm.io/gorm"
)

// Tag is a language-neutral taxonomy entry keyed by a stable machine
// identifier. Display labels can be overridden per language via TagLabel.
type Tag struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Key          string    `gorm:"column:key;type:varchar(200);uniqueIndex;not null" json:"key"`
	DefaultLabel string    `gorm:"column:default_label;type:varchar(200);not null" json:"default_label"`
	Namespace    *string   `gorm:"column:namespace;type:varchar(100)" json:"namespace,omitempty"`
	Color        *string   `gorm:"column:color;type:varchar(7)" json:"color,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Labels   []TagLabel `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"-"`
	Contents []Content  `gorm:"many2many:content_tags" json:"-"`
}

func (Tag) TableName() string { return "tags" }

// BeforeCreate assigns a uuid id
func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// TagLabel is a localized override of a tag's display label
type TagLabel struct {
	ID       string `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	TagID    string `gorm:"column:tag_id;type:varchar(36);not null;uniqueIndex:uq_tag_language,priority:1" json:"tag_id"`
	Language string `gorm:"column:language;type:varchar(10);not null;uniqueIndex:uq_tag_language,priority:2;index:idx_tag_label_language" json:"language"`
	Label    string `gorm:"column:label;type:varchar(200);not null" json:"label"`
}

func (TagLabel) TableName() string { return "tag_labels" }

// BeforeCreate assigns a uuid id
func (l *TagLabel) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = NewID()
	}
	return nil
}

// TagResponse is the serialized view of a tag. Label carries the localized
// label when a language was requested, falling back to the default label.
type TagResponse struct {
	ID           string    `json:"id"`
	Key          string    `json:"key"`
	DefaultLabel string    `json:"default_label"`
	Namespace    *string   `json:"namespace,omitempty"`
	Color        *string   `json:"color,omitempty"`
	Label        string    `json:"label,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse serializes the tag, localizing the label when language is set
func (t *Tag) ToResponse(language string) *TagResponse {
	resp := &TagResponse{
		ID:           t.ID,
		Key:          t.Key,
		DefaultLabel: t.DefaultLabel,
		Namespace:    t.Namespace,
		Color:        t.Color,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}

	if language != "" {
		resp.Label = t.DefaultLabel
		for i := range t.Labels {
			if t.Labels[i].Language == language {
				resp.Label = t.Labels[i].Label
				break
			}
		}
	}

	return resp
}

// CreateTagRequest creates a taxonomy entry
type CreateTagRequest struct {
	Key          string  `json:"key" binding:"required"`
	DefaultLabel string  `json:"default_label" binding:"required"`
	Namespace    *string `json:"namespace"`
	Color        *string `json:"color"`
}

// UpdateTagRequest updates tag attributes; the key is immutable
type UpdateTagRequest struct {
	DefaultLabel *string `json:"default_label"`
	Namespace    *string `json:"namespace"`
	Color        *string `json:"color"`
}

// UpsertTagLabelRequest creates or replaces a localized label
type UpsertTagLabelRequest struct {
	Language string `json:"language"`
	Label    string `json:"label"`
}
