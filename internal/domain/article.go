package domain

import (
	"time"

	"gorm.io/gorm"
)

// ArticleTranslation is the per-language editable body of an article.
// At most one translation exists per (content, language); slugs are unique
// per (slug, language) and never regenerated after creation.
type ArticleTranslation struct {
	ID           string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID    string    `gorm:"column:content_id;type:varchar(36);not null;uniqueIndex:uq_content_language,priority:1;index" json:"content_id"`
	Language     string    `gorm:"column:language;type:varchar(10);not null;uniqueIndex:uq_content_language,priority:2;uniqueIndex:uq_slug_language,priority:2;index:idx_translation_language" json:"language"`
	Title        string    `gorm:"column:title;type:varchar(500);not null" json:"title"`
	Slug         string    `gorm:"column:slug;type:varchar(600);not null;uniqueIndex:uq_slug_language,priority:1;index:idx_translation_slug" json:"slug"`
	Markdown     string    `gorm:"column:markdown;type:mediumtext;not null" json:"markdown"`
	RenderedHTML string    `gorm:"column:rendered_html;type:mediumtext" json:"rendered_html"`
	IsPrimary    bool      `gorm:"column:is_primary;default:false;not null" json:"is_primary"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Versions []ArticleTranslationVersion `gorm:"foreignKey:TranslationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ArticleTranslation) TableName() string { return "article_translations" }

// BeforeCreate assigns a uuid id
func (t *ArticleTranslation) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// ArticleTranslationVersion is an immutable snapshot of a translation.
// One row is appended for every create, update and revert; rows are never
// updated or removed except by cascade with the parent translation.
type ArticleTranslationVersion struct {
	ID            string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	TranslationID string    `gorm:"column:translation_id;type:varchar(36);not null;uniqueIndex:uq_translation_version,priority:1;index" json:"translation_id"`
	ContentID     string    `gorm:"column:content_id;type:varchar(36);not null;index" json:"content_id"`
	Language      string    `gorm:"column:language;type:varchar(10);not null" json:"language"`
	VersionNumber int       `gorm:"column:version_number;not null;uniqueIndex:uq_translation_version,priority:2" json:"version_number"`
	Title         string    `gorm:"column:title;type:varchar(500);not null" json:"title"`
	Markdown      string    `gorm:"column:markdown;type:mediumtext;not null" json:"markdown"`
	RenderedHTML  string    `gorm:"column:rendered_html;type:mediumtext" json:"rendered_html"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	CreatedByID   *string   `gorm:"column:created_by_id;type:varchar(36)" json:"created_by_id,omitempty"`
}

func (ArticleTranslationVersion) TableName() string { return "article_translation_versions" }

// BeforeCreate assigns a uuid id
func (v *ArticleTranslationVersion) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = NewID()
	}
	return nil
}

// TranslationResponse is the serialized view of a translation
type TranslationResponse struct {
	ID           string    `json:"id"`
	ContentID    string    `json:"content_id"`
	Language     string    `json:"language"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Markdown     string    `json:"markdown"`
	RenderedHTML string    `json:"rendered_html"`
	IsPrimary    bool      `json:"is_primary"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse serializes the translation
func (t *ArticleTranslation) ToResponse() *TranslationResponse {
	return &TranslationResponse{
		ID:           t.ID,
		ContentID:    t.ContentID,
		Language:     t.Language,
		Title:        t.Title,
		Slug:         t.Slug,
		Markdown:     t.Markdown,
		RenderedHTML: t.RenderedHTML,
		IsPrimary:    t.IsPrimary,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// VersionSummary is the list view of a version: metadata without body text
type VersionSummary struct {
	ID            string    `json:"id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByID   *string   `json:"created_by_id,omitempty"`
}

// ToSummary serializes the version for listings
func (v *ArticleTranslationVersion) ToSummary() *VersionSummary {
	return &VersionSummary{
		ID:            v.ID,
		VersionNumber: v.VersionNumber,
		Title:         v.Title,
		Language:      v.Language,
		CreatedAt:     v.CreatedAt,
		CreatedByID:   v.CreatedByID,
	}
}

// VersionResponse is the full view of a version including body text
type VersionResponse struct {
	ID            string    `json:"id"`
	TranslationID string    `json:"translation_id"`
	VersionNumber int       `json:"version_number"`
	Title         string    `json:"title"`
	Markdown      string    `json:"markdown"`
	RenderedHTML  string    `json:"rendered_html"`
	Language      string    `json:"language"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedByID   *string   `json:"created_by_id,omitempty"`
}

// ToResponse serializes the full version
func (v *ArticleTranslationVersion) ToResponse() *VersionResponse {
	return &VersionResponse{
		ID:            v.ID,
		TranslationID: v.TranslationID,
		VersionNumber: v.VersionNumber,
		Title:         v.Title,
		Markdown:      v.Markdown,
		RenderedHTML:  v.RenderedHTML,
		Language:      v.Language,
		CreatedAt:     v.CreatedAt,
		CreatedByID:   v.CreatedByID,
	}
}

// CreateTranslationRequest creates a translation for an article
type CreateTranslationRequest struct {
	Language  string `json:"language"`
	Title     string `json:"title"`
	Markdown  string `json:"markdown"`
	IsPrimary bool   `json:"is_primary"`
}

// UpdateTranslationRequest updates title/markdown/primary flag; nil fields
// are left untouched
type UpdateTranslationRequest struct {
	Title     *string `json:"title"`
	Markdown  *string `json:"markdown"`
	IsPrimary *bool   `json:"is_primary"`
}

// RevertResponse reports the restored snapshot's number and the new history
// head that recorded the revert
type RevertResponse struct {
	Status           string `json:"status"`
	TranslationID    string `json:"translation_id"`
	VersionApplied   int    `json:"version_applied"`
	NewVersionNumber int    `json:"new_version_number"`
}
