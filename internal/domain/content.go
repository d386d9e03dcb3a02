package domain

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Content types
const (
	TypeArticle     = "article"
	TypeVideo       = "video"
	TypeAudio       = "audio"
	TypePublication = "publication"
)

// Visibility levels
const (
	VisibilityPrivate = "private"
	VisibilityOrg     = "org"
	VisibilityPublic  = "public"
)

// ValidContentType reports whether t is a known content type
func ValidContentType(t string) bool {
	switch t {
	case TypeArticle, TypeVideo, TypeAudio, TypePublication:
		return true
	}
	return false
}

// IsMediaType reports whether t owns a media child rather than translations
func IsMediaType(t string) bool {
	switch t {
	case TypeVideo, TypeAudio, TypePublication:
		return true
	}
	return false
}

// Content is the language-neutral identity row anchoring one item.
// Type is fixed at creation: articles own translations, the media types own
// exactly one MediaContent.
type Content struct {
	ID          string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Type        string    `gorm:"column:type;type:enum('article','video','audio','publication');not null" json:"type"`
	Visibility  string    `gorm:"column:visibility;type:enum('private','org','public');default:'private';not null" json:"visibility"`
	CreatedByID *string   `gorm:"column:created_by_id;type:varchar(36);index" json:"created_by_id,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Translations []ArticleTranslation `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"-"`
	Media        *MediaContent        `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE" json:"-"`
	Tags         []Tag                `gorm:"many2many:content_tags;constraint:OnDelete:CASCADE" json:"-"`
}

func (Content) TableName() string { return "contents" }

// BeforeCreate assigns a uuid id
func (c *Content) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

// ContentTag joins contents and tags
type ContentTag struct {
	ContentID string    `gorm:"column:content_id;primaryKey;type:varchar(36)" json:"content_id"`
	TagID     string    `gorm:"column:tag_id;primaryKey;type:varchar(36)" json:"tag_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ContentTag) TableName() string { return "content_tags" }

// ContentResponse is the serialized view of a content row. For articles the
// translation matching the requested language is selected with fallback to
// the primary translation, then the first available one.
type ContentResponse struct {
	ID           string                 `json:"id"`
	Type         string                 `json:"type"`
	Visibility   string                 `json:"visibility"`
	CreatedByID  *string                `json:"created_by_id,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Tags         []*TagResponse         `json:"tags"`
	Translation  *TranslationResponse   `json:"translation,omitempty"`
	Translations []*TranslationResponse `json:"translations,omitempty"`
	Media        *MediaResponse         `json:"media,omitempty"`
}

// ToResponse serializes the content. When language is empty every translation
// is included; otherwise the best match for the requested language is chosen.
func (c *Content) ToResponse(language string) *ContentResponse {
	resp := &ContentResponse{
		ID:          c.ID,
		Type:        c.Type,
		Visibility:  c.Visibility,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Tags:        make([]*TagResponse, 0, len(c.Tags)),
	}

	for i := range c.Tags {
		resp.Tags = append(resp.Tags, c.Tags[i].ToResponse(language))
	}

	switch {
	case c.Type == TypeArticle && language != "":
		if t := c.ResolveTranslation(language); t != nil {
			resp.Translation = t.ToResponse()
		}
	case c.Type == TypeArticle:
		resp.Translations = make([]*TranslationResponse, 0, len(c.Translations))
		for i := range c.Translations {
			resp.Translations = append(resp.Translations, c.Translations[i].ToResponse())
		}
	case c.Media != nil:
		resp.Media = c.Media.ToResponse(false)
	}

	return resp
}

// ResolveTranslation picks the translation for the requested language,
// falling back to the primary translation and then the first available one.
func (c *Content) ResolveTranslation(language string) *ArticleTranslation {
	if len(c.Translations) == 0 {
		return nil
	}
	for i := range c.Translations {
		if c.Translations[i].Language == language {
			return &c.Translations[i]
		}
	}
	for i := range c.Translations {
		if c.Translations[i].IsPrimary {
			return &c.Translations[i]
		}
	}
	return &c.Translations[0]
}

// TagRef is a flexible tag reference accepted on content create/update:
// a bare key string, an id reference, or a full descriptor. Unknown keys
// create new tags (create-on-reference).
type TagRef struct {
	ID           string `json:"id,omitempty"`
	Key          string `json:"key,omitempty"`
	DefaultLabel string `json:"default_label,omitempty"`
	Namespace    string `json:"namespace,omitempty"`
	Color        string `json:"color,omitempty"`
}

// UnmarshalJSON accepts either a bare string (treated as key) or an object
func (r *TagRef) UnmarshalJSON(data []byte) error {
	var key string
	if err := json.Unmarshal(data, &key); err == nil {
		r.Key = key
		return nil
	}

	type tagRef TagRef // avoid recursion
	var obj tagRef
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*r = TagRef(obj)
	return nil
}

// CreateContentRequest creates a content row with optional translations,
// media metadata and tags
type CreateContentRequest struct {
	Type         string                     `json:"type" binding:"required"`
	Visibility   string                     `json:"visibility"`
	Translation  *CreateTranslationRequest  `json:"translation"`
	Translations []CreateTranslationRequest `json:"translations"`
	Media        *CreateMediaRequest        `json:"media"`
	Tags         []TagRef                   `json:"tags"`
}

// UpdateContentRequest updates content metadata only; translations and
// versions have their own endpoints
type UpdateContentRequest struct {
	Visibility *string   `json:"visibility"`
	Tags       *[]TagRef `json:"tags"`
}

// ManageContentTagsRequest attaches or detaches tags by id
type ManageContentTagsRequest struct {
	TagIDs []string `json:"tag_ids"`
	Action string   `json:"action"` // add | remove
}
