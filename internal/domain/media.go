package domain

import (
	"time"

	"gorm.io/gorm"
)

// MediaContent holds binary-asset metadata 1:1 with a video, audio or
// publication content row. The binary itself lives in object storage; only
// the key is recorded here.
type MediaContent struct {
	ID               string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	ContentID        string    `gorm:"column:content_id;type:varchar(36);not null;uniqueIndex" json:"content_id"`
	Kind             string    `gorm:"column:kind;type:enum('video','audio','publication');not null" json:"kind"`
	ObjectKey        string    `gorm:"column:object_key;type:varchar(500);not null" json:"object_key"`
	MimeType         *string   `gorm:"column:mime_type;type:varchar(100)" json:"mime_type,omitempty"`
	FileSize         *int64    `gorm:"column:file_size" json:"file_size,omitempty"`
	DurationSeconds  *float64  `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	ThumbnailKey     *string   `gorm:"column:thumbnail_key;type:varchar(500)" json:"thumbnail_key,omitempty"`
	OriginalLanguage *string   `gorm:"column:original_language;type:varchar(10)" json:"original_language,omitempty"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Transcripts []Transcript `gorm:"foreignKey:MediaID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MediaContent) TableName() string { return "media_contents" }

// BeforeCreate assigns a uuid id
func (m *MediaContent) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = NewID()
	}
	return nil
}

// Transcript holds per-language transcript text under a media record,
// unique per (media, language). Structurally parallel to translations but
// without versioning.
type Transcript struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	MediaID   string    `gorm:"column:media_id;type:varchar(36);not null;uniqueIndex:uq_media_language,priority:1" json:"media_id"`
	Language  string    `gorm:"column:language;type:varchar(10);not null;uniqueIndex:uq_media_language,priority:2;index:idx_transcript_language" json:"language"`
	Text      string    `gorm:"column:text;type:mediumtext;not null" json:"text"`
	Model     *string   `gorm:"column:model;type:varchar(100)" json:"model,omitempty"`
	IsPrimary bool      `gorm:"column:is_primary;default:false;not null" json:"is_primary"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Transcript) TableName() string { return "transcripts" }

// BeforeCreate assigns a uuid id
func (t *Transcript) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// MediaResponse is the serialized view of a media record
type MediaResponse struct {
	ID               string                `json:"id"`
	ContentID        string                `json:"content_id"`
	Kind             string                `json:"kind"`
	ObjectKey        string                `json:"object_key"`
	MimeType         *string               `json:"mime_type,omitempty"`
	FileSize         *int64                `json:"file_size,omitempty"`
	DurationSeconds  *float64              `json:"duration_seconds,omitempty"`
	ThumbnailKey     *string               `json:"thumbnail_key,omitempty"`
	OriginalLanguage *string               `json:"original_language,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
	Transcripts      []*TranscriptResponse `json:"transcripts,omitempty"`
}

// ToResponse serializes the media record
func (m *MediaContent) ToResponse(includeTranscripts bool) *MediaResponse {
	resp := &MediaResponse{
		ID:               m.ID,
		ContentID:        m.ContentID,
		Kind:             m.Kind,
		ObjectKey:        m.ObjectKey,
		MimeType:         m.MimeType,
		FileSize:         m.FileSize,
		DurationSeconds:  m.DurationSeconds,
		ThumbnailKey:     m.ThumbnailKey,
		OriginalLanguage: m.OriginalLanguage,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}

	if includeTranscripts {
		resp.Transcripts = make([]*TranscriptResponse, 0, len(m.Transcripts))
		for i := range m.Transcripts {
			resp.Transcripts = append(resp.Transcripts, m.Transcripts[i].ToResponse())
		}
	}

	return resp
}

// TranscriptResponse is the serialized view of a transcript
type TranscriptResponse struct {
	ID        string    `json:"id"`
	MediaID   string    `json:"media_id"`
	Language  string    `json:"language"`
	Text      string    `json:"text"`
	Model     *string   `json:"model,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToResponse serializes the transcript
func (t *Transcript) ToResponse() *TranscriptResponse {
	return &TranscriptResponse{
		ID:        t.ID,
		MediaID:   t.MediaID,
		Language:  t.Language,
		Text:      t.Text,
		Model:     t.Model,
		IsPrimary: t.IsPrimary,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// CreateMediaRequest carries media metadata on content creation
type CreateMediaRequest struct {
	ObjectKey        string   `json:"object_key"`
	MimeType         *string  `json:"mime_type"`
	FileSize         *int64   `json:"file_size"`
	DurationSeconds  *float64 `json:"duration_seconds"`
	ThumbnailKey     *string  `json:"thumbnail_key"`
	OriginalLanguage *string  `json:"original_language"`
}

// UpsertTranscriptRequest creates or updates a transcript per language
type UpsertTranscriptRequest struct {
	Language  string  `json:"language"`
	Text      string  `json:"text"`
	Model     *string `json:"model"`
	IsPrimary bool    `json:"is_primary"`
}
