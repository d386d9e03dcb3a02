package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Webhook event types
const (
	EventContentCreated     = "content.created"
	EventContentUpdated     = "content.updated"
	EventContentDeleted     = "content.deleted"
	EventTranslationCreated = "translation.created"
	EventTranslationUpdated = "translation.updated"
	EventTranslationRevert  = "translation.reverted"
	EventMediaUploaded      = "media.uploaded"
)

// Delivery statuses
const (
	DeliveryPending = "pending"
	DeliverySuccess = "success"
	DeliveryFailed  = "failed"
)

// StringList stores a JSON array of strings in a single column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = nil
		return nil
	}
	return fmt.Errorf("unsupported type for StringList: %T", value)
}

// Contains reports whether the list holds s
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Webhook is a registered external endpoint subscribed to domain events
type Webhook struct {
	ID        string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	URL       string     `gorm:"column:url;type:varchar(500);not null" json:"url"`
	Secret    string     `gorm:"column:secret;type:varchar(255)" json:"-"`
	Events    StringList `gorm:"column:events;type:json;not null" json:"events"`
	IsActive  bool       `gorm:"column:is_active;default:true;not null" json:"is_active"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Deliveries []WebhookDelivery `gorm:"foreignKey:WebhookID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Webhook) TableName() string { return "webhooks" }

// BeforeCreate assigns a uuid id
func (w *Webhook) BeforeCreate(*gorm.DB) error {
	if w.ID == "" {
		w.ID = NewID()
	}
	return nil
}

// WebhookDelivery records one delivery attempt sequence for an event
type WebhookDelivery struct {
	ID             string     `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	WebhookID      string     `gorm:"column:webhook_id;type:varchar(36);not null;index" json:"webhook_id"`
	EventType      string     `gorm:"column:event_type;type:varchar(100);not null;index:idx_delivery_event_type" json:"event_type"`
	Payload        string     `gorm:"column:payload;type:json;not null" json:"-"`
	Status         string     `gorm:"column:status;type:enum('pending','success','failed');default:'pending';not null;index:idx_delivery_status" json:"status"`
	Attempts       int        `gorm:"column:attempts;default:0;not null" json:"attempts"`
	LastAttemptAt  *time.Time `gorm:"column:last_attempt_at" json:"last_attempt_at,omitempty"`
	ResponseStatus *int       `gorm:"column:response_status" json:"response_status,omitempty"`
	ResponseBody   string     `gorm:"column:response_body;type:text" json:"-"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (WebhookDelivery) TableName() string { return "webhook_deliveries" }

// BeforeCreate assigns a uuid id
func (d *WebhookDelivery) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = NewID()
	}
	return nil
}

// WebhookResponse is the serialized view of a webhook. The secret is only
// ever included once, on creation.
type WebhookResponse struct {
	ID        string     `json:"id"`
	URL       string     `json:"url"`
	Events    StringList `json:"events"`
	IsActive  bool       `json:"is_active"`
	Secret    string     `json:"secret,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToResponse serializes the webhook without its secret
func (w *Webhook) ToResponse() *WebhookResponse {
	return &WebhookResponse{
		ID:        w.ID,
		URL:       w.URL,
		Events:    w.Events,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// CreateWebhookRequest registers an endpoint; the signing secret is
// generated server-side
type CreateWebhookRequest struct {
	URL      string   `json:"url" binding:"required"`
	Events   []string `json:"events" binding:"required"`
	IsActive *bool    `json:"is_active"`
}

// UpdateWebhookRequest updates webhook registration
type UpdateWebhookRequest struct {
	URL      *string   `json:"url"`
	Events   *[]string `json:"events"`
	IsActive *bool     `json:"is_active"`
}
