package repository

import (
	"github.com/lingora/lingora-backend/internal/domain"
	"gorm.io/gorm"
)

// WebhookRepository webhook endpoint and delivery log data access
type WebhookRepository interface {
	Create(webhook *domain.Webhook) error
	Save(webhook *domain.Webhook) error
	FindByID(id string) (*domain.Webhook, error)
	List() ([]*domain.Webhook, error)
	FindActiveByEvent(event string) ([]*domain.Webhook, error)
	Delete(id string) error
	CreateDelivery(delivery *domain.WebhookDelivery) error
	SaveDelivery(delivery *domain.WebhookDelivery) error
	ListDeliveries(webhookID string, limit int) ([]*domain.WebhookDelivery, error)
}

type webhookRepository struct {
	db *gorm.DB
}

// NewWebhookRepository creates a new WebhookRepository
func NewWebhookRepository(db *gorm.DB) WebhookRepository {
	return &webhookRepository{db: db}
}

func (r *webhookRepository) Create(webhook *domain.Webhook) error {
	return r.db.Create(webhook).Error
}

func (r *webhookRepository) Save(webhook *domain.Webhook) error {
	return r.db.Save(webhook).Error
}

func (r *webhookRepository) FindByID(id string) (*domain.Webhook, error) {
	var webhook domain.Webhook
	err := r.db.Where("id = ?", id).First(&webhook).Error
	if err != nil {
		return nil, err
	}
	return &webhook, nil
}

func (r *webhookRepository) List() ([]*domain.Webhook, error) {
	var webhooks []*domain.Webhook
	err := r.db.Order("created_at DESC").Find(&webhooks).Error
	return webhooks, err
}

// FindActiveByEvent returns active endpoints subscribed to the event. The
// events column is a JSON array, so the filter happens in Go rather than SQL.
func (r *webhookRepository) FindActiveByEvent(event string) ([]*domain.Webhook, error) {
	var webhooks []*domain.Webhook
	err := r.db.Where("is_active = ?", true).Find(&webhooks).Error
	if err != nil {
		return nil, err
	}
	matched := make([]*domain.Webhook, 0, len(webhooks))
	for _, w := range webhooks {
		if w.Events.Contains(event) {
			matched = append(matched, w)
		}
	}
	return matched, nil
}

func (r *webhookRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Webhook{}).Error
}

func (r *webhookRepository) CreateDelivery(delivery *domain.WebhookDelivery) error {
	return r.db.Create(delivery).Error
}

func (r *webhookRepository) SaveDelivery(delivery *domain.WebhookDelivery) error {
	return r.db.Save(delivery).Error
}

func (r *webhookRepository) ListDeliveries(webhookID string, limit int) ([]*domain.WebhookDelivery, error) {
	var deliveries []*domain.WebhookDelivery
	if limit <= 0 {
		limit = 50
	}
	err := r.db.Where("webhook_id = ?", webhookID).
		Order("created_at DESC").
		Limit(limit).
		Find(&deliveries).Error
	return deliveries, err
}
