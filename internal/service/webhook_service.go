package service

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/metrics"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	webhookTimeout     = 30 * time.Second
	webhookMaxAttempts = 3
	responseBodyLimit  = 4 * 1024
)

// SignatureHeader carries the HMAC-SHA256 signature of the request body,
// hex-encoded with a "sha256=" prefix.
const SignatureHeader = "X-Webhook-Signature"

// WebhookService manages endpoint registrations and delivers domain events
// to them. Deliveries run in the background with bounded retry and are
// recorded per attempt sequence.
type WebhookService interface {
	EventDispatcher
	Create(req *domain.CreateWebhookRequest) (*domain.WebhookResponse, error)
	Get(id string) (*domain.WebhookResponse, error)
	List() ([]*domain.WebhookResponse, error)
	Update(id string, req *domain.UpdateWebhookRequest) (*domain.WebhookResponse, error)
	Delete(id string) error
	ListDeliveries(id string, limit int) ([]*domain.WebhookDelivery, error)
}

type webhookService struct {
	webhookRepo repository.WebhookRepository
	httpClient  *http.Client
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(webhookRepo repository.WebhookRepository) WebhookService {
	return &webhookService{
		webhookRepo: webhookRepo,
		httpClient:  &http.Client{Timeout: webhookTimeout},
	}
}

var knownEvents = map[string]bool{
	domain.EventContentCreated:     true,
	domain.EventContentUpdated:     true,
	domain.EventContentDeleted:     true,
	domain.EventTranslationCreated: true,
	domain.EventTranslationUpdated: true,
	domain.EventTranslationRevert:  true,
	domain.EventMediaUploaded:      true,
}

func validateEvents(events []string) error {
	if len(events) == 0 {
		return fmt.Errorf("%w: at least one event is required", common.ErrValidation)
	}
	for _, e := range events {
		if !knownEvents[e] {
			return fmt.Errorf("%w: unknown event %q", common.ErrValidation, e)
		}
	}
	return nil
}

func validateWebhookURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: invalid webhook url", common.ErrValidation)
	}
	return nil
}

// Create registers an endpoint and generates its signing secret. The secret
// is returned exactly once, in this response.
func (s *webhookService) Create(req *domain.CreateWebhookRequest) (*domain.WebhookResponse, error) {
	if err := validateWebhookURL(req.URL); err != nil {
		return nil, err
	}
	if err := validateEvents(req.Events); err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	webhook := &domain.Webhook{
		URL:      req.URL,
		Secret:   secret,
		Events:   domain.StringList(req.Events),
		IsActive: true,
	}
	if req.IsActive != nil {
		webhook.IsActive = *req.IsActive
	}

	if err := s.webhookRepo.Create(webhook); err != nil {
		return nil, err
	}

	resp := webhook.ToResponse()
	resp.Secret = secret
	logger.GetLogger().Info().Str("webhook_id", webhook.ID).Str("url", webhook.URL).Msg("webhook registered")
	return resp, nil
}

func (s *webhookService) Get(id string) (*domain.WebhookResponse, error) {
	webhook, err := s.findWebhook(id)
	if err != nil {
		return nil, err
	}
	return webhook.ToResponse(), nil
}

func (s *webhookService) List() ([]*domain.WebhookResponse, error) {
	webhooks, err := s.webhookRepo.List()
	if err != nil {
		return nil, err
	}
	responses := make([]*domain.WebhookResponse, 0, len(webhooks))
	for _, w := range webhooks {
		responses = append(responses, w.ToResponse())
	}
	return responses, nil
}

func (s *webhookService) Update(id string, req *domain.UpdateWebhookRequest) (*domain.WebhookResponse, error) {
	webhook, err := s.findWebhook(id)
	if err != nil {
		return nil, err
	}

	if req.URL != nil {
		if err := validateWebhookURL(*req.URL); err != nil {
			return nil, err
		}
		webhook.URL = *req.URL
	}
	if req.Events != nil {
		if err := validateEvents(*req.Events); err != nil {
			return nil, err
		}
		webhook.Events = domain.StringList(*req.Events)
	}
	if req.IsActive != nil {
		webhook.IsActive = *req.IsActive
	}

	if err := s.webhookRepo.Save(webhook); err != nil {
		return nil, err
	}
	return webhook.ToResponse(), nil
}

func (s *webhookService) Delete(id string) error {
	if _, err := s.findWebhook(id); err != nil {
		return err
	}
	return s.webhookRepo.Delete(id)
}

func (s *webhookService) ListDeliveries(id string, limit int) ([]*domain.WebhookDelivery, error) {
	if _, err := s.findWebhook(id); err != nil {
		return nil, err
	}
	return s.webhookRepo.ListDeliveries(id, limit)
}

// Dispatch fans the event out to every subscribed active endpoint. The call
// returns immediately; each delivery runs in its own goroutine.
func (s *webhookService) Dispatch(event string, payload interface{}) {
	webhooks, err := s.webhookRepo.FindActiveByEvent(event)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("event", event).Msg("webhook lookup failed")
		return
	}
	if len(webhooks) == 0 {
		return
	}

	envelope := map[string]interface{}{
		"event":     event,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"data":      payload,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("event", event).Msg("webhook payload marshal failed")
		return
	}

	for _, webhook := range webhooks {
		go s.deliver(webhook, event, body)
	}
}

// deliver posts the payload with bounded exponential-backoff retry and
// records the outcome.
func (s *webhookService) deliver(webhook *domain.Webhook, event string, body []byte) {
	delivery := &domain.WebhookDelivery{
		WebhookID: webhook.ID,
		EventType: event,
		Payload:   string(body),
		Status:    domain.DeliveryPending,
	}
	if err := s.webhookRepo.CreateDelivery(delivery); err != nil {
		logger.GetLogger().Error().Err(err).Str("webhook_id", webhook.ID).Msg("delivery record creation failed")
		return
	}

	signature := Sign(webhook.Secret, body)

	operation := func() (struct{}, error) {
		delivery.Attempts++
		now := time.Now()
		delivery.LastAttemptAt = &now

		req, err := http.NewRequest(http.MethodPost, webhook.URL, bytes.NewReader(body))
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "lingora-webhook/1.0")
		req.Header.Set(SignatureHeader, signature)
		req.Header.Set("X-Webhook-Event", event)
		req.Header.Set("X-Webhook-Delivery", delivery.ID)

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
		status := resp.StatusCode
		delivery.ResponseStatus = &status
		delivery.ResponseBody = string(respBody)

		if status >= 200 && status < 300 {
			return struct{}{}, nil
		}
		if status >= 400 && status < 500 {
			// The endpoint rejected the payload; retrying will not help.
			return struct{}{}, backoff.Permanent(fmt.Errorf("endpoint returned %d", status))
		}
		return struct{}{}, fmt.Errorf("endpoint returned %d", status)
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = 2 * time.Second

	_, err := backoff.Retry(
		context.Background(),
		operation,
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(webhookMaxAttempts),
	)
	if err != nil {
		delivery.Status = domain.DeliveryFailed
		logger.GetLogger().Warn().Err(err).
			Str("webhook_id", webhook.ID).
			Str("event", event).
			Int("attempts", delivery.Attempts).
			Msg("webhook delivery failed")
	} else {
		delivery.Status = domain.DeliverySuccess
	}
	metrics.CountWebhookDelivery(delivery.Status)

	if err := s.webhookRepo.SaveDelivery(delivery); err != nil {
		logger.GetLogger().Error().Err(err).Str("delivery_id", delivery.ID).Msg("delivery record update failed")
	}
}

func (s *webhookService) findWebhook(id string) (*domain.Webhook, error) {
	webhook, err := s.webhookRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrWebhookNotFound
		}
		return nil, err
	}
	return webhook, nil
}

// Sign computes the signature header value for a payload: HMAC-SHA256 over
// the raw body, hex-encoded, prefixed with "sha256=".
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a received signature against the payload in
// constant time. Receivers use this to authenticate deliveries.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := Sign(secret, body)
	return hmac.Equal([]byte(strings.TrimSpace(signature)), []byte(expected))
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "whsec_" + hex.EncodeToString(buf), nil
}
