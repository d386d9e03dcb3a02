package service

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSign_KnownVector(t *testing.T) {
	sig := Sign("secret", []byte(`{"event":"translation.updated"}`))

	assert.Regexp(t, `^sha256=[0-9a-f]{64}$`, sig)
	// Deterministic for the same secret and body.
	assert.Equal(t, sig, Sign("secret", []byte(`{"event":"translation.updated"}`)))
	assert.NotEqual(t, sig, Sign("other", []byte(`{"event":"translation.updated"}`)))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"hello":"world"}`)
	sig := Sign("s3cret", body)

	assert.True(t, VerifySignature("s3cret", body, sig))
	assert.True(t, VerifySignature("s3cret", body, " "+sig+" "))
	assert.False(t, VerifySignature("wrong", body, sig))
	assert.False(t, VerifySignature("s3cret", []byte("tampered"), sig))
}

func TestCreateWebhook_GeneratesSecretOnce(t *testing.T) {
	repo := new(mockWebhookRepo)
	svc := NewWebhookService(repo)

	repo.On("Create", mock.MatchedBy(func(w *domain.Webhook) bool {
		return w.URL == "https://example.com/hook" && w.IsActive && len(w.Secret) > 10
	})).Return(nil)

	resp, err := svc.Create(&domain.CreateWebhookRequest{
		URL:    "https://example.com/hook",
		Events: []string{domain.EventTranslationRevert},
	})

	assert.NoError(t, err)
	assert.Regexp(t, `^whsec_[0-9a-f]{64}$`, resp.Secret)

	// The secret never reappears on reads.
	repo.On("FindByID", resp.ID).Return(&domain.Webhook{
		ID: resp.ID, URL: "https://example.com/hook", Secret: "whsec_x",
	}, nil)
	got, err := svc.Get(resp.ID)
	assert.NoError(t, err)
	assert.Empty(t, got.Secret)
}

func TestCreateWebhook_RejectsUnknownEvent(t *testing.T) {
	svc := NewWebhookService(new(mockWebhookRepo))

	_, err := svc.Create(&domain.CreateWebhookRequest{
		URL:    "https://example.com/hook",
		Events: []string{"content.exploded"},
	})

	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateWebhook_RejectsBadURL(t *testing.T) {
	svc := NewWebhookService(new(mockWebhookRepo))

	_, err := svc.Create(&domain.CreateWebhookRequest{
		URL:    "ftp://example.com",
		Events: []string{domain.EventContentCreated},
	})

	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestDeliver_SignsAndRecordsSuccess(t *testing.T) {
	var receivedSig string
	var receivedBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedSig = r.Header.Get(SignatureHeader)
		receivedBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	repo := new(mockWebhookRepo)
	repo.On("CreateDelivery", mock.Anything).Return(nil)
	var saved *domain.WebhookDelivery
	repo.On("SaveDelivery", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*domain.WebhookDelivery)
	}).Return(nil)

	svc := NewWebhookService(repo).(*webhookService)
	webhook := &domain.Webhook{ID: "w1", URL: server.URL, Secret: "whsec_abc"}
	body := []byte(`{"event":"content.created","data":{"content_id":"c1"}}`)

	svc.deliver(webhook, domain.EventContentCreated, body)

	assert.True(t, VerifySignature("whsec_abc", receivedBody, receivedSig))
	assert.Equal(t, domain.DeliverySuccess, saved.Status)
	assert.Equal(t, 1, saved.Attempts)
	assert.Equal(t, http.StatusOK, *saved.ResponseStatus)
}

func TestDeliver_ClientErrorDoesNotRetry(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	repo := new(mockWebhookRepo)
	repo.On("CreateDelivery", mock.Anything).Return(nil)
	var saved *domain.WebhookDelivery
	repo.On("SaveDelivery", mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(0).(*domain.WebhookDelivery)
	}).Return(nil)

	svc := NewWebhookService(repo).(*webhookService)
	webhook := &domain.Webhook{ID: "w1", URL: server.URL, Secret: "whsec_abc"}

	svc.deliver(webhook, domain.EventContentDeleted, []byte(`{}`))

	assert.Equal(t, 1, hits)
	assert.Equal(t, domain.DeliveryFailed, saved.Status)
	assert.Equal(t, 1, saved.Attempts)
}

func TestDispatch_FiltersBySubscription(t *testing.T) {
	repo := new(mockWebhookRepo)
	svc := NewWebhookService(repo)

	// No subscriber for the event: nothing is delivered or recorded.
	repo.On("FindActiveByEvent", domain.EventMediaUploaded).Return([]*domain.Webhook{}, nil)

	svc.Dispatch(domain.EventMediaUploaded, map[string]interface{}{"content_id": "c1"})

	repo.AssertNotCalled(t, "CreateDelivery", mock.Anything)
}

func TestWebhookEventsContains(t *testing.T) {
	w := &domain.Webhook{Events: domain.StringList{
		domain.EventTranslationCreated,
		domain.EventTranslationRevert,
	}}

	assert.True(t, w.Events.Contains(domain.EventTranslationRevert))
	assert.False(t, w.Events.Contains(domain.EventContentDeleted))
}
