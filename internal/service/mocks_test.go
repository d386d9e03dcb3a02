package service

import (
	"os"
	"testing"

	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.InitStructured("test")
	os.Exit(m.Run())
}

// passTxManager runs the function directly; repositories see a nil tx and
// keep using their mocked receiver.
type passTxManager struct{}

func (passTxManager) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type mockContentRepo struct {
	mock.Mock
}

func (m *mockContentRepo) WithTx(tx *gorm.DB) repository.ContentRepository { return m }

func (m *mockContentRepo) Create(content *domain.Content) error {
	return m.Called(content).Error(0)
}

func (m *mockContentRepo) FindByID(id string) (*domain.Content, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Content), args.Error(1)
}

func (m *mockContentRepo) List(filter repository.ContentFilter) ([]*domain.Content, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Content), args.Get(1).(int64), args.Error(2)
}

func (m *mockContentRepo) Save(content *domain.Content) error {
	return m.Called(content).Error(0)
}

func (m *mockContentRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockContentRepo) AttachTag(contentID, tagID string) error {
	return m.Called(contentID, tagID).Error(0)
}

func (m *mockContentRepo) DetachTag(contentID, tagID string) error {
	return m.Called(contentID, tagID).Error(0)
}

func (m *mockContentRepo) ClearTags(contentID string) error {
	return m.Called(contentID).Error(0)
}

func (m *mockContentRepo) HasTag(contentID, tagID string) (bool, error) {
	args := m.Called(contentID, tagID)
	return args.Bool(0), args.Error(1)
}

type mockTranslationRepo struct {
	mock.Mock
}

func (m *mockTranslationRepo) WithTx(tx *gorm.DB) repository.TranslationRepository { return m }

func (m *mockTranslationRepo) Create(translation *domain.ArticleTranslation) error {
	return m.Called(translation).Error(0)
}

func (m *mockTranslationRepo) Save(translation *domain.ArticleTranslation) error {
	return m.Called(translation).Error(0)
}

func (m *mockTranslationRepo) FindByID(id string) (*domain.ArticleTranslation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleTranslation), args.Error(1)
}

func (m *mockTranslationRepo) FindByContentAndLanguage(contentID, language string) (*domain.ArticleTranslation, error) {
	args := m.Called(contentID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleTranslation), args.Error(1)
}

func (m *mockTranslationRepo) SlugExists(slug, language string) (bool, error) {
	args := m.Called(slug, language)
	return args.Bool(0), args.Error(1)
}

func (m *mockTranslationRepo) ClearPrimary(contentID, exceptID string) error {
	return m.Called(contentID, exceptID).Error(0)
}

func (m *mockTranslationRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

type mockVersionRepo struct {
	mock.Mock
}

func (m *mockVersionRepo) WithTx(tx *gorm.DB) repository.VersionRepository { return m }

func (m *mockVersionRepo) Create(version *domain.ArticleTranslationVersion) error {
	return m.Called(version).Error(0)
}

func (m *mockVersionRepo) NextVersionNumber(translationID string) (int, error) {
	args := m.Called(translationID)
	return args.Int(0), args.Error(1)
}

func (m *mockVersionRepo) FindByTranslation(translationID string) ([]*domain.ArticleTranslationVersion, error) {
	args := m.Called(translationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArticleTranslationVersion), args.Error(1)
}

func (m *mockVersionRepo) FindForTranslation(versionID, translationID string) (*domain.ArticleTranslationVersion, error) {
	args := m.Called(versionID, translationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArticleTranslationVersion), args.Error(1)
}

type mockTagRepo struct {
	mock.Mock
}

func (m *mockTagRepo) WithTx(tx *gorm.DB) repository.TagRepository { return m }

func (m *mockTagRepo) Create(tag *domain.Tag) error {
	return m.Called(tag).Error(0)
}

func (m *mockTagRepo) FindByID(id string) (*domain.Tag, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) FindByKey(key string) (*domain.Tag, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) List(namespace string) ([]*domain.Tag, error) {
	args := m.Called(namespace)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tag), args.Error(1)
}

func (m *mockTagRepo) Save(tag *domain.Tag) error {
	return m.Called(tag).Error(0)
}

func (m *mockTagRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockTagRepo) FindLabel(tagID, language string) (*domain.TagLabel, error) {
	args := m.Called(tagID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TagLabel), args.Error(1)
}

func (m *mockTagRepo) CreateLabel(label *domain.TagLabel) error {
	return m.Called(label).Error(0)
}

func (m *mockTagRepo) SaveLabel(label *domain.TagLabel) error {
	return m.Called(label).Error(0)
}

type mockMediaRepo struct {
	mock.Mock
}

func (m *mockMediaRepo) WithTx(tx *gorm.DB) repository.MediaRepository { return m }

func (m *mockMediaRepo) Create(media *domain.MediaContent) error {
	return m.Called(media).Error(0)
}

func (m *mockMediaRepo) Save(media *domain.MediaContent) error {
	return m.Called(media).Error(0)
}

func (m *mockMediaRepo) FindByID(id string) (*domain.MediaContent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MediaContent), args.Error(1)
}

func (m *mockMediaRepo) FindByContentID(contentID string) (*domain.MediaContent, error) {
	args := m.Called(contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MediaContent), args.Error(1)
}

func (m *mockMediaRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockMediaRepo) FindTranscript(mediaID, language string) (*domain.Transcript, error) {
	args := m.Called(mediaID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transcript), args.Error(1)
}

func (m *mockMediaRepo) CreateTranscript(transcript *domain.Transcript) error {
	return m.Called(transcript).Error(0)
}

func (m *mockMediaRepo) SaveTranscript(transcript *domain.Transcript) error {
	return m.Called(transcript).Error(0)
}

func (m *mockMediaRepo) DeleteTranscript(id string) error {
	return m.Called(id).Error(0)
}

type mockWebhookRepo struct {
	mock.Mock
}

func (m *mockWebhookRepo) Create(webhook *domain.Webhook) error {
	return m.Called(webhook).Error(0)
}

func (m *mockWebhookRepo) Save(webhook *domain.Webhook) error {
	return m.Called(webhook).Error(0)
}

func (m *mockWebhookRepo) FindByID(id string) (*domain.Webhook, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Webhook), args.Error(1)
}

func (m *mockWebhookRepo) List() ([]*domain.Webhook, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Webhook), args.Error(1)
}

func (m *mockWebhookRepo) FindActiveByEvent(event string) ([]*domain.Webhook, error) {
	args := m.Called(event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Webhook), args.Error(1)
}

func (m *mockWebhookRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockWebhookRepo) CreateDelivery(delivery *domain.WebhookDelivery) error {
	return m.Called(delivery).Error(0)
}

func (m *mockWebhookRepo) SaveDelivery(delivery *domain.WebhookDelivery) error {
	return m.Called(delivery).Error(0)
}

func (m *mockWebhookRepo) ListDeliveries(webhookID string, limit int) ([]*domain.WebhookDelivery, error) {
	args := m.Called(webhookID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WebhookDelivery), args.Error(1)
}
