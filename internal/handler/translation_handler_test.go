package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTranslationService struct {
	mock.Mock
}

func (m *mockTranslationService) Create(contentID string, req *domain.CreateTranslationRequest, actorID *string) (*domain.TranslationResponse, error) {
	args := m.Called(contentID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationResponse), args.Error(1)
}

func (m *mockTranslationService) Get(contentID, language string) (*domain.TranslationResponse, error) {
	args := m.Called(contentID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationResponse), args.Error(1)
}

func (m *mockTranslationService) Update(contentID, language string, req *domain.UpdateTranslationRequest, actorID *string) (*domain.TranslationResponse, error) {
	args := m.Called(contentID, language, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TranslationResponse), args.Error(1)
}

func (m *mockTranslationService) Delete(contentID, language string) error {
	return m.Called(contentID, language).Error(0)
}

func (m *mockTranslationService) ListVersions(contentID, language string) ([]*domain.VersionSummary, error) {
	args := m.Called(contentID, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VersionSummary), args.Error(1)
}

func (m *mockTranslationService) GetVersion(contentID, language, versionID string) (*domain.VersionResponse, error) {
	args := m.Called(contentID, language, versionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VersionResponse), args.Error(1)
}

func (m *mockTranslationService) Revert(contentID, language, versionID string, actorID *string) (*domain.RevertResponse, error) {
	args := m.Called(contentID, language, versionID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RevertResponse), args.Error(1)
}

func newTranslationRouter(svc *mockTranslationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTranslationHandler(svc)
	r := gin.New()
	r.POST("/contents/:id/translations", h.Create)
	r.GET("/contents/:id/translations/:lang", h.Get)
	r.GET("/contents/:id/translations/:lang/versions", h.ListVersions)
	r.POST("/contents/:id/translations/:lang/versions/:versionId/revert", h.Revert)
	return r
}

func TestTranslationCreate_Returns201(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("Create", "c1", mock.Anything, mock.Anything).Return(&domain.TranslationResponse{
		ID: "t1", ContentID: "c1", Language: "en", Slug: "hello",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/contents/c1/translations",
		strings.NewReader(`{"language":"en","title":"Hello","markdown":"body"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"slug":"hello"`)
}

func TestTranslationCreate_ConflictOnDuplicate(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("Create", "c1", mock.Anything, mock.Anything).Return(nil, common.ErrTranslationExists)

	req := httptest.NewRequest(http.MethodPost, "/contents/c1/translations",
		strings.NewReader(`{"language":"en","title":"Hello","markdown":"body"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTranslationCreate_BadBody(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/contents/c1/translations",
		strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTranslationGet_NotFound(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("Get", "c1", "fr").Return(nil, common.ErrTranslationNotFound)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contents/c1/translations/fr", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslationRevert_ReturnsAppliedVersion(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("Revert", "c1", "en", "v1", mock.Anything).Return(&domain.RevertResponse{
		Status: "reverted", TranslationID: "t1", VersionApplied: 1, NewVersionNumber: 4,
	}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/contents/c1/translations/en/versions/v1/revert", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version_applied":1`)
	assert.Contains(t, w.Body.String(), `"new_version_number":4`)
}

func TestTranslationVersionConflict_Returns409(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("Revert", "c1", "en", "v1", mock.Anything).Return(nil, common.ErrVersionConflict)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(
		http.MethodPost, "/contents/c1/translations/en/versions/v1/revert", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTranslationListVersions(t *testing.T) {
	svc := new(mockTranslationService)
	r := newTranslationRouter(svc)

	svc.On("ListVersions", "c1", "en").Return([]*domain.VersionSummary{
		{ID: "v2", VersionNumber: 2},
		{ID: "v1", VersionNumber: 1},
	}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/contents/c1/translations/en/versions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version_number":2`)
}
