package service

import (
	"testing"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newTranslationFixture() (*mockContentRepo, *mockTranslationRepo, *mockVersionRepo, TranslationService) {
	contentRepo := new(mockContentRepo)
	translationRepo := new(mockTranslationRepo)
	versionRepo := new(mockVersionRepo)
	svc := NewTranslationService(contentRepo, translationRepo, versionRepo, passTxManager{}, nil, nil, nil)
	return contentRepo, translationRepo, versionRepo, svc
}

func articleContent(id string, translations ...domain.ArticleTranslation) *domain.Content {
	return &domain.Content{ID: id, Type: domain.TypeArticle, Translations: translations}
}

func TestCreateTranslation_FirstVersionIsOne(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(nil, gorm.ErrRecordNotFound)
	translationRepo.On("SlugExists", "hello-world", "en").Return(false, nil)
	translationRepo.On("Create", mock.AnythingOfType("*domain.ArticleTranslation")).Return(nil)
	translationRepo.On("ClearPrimary", "c1", mock.AnythingOfType("string")).Return(nil)
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 1 && v.Title == "Hello World" && v.Language == "en"
	})).Return(nil)

	resp, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "EN",
		Title:    "Hello World",
		Markdown: "# Hello",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "en", resp.Language)
	assert.Equal(t, "hello-world", resp.Slug)
	// First translation of a content is promoted regardless of the flag.
	assert.True(t, resp.IsPrimary)
	assert.Contains(t, resp.RenderedHTML, "Hello")
	versionRepo.AssertExpectations(t)
}

func TestCreateTranslation_DuplicateLanguage(t *testing.T) {
	contentRepo, translationRepo, _, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{ID: "t1", ContentID: "c1", Language: "ko"}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "ko").Return(existing, nil)

	_, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "ko",
		Title:    "안녕",
		Markdown: "body",
	}, nil)

	assert.ErrorIs(t, err, common.ErrTranslationExists)
}

func TestCreateTranslation_NonArticleContent(t *testing.T) {
	contentRepo, _, _, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(&domain.Content{ID: "c1", Type: domain.TypeVideo}, nil)

	_, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "en",
		Title:    "x",
		Markdown: "y",
	}, nil)

	assert.ErrorIs(t, err, common.ErrNotArticleContent)
}

func TestCreateTranslation_InvalidLanguage(t *testing.T) {
	contentRepo, _, _, svc := newTranslationFixture()
	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)

	_, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "English!",
		Title:    "x",
		Markdown: "y",
	}, nil)

	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateTranslation_SlugCollisionGetsSuffix(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(nil, gorm.ErrRecordNotFound)
	translationRepo.On("SlugExists", "hello-world", "en").Return(true, nil)
	translationRepo.On("SlugExists", "hello-world-1", "en").Return(true, nil)
	translationRepo.On("SlugExists", "hello-world-2", "en").Return(false, nil)
	translationRepo.On("Create", mock.Anything).Return(nil)
	translationRepo.On("ClearPrimary", "c1", mock.Anything).Return(nil)
	versionRepo.On("Create", mock.Anything).Return(nil)

	resp, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "en",
		Title:    "Hello World",
		Markdown: "body",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "hello-world-2", resp.Slug)
}

func TestCreateTranslation_MissingTitle(t *testing.T) {
	contentRepo, translationRepo, _, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "en",
		Markdown: "body",
	}, nil)

	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreateTranslation_EmptyMarkdownAllowed(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(nil, gorm.ErrRecordNotFound)
	translationRepo.On("SlugExists", "getting-started", "en").Return(false, nil)
	translationRepo.On("Create", mock.Anything).Return(nil)
	translationRepo.On("ClearPrimary", "c1", mock.Anything).Return(nil)
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 1 && v.Markdown == ""
	})).Return(nil)

	resp, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "en",
		Title:    "Getting Started",
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "getting-started", resp.Slug)
	assert.Equal(t, "", resp.Markdown)
	versionRepo.AssertExpectations(t)
}

func TestCreateTranslation_UnslugifiableTitleFallsBackToID(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	contentRepo.On("FindByID", "c1").Return(articleContent("c1"), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(nil, gorm.ErrRecordNotFound)
	translationRepo.On("SlugExists", mock.Anything, "en").Return(false, nil)
	translationRepo.On("Create", mock.Anything).Return(nil)
	translationRepo.On("ClearPrimary", "c1", mock.Anything).Return(nil)
	versionRepo.On("Create", mock.Anything).Return(nil)

	resp, err := svc.Create("c1", &domain.CreateTranslationRequest{
		Language: "en",
		Title:    "???",
		Markdown: "body",
	}, nil)

	assert.NoError(t, err)
	assert.Regexp(t, `^untitled-[0-9a-f]{8}$`, resp.Slug)
}

func TestUpdateTranslation_AppendsNextVersion(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{
		ID: "t1", ContentID: "c1", Language: "en",
		Title: "Old", Slug: "old", Markdown: "old body",
	}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("NextVersionNumber", "t1").Return(2, nil)
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		// The snapshot captures the post-update state.
		return v.VersionNumber == 2 && v.Title == "New" && v.Markdown == "new body"
	})).Return(nil)
	translationRepo.On("Save", mock.Anything).Return(nil)

	title := "New"
	body := "new body"
	resp, err := svc.Update("c1", "en", &domain.UpdateTranslationRequest{
		Title:    &title,
		Markdown: &body,
	}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "New", resp.Title)
	// Slug never changes after creation.
	assert.Equal(t, "old", resp.Slug)
	versionRepo.AssertExpectations(t)
}

func TestUpdateTranslation_FlagOnlyAppendsVersion(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{
		ID: "t1", ContentID: "c1", Language: "en", Title: "T", Slug: "t", Markdown: "b",
	}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("NextVersionNumber", "t1").Return(2, nil)
	// The history counts operations, so even an is_primary-only update
	// appends a snapshot of the unchanged text.
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 2 && v.Title == "T" && v.Markdown == "b"
	})).Return(nil)
	translationRepo.On("Save", mock.Anything).Return(nil)
	translationRepo.On("ClearPrimary", "c1", "t1").Return(nil)

	isPrimary := true
	resp, err := svc.Update("c1", "en", &domain.UpdateTranslationRequest{IsPrimary: &isPrimary}, nil)

	assert.NoError(t, err)
	assert.True(t, resp.IsPrimary)
	versionRepo.AssertExpectations(t)
}

func TestRevert_AppendsNewVersionWithOldContent(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{
		ID: "t1", ContentID: "c1", Language: "en",
		Title: "Third", Slug: "first", Markdown: "third body",
	}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("FindForTranslation", "v1", "t1").Return(&domain.ArticleTranslationVersion{
		ID: "v1", TranslationID: "t1", VersionNumber: 1,
		Title: "First", Markdown: "first body", RenderedHTML: "<p>first body</p>",
	}, nil)
	versionRepo.On("NextVersionNumber", "t1").Return(4, nil)
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 4 && v.Title == "First" && v.Markdown == "first body"
	})).Return(nil)
	translationRepo.On("Save", mock.MatchedBy(func(tr *domain.ArticleTranslation) bool {
		return tr.Title == "First" && tr.Markdown == "first body" && tr.Slug == "first"
	})).Return(nil)

	resp, err := svc.Revert("c1", "en", "v1", nil)

	assert.NoError(t, err)
	assert.Equal(t, "reverted", resp.Status)
	assert.Equal(t, "t1", resp.TranslationID)
	// version_applied names the restored snapshot; the appended head is
	// reported separately.
	assert.Equal(t, 1, resp.VersionApplied)
	assert.Equal(t, 4, resp.NewVersionNumber)
	versionRepo.AssertExpectations(t)
}

func TestRevert_VersionFromAnotherTranslation(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{ID: "t1", ContentID: "c1", Language: "en"}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	// The version exists but belongs to t2; the scoped lookup misses.
	versionRepo.On("FindForTranslation", "v-other", "t1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Revert("c1", "en", "v-other", nil)

	assert.ErrorIs(t, err, common.ErrVersionNotFound)
}

func TestGetVersion_NotFoundWhenScopedOut(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{ID: "t1", ContentID: "c1", Language: "en"}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("FindForTranslation", "vx", "t1").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetVersion("c1", "en", "vx")

	assert.ErrorIs(t, err, common.ErrVersionNotFound)
}

func TestListVersions_NewestFirst(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{ID: "t1", ContentID: "c1", Language: "en"}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("FindByTranslation", "t1").Return([]*domain.ArticleTranslationVersion{
		{ID: "v3", VersionNumber: 3, Title: "C"},
		{ID: "v2", VersionNumber: 2, Title: "B"},
		{ID: "v1", VersionNumber: 1, Title: "A"},
	}, nil)

	versions, err := svc.ListVersions("c1", "en")

	assert.NoError(t, err)
	assert.Len(t, versions, 3)
	assert.Equal(t, 3, versions[0].VersionNumber)
	assert.Equal(t, 1, versions[2].VersionNumber)
}

func TestSnapshot_RetriesOnVersionCollision(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{
		ID: "t1", ContentID: "c1", Language: "en", Title: "T", Slug: "t", Markdown: "b",
	}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	// A concurrent writer claimed version 2 first; the retry reads 3.
	versionRepo.On("NextVersionNumber", "t1").Return(2, nil).Once()
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 2
	})).Return(gorm.ErrDuplicatedKey).Once()
	versionRepo.On("NextVersionNumber", "t1").Return(3, nil).Once()
	versionRepo.On("Create", mock.MatchedBy(func(v *domain.ArticleTranslationVersion) bool {
		return v.VersionNumber == 3
	})).Return(nil).Once()
	translationRepo.On("Save", mock.Anything).Return(nil)

	body := "updated"
	resp, err := svc.Update("c1", "en", &domain.UpdateTranslationRequest{Markdown: &body}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "updated", resp.Markdown)
	versionRepo.AssertExpectations(t)
}

func TestSnapshot_ConflictAfterExhaustedRetries(t *testing.T) {
	contentRepo, translationRepo, versionRepo, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{
		ID: "t1", ContentID: "c1", Language: "en", Title: "T", Slug: "t", Markdown: "b",
	}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	versionRepo.On("NextVersionNumber", "t1").Return(2, nil)
	versionRepo.On("Create", mock.Anything).Return(gorm.ErrDuplicatedKey)

	body := "updated"
	_, err := svc.Update("c1", "en", &domain.UpdateTranslationRequest{Markdown: &body}, nil)

	assert.ErrorIs(t, err, common.ErrVersionConflict)
	versionRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestDeleteTranslation(t *testing.T) {
	contentRepo, translationRepo, _, svc := newTranslationFixture()

	existing := &domain.ArticleTranslation{ID: "t1", ContentID: "c1", Language: "en"}
	contentRepo.On("FindByID", "c1").Return(articleContent("c1", *existing), nil)
	translationRepo.On("FindByContentAndLanguage", "c1", "en").Return(existing, nil)
	translationRepo.On("Delete", "t1").Return(nil)

	err := svc.Delete("c1", "en")

	assert.NoError(t, err)
	translationRepo.AssertCalled(t, "Delete", "t1")
}
