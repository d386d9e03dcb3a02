package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gosimple/slug"
	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/metrics"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/cache"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/lingora/lingora-backend/pkg/markdown"
	"gorm.io/gorm"
)

const (
	maxSlugLength = 100

	// snapshotAttempts bounds the retry loop around the version-number race.
	// Two writers can both read MAX(version_number) before either commits;
	// the unique (translation_id, version_number) index rejects the loser,
	// who retries in a fresh transaction.
	snapshotAttempts = 3
)

var languagePattern = regexp.MustCompile(`^[a-z]{2,3}(-[A-Za-z0-9]{2,8})*$`)

// EventDispatcher publishes a domain event to registered webhooks. Dispatch
// must not block the caller.
type EventDispatcher interface {
	Dispatch(event string, payload interface{})
}

// SearchIndexer keeps the search index in sync with translation writes.
type SearchIndexer interface {
	IndexTranslation(translation *domain.ArticleTranslation)
	RemoveContent(contentID string)
}

// TranslationService owns per-language article bodies and their version
// history. Every successful write appends exactly one immutable snapshot.
type TranslationService interface {
	Create(contentID string, req *domain.CreateTranslationRequest, actorID *string) (*domain.TranslationResponse, error)
	Get(contentID, language string) (*domain.TranslationResponse, error)
	Update(contentID, language string, req *domain.UpdateTranslationRequest, actorID *string) (*domain.TranslationResponse, error)
	Delete(contentID, language string) error
	ListVersions(contentID, language string) ([]*domain.VersionSummary, error)
	GetVersion(contentID, language, versionID string) (*domain.VersionResponse, error)
	Revert(contentID, language, versionID string, actorID *string) (*domain.RevertResponse, error)
}

type translationService struct {
	contentRepo     repository.ContentRepository
	translationRepo repository.TranslationRepository
	versionRepo     repository.VersionRepository
	txManager       repository.TxManager
	cache           cache.Service
	dispatcher      EventDispatcher
	indexer         SearchIndexer
}

// NewTranslationService creates a new TranslationService. dispatcher and
// indexer may be nil.
func NewTranslationService(
	contentRepo repository.ContentRepository,
	translationRepo repository.TranslationRepository,
	versionRepo repository.VersionRepository,
	txManager repository.TxManager,
	cacheService cache.Service,
	dispatcher EventDispatcher,
	indexer SearchIndexer,
) TranslationService {
	return &translationService{
		contentRepo:     contentRepo,
		translationRepo: translationRepo,
		versionRepo:     versionRepo,
		txManager:       txManager,
		cache:           cacheService,
		dispatcher:      dispatcher,
		indexer:         indexer,
	}
}

func (s *translationService) Create(contentID string, req *domain.CreateTranslationRequest, actorID *string) (*domain.TranslationResponse, error) {
	content, err := s.findArticle(contentID)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(strings.TrimSpace(req.Language))
	if !languagePattern.MatchString(language) {
		return nil, fmt.Errorf("%w: invalid language code %q", common.ErrValidation, req.Language)
	}
	// Title is required; the markdown body may be empty and defaults to "".
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}

	if _, err := s.translationRepo.FindByContentAndLanguage(content.ID, language); err == nil {
		return nil, common.ErrTranslationExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// The id is assigned up front so the slug fallback for untitled
	// translations can borrow its first segment.
	translation := &domain.ArticleTranslation{
		ID:        domain.NewID(),
		ContentID: content.ID,
		Language:  language,
		Title:     strings.TrimSpace(req.Title),
		Markdown:  req.Markdown,
		IsPrimary: req.IsPrimary,
	}

	translation.Slug, err = generateSlug(translation.Title, language, translation.ID, s.translationRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	translation.RenderedHTML = markdown.Render(translation.Markdown)

	// First translation of a content becomes primary automatically.
	if len(content.Translations) == 0 {
		translation.IsPrimary = true
	}

	err = s.txManager.Transaction(func(tx *gorm.DB) error {
		translationRepo := s.translationRepo.WithTx(tx)
		versionRepo := s.versionRepo.WithTx(tx)

		if err := translationRepo.Create(translation); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return common.ErrTranslationExists
			}
			return err
		}
		if translation.IsPrimary {
			if err := translationRepo.ClearPrimary(content.ID, translation.ID); err != nil {
				return err
			}
		}
		return versionRepo.Create(snapshotOf(translation, 1, actorID))
	})
	if err != nil {
		return nil, err
	}

	metrics.CountSnapshot(metrics.TriggerCreate)
	s.afterWrite(content.ID, translation, domain.EventTranslationCreated)
	logger.GetLogger().Info().
		Str("content_id", content.ID).
		Str("language", language).
		Str("translation_id", translation.ID).
		Msg("translation created")

	return translation.ToResponse(), nil
}

func (s *translationService) Get(contentID, language string) (*domain.TranslationResponse, error) {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return nil, err
	}
	return translation.ToResponse(), nil
}

func (s *translationService) Update(contentID, language string, req *domain.UpdateTranslationRequest, actorID *string) (*domain.TranslationResponse, error) {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
		}
		translation.Title = title
	}
	if req.Markdown != nil {
		translation.Markdown = *req.Markdown
		translation.RenderedHTML = markdown.Render(translation.Markdown)
	}

	promote := req.IsPrimary != nil && *req.IsPrimary && !translation.IsPrimary
	if req.IsPrimary != nil {
		translation.IsPrimary = *req.IsPrimary
	}

	// Every successful update appends exactly one snapshot, flag-only
	// updates included. The history counts operations, not text changes.
	_, err = s.saveWithSnapshot(translation, promote, actorID)
	if err != nil {
		return nil, err
	}

	metrics.CountSnapshot(metrics.TriggerUpdate)
	s.afterWrite(translation.ContentID, translation, domain.EventTranslationUpdated)
	return translation.ToResponse(), nil
}

func (s *translationService) Delete(contentID, language string) error {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return err
	}

	// Versions cascade with the translation row.
	err = s.txManager.Transaction(func(tx *gorm.DB) error {
		return s.translationRepo.WithTx(tx).Delete(translation.ID)
	})
	if err != nil {
		return err
	}

	s.invalidate(contentID)
	logger.GetLogger().Info().
		Str("content_id", contentID).
		Str("language", language).
		Msg("translation deleted")
	return nil
}

func (s *translationService) ListVersions(contentID, language string) ([]*domain.VersionSummary, error) {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return nil, err
	}

	versions, err := s.versionRepo.FindByTranslation(translation.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.VersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, v.ToSummary())
	}
	return summaries, nil
}

func (s *translationService) GetVersion(contentID, language, versionID string) (*domain.VersionResponse, error) {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return nil, err
	}

	version, err := s.versionRepo.FindForTranslation(versionID, translation.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}
	return version.ToResponse(), nil
}

// Revert copies a historical snapshot's fields onto the live translation and
// appends the result as a brand new version. History is never rewritten, so
// reverting to v1 on a three-version history yields v4 with v1's text.
func (s *translationService) Revert(contentID, language, versionID string, actorID *string) (*domain.RevertResponse, error) {
	translation, err := s.findTranslation(contentID, language)
	if err != nil {
		return nil, err
	}

	version, err := s.versionRepo.FindForTranslation(versionID, translation.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrVersionNotFound
		}
		return nil, err
	}

	translation.Title = version.Title
	translation.Markdown = version.Markdown
	translation.RenderedHTML = version.RenderedHTML
	if translation.RenderedHTML == "" {
		translation.RenderedHTML = markdown.Render(translation.Markdown)
	}
	// The slug is part of the translation's address, not its body; reverting
	// never changes it.

	head, err := s.saveWithSnapshot(translation, false, actorID)
	if err != nil {
		return nil, err
	}

	metrics.CountSnapshot(metrics.TriggerRevert)
	s.afterWrite(translation.ContentID, translation, domain.EventTranslationRevert)
	logger.GetLogger().Info().
		Str("translation_id", translation.ID).
		Int("version_applied", version.VersionNumber).
		Int("new_version", head).
		Msg("translation reverted")

	// version_applied names the restored snapshot; the appended head rides
	// along as new_version_number.
	return &domain.RevertResponse{
		Status:           "reverted",
		TranslationID:    translation.ID,
		VersionApplied:   version.VersionNumber,
		NewVersionNumber: head,
	}, nil
}

// saveWithSnapshot persists the translation and appends the next version in
// one transaction, retrying on the version-number race. Returns the version
// number that was applied.
func (s *translationService) saveWithSnapshot(translation *domain.ArticleTranslation, promote bool, actorID *string) (int, error) {
	var applied int

	for attempt := 1; attempt <= snapshotAttempts; attempt++ {
		err := s.txManager.Transaction(func(tx *gorm.DB) error {
			translationRepo := s.translationRepo.WithTx(tx)
			versionRepo := s.versionRepo.WithTx(tx)

			next, err := versionRepo.NextVersionNumber(translation.ID)
			if err != nil {
				return err
			}
			if err := versionRepo.Create(snapshotOf(translation, next, actorID)); err != nil {
				return err
			}
			if err := translationRepo.Save(translation); err != nil {
				return err
			}
			if promote {
				if err := translationRepo.ClearPrimary(translation.ContentID, translation.ID); err != nil {
					return err
				}
			}
			applied = next
			return nil
		})
		if err == nil {
			return applied, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, err
		}
		metrics.CountConflictRetry()
		logger.GetLogger().Warn().
			Str("translation_id", translation.ID).
			Int("attempt", attempt).
			Msg("version number collision, retrying snapshot")
	}

	return 0, common.ErrVersionConflict
}

// snapshotOf builds an immutable version row from the translation's current
// state. Language and content id are denormalized so version listings never
// need a join.
func snapshotOf(t *domain.ArticleTranslation, versionNumber int, actorID *string) *domain.ArticleTranslationVersion {
	return &domain.ArticleTranslationVersion{
		TranslationID: t.ID,
		ContentID:     t.ContentID,
		Language:      t.Language,
		VersionNumber: versionNumber,
		Title:         t.Title,
		Markdown:      t.Markdown,
		RenderedHTML:  t.RenderedHTML,
		CreatedByID:   actorID,
	}
}

// generateSlug derives a unique (slug, language) slug from the title. Untitled
// translations fall back to the first segment of the translation id. Collisions
// get a numeric suffix.
func generateSlug(title, language, translationID string, slugExists func(slug, language string) (bool, error)) (string, error) {
	base := slug.Make(title)
	if len(base) > maxSlugLength {
		base = strings.TrimRight(base[:maxSlugLength], "-")
	}
	if base == "" {
		base = "untitled-" + translationID[:8]
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		exists, err := slugExists(candidate, language)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, suffix)
	}
}

func (s *translationService) findArticle(contentID string) (*domain.Content, error) {
	content, err := s.contentRepo.FindByID(contentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, err
	}
	if content.Type != domain.TypeArticle {
		return nil, common.ErrNotArticleContent
	}
	return content, nil
}

func (s *translationService) findTranslation(contentID, language string) (*domain.ArticleTranslation, error) {
	if _, err := s.findArticle(contentID); err != nil {
		return nil, err
	}

	translation, err := s.translationRepo.FindByContentAndLanguage(contentID, strings.ToLower(language))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrTranslationNotFound
		}
		return nil, err
	}
	return translation, nil
}

func (s *translationService) invalidate(contentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateContent(context.Background(), contentID); err != nil {
		logger.GetLogger().Warn().Err(err).Str("content_id", contentID).Msg("cache invalidation failed")
	}
}

func (s *translationService) afterWrite(contentID string, translation *domain.ArticleTranslation, event string) {
	s.invalidate(contentID)
	if s.indexer != nil {
		s.indexer.IndexTranslation(translation)
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(event, map[string]interface{}{
			"content_id":     contentID,
			"translation_id": translation.ID,
			"language":       translation.Language,
			"slug":           translation.Slug,
		})
	}
}
