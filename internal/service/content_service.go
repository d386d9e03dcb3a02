package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/internal/repository"
	"github.com/lingora/lingora-backend/pkg/cache"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/lingora/lingora-backend/pkg/markdown"
	"gorm.io/gorm"
)

// ContentService owns language-neutral content identities: creation with
// inline translations, media metadata and tags, listings, and the tag
// attach/detach surface.
type ContentService interface {
	Create(req *domain.CreateContentRequest, actorID *string) (*domain.ContentResponse, error)
	Get(id, language string) (*domain.ContentResponse, error)
	List(filter repository.ContentFilter, language string) ([]*domain.ContentResponse, int64, error)
	Update(id string, req *domain.UpdateContentRequest) (*domain.ContentResponse, error)
	Delete(id string) error
	ManageTags(id string, req *domain.ManageContentTagsRequest) (*domain.ContentResponse, error)
}

type contentService struct {
	contentRepo     repository.ContentRepository
	translationRepo repository.TranslationRepository
	versionRepo     repository.VersionRepository
	tagRepo         repository.TagRepository
	mediaRepo       repository.MediaRepository
	txManager       repository.TxManager
	cache           cache.Service
	dispatcher      EventDispatcher
	indexer         SearchIndexer
}

// NewContentService creates a new ContentService. dispatcher and indexer may
// be nil.
func NewContentService(
	contentRepo repository.ContentRepository,
	translationRepo repository.TranslationRepository,
	versionRepo repository.VersionRepository,
	tagRepo repository.TagRepository,
	mediaRepo repository.MediaRepository,
	txManager repository.TxManager,
	cacheService cache.Service,
	dispatcher EventDispatcher,
	indexer SearchIndexer,
) ContentService {
	return &contentService{
		contentRepo:     contentRepo,
		translationRepo: translationRepo,
		versionRepo:     versionRepo,
		tagRepo:         tagRepo,
		mediaRepo:       mediaRepo,
		txManager:       txManager,
		cache:           cacheService,
		dispatcher:      dispatcher,
		indexer:         indexer,
	}
}

// Create persists a content row together with its inline translations, media
// metadata and tags in one transaction. Partial creates never survive.
func (s *contentService) Create(req *domain.CreateContentRequest, actorID *string) (*domain.ContentResponse, error) {
	if !domain.ValidContentType(req.Type) {
		return nil, fmt.Errorf("%w: unknown content type %q", common.ErrValidation, req.Type)
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPrivate
	}
	switch visibility {
	case domain.VisibilityPrivate, domain.VisibilityOrg, domain.VisibilityPublic:
	default:
		return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrValidation, req.Visibility)
	}

	translationReqs := req.Translations
	if req.Translation != nil {
		translationReqs = append([]domain.CreateTranslationRequest{*req.Translation}, translationReqs...)
	}
	if len(translationReqs) > 0 && req.Type != domain.TypeArticle {
		return nil, common.ErrNotArticleContent
	}
	if req.Type == domain.TypeArticle && len(translationReqs) == 0 {
		return nil, fmt.Errorf("%w: an article needs at least one translation", common.ErrValidation)
	}
	if req.Media != nil && !domain.IsMediaType(req.Type) {
		return nil, common.ErrNotMediaContent
	}

	translations, err := s.buildTranslations(translationReqs)
	if err != nil {
		return nil, err
	}

	content := &domain.Content{
		ID:          domain.NewID(),
		Type:        req.Type,
		Visibility:  visibility,
		CreatedByID: actorID,
	}

	err = s.txManager.Transaction(func(tx *gorm.DB) error {
		contentRepo := s.contentRepo.WithTx(tx)
		translationRepo := s.translationRepo.WithTx(tx)
		versionRepo := s.versionRepo.WithTx(tx)

		if err := contentRepo.Create(content); err != nil {
			return err
		}

		for i := range translations {
			translations[i].ContentID = content.ID
			if err := translationRepo.Create(translations[i]); err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return common.ErrTranslationExists
				}
				return err
			}
			if err := versionRepo.Create(snapshotOf(translations[i], 1, actorID)); err != nil {
				return err
			}
		}

		if req.Media != nil {
			media := &domain.MediaContent{
				ContentID:        content.ID,
				Kind:             req.Type,
				ObjectKey:        req.Media.ObjectKey,
				MimeType:         req.Media.MimeType,
				FileSize:         req.Media.FileSize,
				DurationSeconds:  req.Media.DurationSeconds,
				ThumbnailKey:     req.Media.ThumbnailKey,
				OriginalLanguage: req.Media.OriginalLanguage,
			}
			if err := s.mediaRepo.WithTx(tx).Create(media); err != nil {
				return err
			}
		}

		if len(req.Tags) > 0 {
			tags, err := s.resolveTagRefs(tx, req.Tags)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				if err := contentRepo.AttachTag(content.ID, tag.ID); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateLists()
	if s.indexer != nil {
		for _, t := range translations {
			s.indexer.IndexTranslation(t)
		}
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(domain.EventContentCreated, map[string]interface{}{
			"content_id": content.ID,
			"type":       content.Type,
		})
	}
	logger.GetLogger().Info().
		Str("content_id", content.ID).
		Str("type", content.Type).
		Int("translations", len(translations)).
		Msg("content created")

	return s.Get(content.ID, "")
}

func (s *contentService) Get(id, language string) (*domain.ContentResponse, error) {
	ctx := context.Background()

	// The per-language view is cheap to derive, so only the neutral view is
	// cached.
	if language == "" && s.cache != nil {
		if data, err := s.cache.GetContent(ctx, id); err == nil {
			var resp domain.ContentResponse
			if json.Unmarshal(data, &resp) == nil {
				return &resp, nil
			}
		}
	}

	content, err := s.contentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, err
	}

	resp := content.ToResponse(language)
	if language == "" && s.cache != nil {
		_ = s.cache.SetContent(ctx, id, resp)
	}
	return resp, nil
}

func (s *contentService) List(filter repository.ContentFilter, language string) ([]*domain.ContentResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 || filter.PerPage > 100 {
		filter.PerPage = 20
	}
	if filter.Type != "" && !domain.ValidContentType(filter.Type) {
		return nil, 0, fmt.Errorf("%w: unknown content type %q", common.ErrValidation, filter.Type)
	}

	type cachedList struct {
		Items []*domain.ContentResponse `json:"items"`
		Total int64                     `json:"total"`
	}

	ctx := context.Background()
	filterKey := fmt.Sprintf("%s:%s:%s:%d:%d",
		filter.Type, strings.Join(filter.TagKeys, ","), language, filter.Page, filter.PerPage)

	if s.cache != nil {
		if data, err := s.cache.GetContentList(ctx, filterKey); err == nil {
			var cached cachedList
			if json.Unmarshal(data, &cached) == nil {
				return cached.Items, cached.Total, nil
			}
		}
	}

	contents, total, err := s.contentRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*domain.ContentResponse, 0, len(contents))
	for _, c := range contents {
		items = append(items, c.ToResponse(language))
	}

	if s.cache != nil {
		_ = s.cache.SetContentList(ctx, filterKey, cachedList{Items: items, Total: total})
	}
	return items, total, nil
}

func (s *contentService) Update(id string, req *domain.UpdateContentRequest) (*domain.ContentResponse, error) {
	content, err := s.contentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, err
	}

	if req.Visibility != nil {
		switch *req.Visibility {
		case domain.VisibilityPrivate, domain.VisibilityOrg, domain.VisibilityPublic:
			content.Visibility = *req.Visibility
		default:
			return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrValidation, *req.Visibility)
		}
	}

	err = s.txManager.Transaction(func(tx *gorm.DB) error {
		contentRepo := s.contentRepo.WithTx(tx)
		if err := contentRepo.Save(content); err != nil {
			return err
		}

		// A tags field replaces the full tag set.
		if req.Tags != nil {
			if err := contentRepo.ClearTags(content.ID); err != nil {
				return err
			}
			tags, err := s.resolveTagRefs(tx, *req.Tags)
			if err != nil {
				return err
			}
			for _, tag := range tags {
				if err := contentRepo.AttachTag(content.ID, tag.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(content.ID)
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(domain.EventContentUpdated, map[string]interface{}{
			"content_id": content.ID,
		})
	}
	return s.Get(content.ID, "")
}

func (s *contentService) Delete(id string) error {
	if _, err := s.contentRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrContentNotFound
		}
		return err
	}

	err := s.txManager.Transaction(func(tx *gorm.DB) error {
		return s.contentRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}

	s.invalidate(id)
	if s.indexer != nil {
		s.indexer.RemoveContent(id)
	}
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(domain.EventContentDeleted, map[string]interface{}{
			"content_id": id,
		})
	}
	logger.GetLogger().Info().Str("content_id", id).Msg("content deleted")
	return nil
}

// ManageTags attaches or detaches tags by id. Both directions are idempotent:
// attaching an attached tag and detaching a detached one succeed silently.
func (s *contentService) ManageTags(id string, req *domain.ManageContentTagsRequest) (*domain.ContentResponse, error) {
	if req.Action != "add" && req.Action != "remove" {
		return nil, fmt.Errorf("%w: action must be add or remove", common.ErrValidation)
	}

	if _, err := s.contentRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrContentNotFound
		}
		return nil, err
	}

	err := s.txManager.Transaction(func(tx *gorm.DB) error {
		contentRepo := s.contentRepo.WithTx(tx)
		tagRepo := s.tagRepo.WithTx(tx)

		for _, tagID := range req.TagIDs {
			if _, err := tagRepo.FindByID(tagID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return common.ErrTagNotFound
				}
				return err
			}

			switch req.Action {
			case "add":
				attached, err := contentRepo.HasTag(id, tagID)
				if err != nil {
					return err
				}
				if !attached {
					if err := contentRepo.AttachTag(id, tagID); err != nil {
						return err
					}
				}
			case "remove":
				if err := contentRepo.DetachTag(id, tagID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(id)
	return s.Get(id, "")
}

// buildTranslations validates and materializes inline translation requests.
// Slugs are resolved here, outside the transaction; the unique index is the
// final arbiter.
func (s *contentService) buildTranslations(reqs []domain.CreateTranslationRequest) ([]*domain.ArticleTranslation, error) {
	seen := make(map[string]bool, len(reqs))
	translations := make([]*domain.ArticleTranslation, 0, len(reqs))

	for i := range reqs {
		req := &reqs[i]
		language := strings.ToLower(strings.TrimSpace(req.Language))
		if !languagePattern.MatchString(language) {
			return nil, fmt.Errorf("%w: invalid language code %q", common.ErrValidation, req.Language)
		}
		if seen[language] {
			return nil, fmt.Errorf("%w: duplicate language %q", common.ErrValidation, language)
		}
		seen[language] = true
		if strings.TrimSpace(req.Title) == "" {
			return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
		}

		translation := &domain.ArticleTranslation{
			ID:        domain.NewID(),
			Language:  language,
			Title:     strings.TrimSpace(req.Title),
			Markdown:  req.Markdown,
			IsPrimary: req.IsPrimary,
		}
		var err error
		translation.Slug, err = generateSlug(translation.Title, language, translation.ID, s.translationRepo.SlugExists)
		if err != nil {
			return nil, err
		}
		translation.RenderedHTML = markdown.Render(translation.Markdown)
		translations = append(translations, translation)
	}

	// Exactly one primary: the flagged one, else the first.
	if len(translations) > 0 {
		primaryIdx := 0
		for i, t := range translations {
			if t.IsPrimary {
				primaryIdx = i
				break
			}
		}
		for i := range translations {
			translations[i].IsPrimary = i == primaryIdx
		}
	}

	return translations, nil
}

// resolveTagRefs resolves tag references inside a transaction. Id references
// must exist; key references create the tag when missing (create-on-reference).
func (s *contentService) resolveTagRefs(tx *gorm.DB, refs []domain.TagRef) ([]*domain.Tag, error) {
	tagRepo := s.tagRepo.WithTx(tx)
	tags := make([]*domain.Tag, 0, len(refs))
	seen := make(map[string]bool, len(refs))

	for _, ref := range refs {
		var tag *domain.Tag
		var err error

		switch {
		case ref.ID != "":
			tag, err = tagRepo.FindByID(ref.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, common.ErrTagNotFound
				}
				return nil, err
			}
		case ref.Key != "":
			key := normalizeTagKey(ref.Key)
			tag, err = tagRepo.FindByKey(key)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				tag = &domain.Tag{
					Key:          key,
					DefaultLabel: ref.DefaultLabel,
				}
				if tag.DefaultLabel == "" {
					tag.DefaultLabel = ref.Key
				}
				if ref.Namespace != "" {
					tag.Namespace = &ref.Namespace
				}
				if ref.Color != "" {
					tag.Color = &ref.Color
				}
				if err := tagRepo.Create(tag); err != nil {
					return nil, err
				}
			} else if err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: tag reference needs an id or key", common.ErrValidation)
		}

		if !seen[tag.ID] {
			seen[tag.ID] = true
			tags = append(tags, tag)
		}
	}

	return tags, nil
}

func normalizeTagKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	return strings.Join(strings.FieldsFunc(key, func(r rune) bool {
		return r == ' ' || r == '\t'
	}), "-")
}

func (s *contentService) invalidate(contentID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateContent(context.Background(), contentID); err != nil {
		logger.GetLogger().Warn().Err(err).Str("content_id", contentID).Msg("cache invalidation failed")
	}
}

func (s *contentService) invalidateLists() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateContentLists(context.Background()); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("cache invalidation failed")
	}
}
