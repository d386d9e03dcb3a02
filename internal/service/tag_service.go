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
	"gorm.io/gorm"
)

// TagService owns the taxonomy: tags keyed by stable machine identifiers and
// their per-language display labels.
type TagService interface {
	Create(req *domain.CreateTagRequest) (*domain.TagResponse, error)
	Get(id, language string) (*domain.TagResponse, error)
	List(language, namespace string) ([]*domain.TagResponse, error)
	Update(id string, req *domain.UpdateTagRequest) (*domain.TagResponse, error)
	Delete(id string) error
	UpsertLabel(id string, req *domain.UpsertTagLabelRequest) (*domain.TagResponse, error)
}

type tagService struct {
	tagRepo repository.TagRepository
	cache   cache.Service
}

// NewTagService creates a new TagService
func NewTagService(tagRepo repository.TagRepository, cacheService cache.Service) TagService {
	return &tagService{tagRepo: tagRepo, cache: cacheService}
}

func (s *tagService) Create(req *domain.CreateTagRequest) (*domain.TagResponse, error) {
	key := normalizeTagKey(req.Key)
	if key == "" {
		return nil, fmt.Errorf("%w: tag key is required", common.ErrValidation)
	}

	if _, err := s.tagRepo.FindByKey(key); err == nil {
		return nil, common.ErrTagKeyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := &domain.Tag{
		Key:          key,
		DefaultLabel: req.DefaultLabel,
		Namespace:    req.Namespace,
		Color:        req.Color,
	}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrTagKeyExists
		}
		return nil, err
	}

	s.invalidate()
	logger.GetLogger().Info().Str("tag_id", tag.ID).Str("key", tag.Key).Msg("tag created")
	return tag.ToResponse(""), nil
}

func (s *tagService) Get(id, language string) (*domain.TagResponse, error) {
	tag, err := s.findTag(id)
	if err != nil {
		return nil, err
	}
	return tag.ToResponse(language), nil
}

func (s *tagService) List(language, namespace string) ([]*domain.TagResponse, error) {
	ctx := context.Background()
	if s.cache != nil {
		if data, err := s.cache.GetTagList(ctx, language, namespace); err == nil {
			var cached []*domain.TagResponse
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	tags, err := s.tagRepo.List(namespace)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, tag.ToResponse(language))
	}

	if s.cache != nil {
		_ = s.cache.SetTagList(ctx, language, namespace, responses)
	}
	return responses, nil
}

func (s *tagService) Update(id string, req *domain.UpdateTagRequest) (*domain.TagResponse, error) {
	tag, err := s.findTag(id)
	if err != nil {
		return nil, err
	}

	if req.DefaultLabel != nil {
		if strings.TrimSpace(*req.DefaultLabel) == "" {
			return nil, fmt.Errorf("%w: default label cannot be empty", common.ErrValidation)
		}
		tag.DefaultLabel = *req.DefaultLabel
	}
	if req.Namespace != nil {
		tag.Namespace = req.Namespace
	}
	if req.Color != nil {
		tag.Color = req.Color
	}

	if err := s.tagRepo.Save(tag); err != nil {
		return nil, err
	}

	s.invalidate()
	return tag.ToResponse(""), nil
}

func (s *tagService) Delete(id string) error {
	if _, err := s.findTag(id); err != nil {
		return err
	}
	if err := s.tagRepo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	logger.GetLogger().Info().Str("tag_id", id).Msg("tag deleted")
	return nil
}

// UpsertLabel creates or replaces the localized label for one language.
func (s *tagService) UpsertLabel(id string, req *domain.UpsertTagLabelRequest) (*domain.TagResponse, error) {
	tag, err := s.findTag(id)
	if err != nil {
		return nil, err
	}

	language := strings.ToLower(strings.TrimSpace(req.Language))
	if !languagePattern.MatchString(language) {
		return nil, fmt.Errorf("%w: invalid language code %q", common.ErrValidation, req.Language)
	}
	if strings.TrimSpace(req.Label) == "" {
		return nil, fmt.Errorf("%w: label is required", common.ErrValidation)
	}

	label, err := s.tagRepo.FindLabel(tag.ID, language)
	switch {
	case err == nil:
		label.Label = req.Label
		if err := s.tagRepo.SaveLabel(label); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		label = &domain.TagLabel{TagID: tag.ID, Language: language, Label: req.Label}
		if err := s.tagRepo.CreateLabel(label); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.invalidate()
	return s.Get(tag.ID, language)
}

func (s *tagService) findTag(id string) (*domain.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) invalidate() {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateTagLists(context.Background()); err != nil {
		logger.GetLogger().Warn().Err(err).Msg("tag cache invalidation failed")
	}
}
