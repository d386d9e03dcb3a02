package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lingora/lingora-backend/internal/common"
	"github.com/lingora/lingora-backend/internal/domain"
	"github.com/lingora/lingora-backend/pkg/elasticsearch"
	"github.com/lingora/lingora-backend/pkg/logger"
	"github.com/lingora/lingora-backend/pkg/markdown"
	"gorm.io/gorm"
)

// TranslationIndex is the Elasticsearch index holding one document per
// translation, keyed by translation id.
const TranslationIndex = "translations"

const excerptLength = 300

// SearchHit is one search result row
type SearchHit struct {
	TranslationID string              `json:"translation_id"`
	ContentID     string              `json:"content_id"`
	Language      string              `json:"language"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Excerpt       string              `json:"excerpt"`
	Score         float64             `json:"score,omitempty"`
	Highlight     map[string][]string `json:"highlight,omitempty"`
}

// SearchService provides full-text search over translations. Elasticsearch
// is preferred; when it is not configured the service degrades to a LIKE
// query against the database so search never disappears entirely.
type SearchService interface {
	Search(query, language string, page, perPage int) ([]*SearchHit, int64, error)
	IndexTranslation(translation *domain.ArticleTranslation)
	RemoveContent(contentID string)
	EnsureIndex(ctx context.Context) error
}

type searchService struct {
	es *elasticsearch.Client
	db *gorm.DB
}

// NewSearchService creates a new SearchService. es may be nil; the database
// fallback then serves every query.
func NewSearchService(es *elasticsearch.Client, db *gorm.DB) SearchService {
	return &searchService{es: es, db: db}
}

func (s *searchService) Search(query, language string, page, perPage int) ([]*SearchHit, int64, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, 0, fmt.Errorf("%w: search query is required", common.ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	if s.es != nil {
		hits, total, err := s.searchES(query, language, page, perPage)
		if err == nil {
			return hits, total, nil
		}
		logger.GetLogger().Warn().Err(err).Msg("elasticsearch query failed, using database fallback")
	}
	return s.searchDB(query, language, page, perPage)
}

func (s *searchService) searchES(query, language string, page, perPage int) ([]*SearchHit, int64, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"title^3", "markdown"},
			},
		},
	}
	if language != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"language": language},
		})
	}

	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"title":    map[string]interface{}{},
				"markdown": map[string]interface{}{"fragment_size": 150},
			},
		},
	}

	resp, err := s.es.Search(context.Background(), TranslationIndex, esQuery, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, err
	}

	hits := make([]*SearchHit, 0, len(resp.Results))
	for _, r := range resp.Results {
		hit := &SearchHit{
			TranslationID: r.ID,
			Score:         r.Score,
			Highlight:     r.Highlight,
		}
		if v, ok := r.Source["content_id"].(string); ok {
			hit.ContentID = v
		}
		if v, ok := r.Source["language"].(string); ok {
			hit.Language = v
		}
		if v, ok := r.Source["title"].(string); ok {
			hit.Title = v
		}
		if v, ok := r.Source["slug"].(string); ok {
			hit.Slug = v
		}
		if v, ok := r.Source["excerpt"].(string); ok {
			hit.Excerpt = v
		}
		hits = append(hits, hit)
	}
	return hits, resp.Total, nil
}

func (s *searchService) searchDB(query, language string, page, perPage int) ([]*SearchHit, int64, error) {
	pattern := "%" + query + "%"
	q := s.db.Model(&domain.ArticleTranslation{}).
		Where("title LIKE ? OR markdown LIKE ?", pattern, pattern)
	if language != "" {
		q = q.Where("language = ?", language)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var translations []*domain.ArticleTranslation
	err := q.Order("updated_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&translations).Error
	if err != nil {
		return nil, 0, err
	}

	hits := make([]*SearchHit, 0, len(translations))
	for _, t := range translations {
		hits = append(hits, &SearchHit{
			TranslationID: t.ID,
			ContentID:     t.ContentID,
			Language:      t.Language,
			Title:         t.Title,
			Slug:          t.Slug,
			Excerpt:       markdown.Excerpt(t.Markdown, excerptLength),
		})
	}
	return hits, total, nil
}

// IndexTranslation upserts the translation's search document. Indexing is
// best-effort and never fails the write that triggered it.
func (s *searchService) IndexTranslation(translation *domain.ArticleTranslation) {
	if s.es == nil {
		return
	}

	doc := map[string]interface{}{
		"translation_id": translation.ID,
		"content_id":     translation.ContentID,
		"language":       translation.Language,
		"title":          translation.Title,
		"slug":           translation.Slug,
		"markdown":       translation.Markdown,
		"excerpt":        markdown.Excerpt(translation.Markdown, excerptLength),
		"updated_at":     translation.UpdatedAt,
	}

	go func() {
		if err := s.es.IndexDocument(context.Background(), TranslationIndex, translation.ID, doc); err != nil {
			logger.GetLogger().Warn().Err(err).
				Str("translation_id", translation.ID).
				Msg("search indexing failed")
		}
	}()
}

// RemoveContent drops every search document belonging to a content row.
func (s *searchService) RemoveContent(contentID string) {
	if s.es == nil {
		return
	}

	go func() {
		// Translation ids are gone with the cascade, so documents are found
		// through the index itself.
		query := map[string]interface{}{
			"query": map[string]interface{}{
				"term": map[string]interface{}{"content_id": contentID},
			},
		}
		resp, err := s.es.Search(context.Background(), TranslationIndex, query, 0, 1000)
		if err != nil {
			logger.GetLogger().Warn().Err(err).Str("content_id", contentID).Msg("search cleanup lookup failed")
			return
		}
		for _, r := range resp.Results {
			if err := s.es.DeleteDocument(context.Background(), TranslationIndex, r.ID); err != nil {
				logger.GetLogger().Warn().Err(err).Str("doc_id", r.ID).Msg("search document removal failed")
			}
		}
	}()
}

// EnsureIndex creates the translations index on startup if missing.
func (s *searchService) EnsureIndex(ctx context.Context) error {
	if s.es == nil {
		return nil
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"translation_id": map[string]interface{}{"type": "keyword"},
				"content_id":     map[string]interface{}{"type": "keyword"},
				"language":       map[string]interface{}{"type": "keyword"},
				"title":          map[string]interface{}{"type": "text"},
				"slug":           map[string]interface{}{"type": "keyword"},
				"markdown":       map[string]interface{}{"type": "text"},
				"excerpt":        map[string]interface{}{"type": "text"},
				"updated_at":     map[string]interface{}{"type": "date"},
			},
		},
	}
	return s.es.CreateIndex(ctx, TranslationIndex, mapping)
}
