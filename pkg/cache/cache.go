package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs per entity class
const (
	TTLTags     = 10 * time.Minute // tag taxonomy changes rarely
	TTLContent  = 1 * time.Minute  // single content views
	TTLContents = 30 * time.Second // content listings, refreshed often
	TTLDefault  = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixContent  = "content:"
	PrefixContents = "contents:"
	PrefixTags     = "tags:"
)

// Service is the Redis-backed cache used by read paths. All methods are
// no-ops when Redis is not configured, so callers never need nil checks.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Content caches
	GetContent(ctx context.Context, contentID string) ([]byte, error)
	SetContent(ctx context.Context, contentID string, data interface{}) error
	InvalidateContent(ctx context.Context, contentID string) error
	InvalidateContentLists(ctx context.Context) error

	// Content list caches, keyed by filter set
	GetContentList(ctx context.Context, filterKey string) ([]byte, error)
	SetContentList(ctx context.Context, filterKey string, data interface{}) error

	// Tag taxonomy cache
	GetTagList(ctx context.Context, language, namespace string) ([]byte, error)
	SetTagList(ctx context.Context, language, namespace string, data interface{}) error
	InvalidateTagLists(ctx context.Context) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

// NewService creates a cache service over an optional Redis client
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, silently skip
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Content caches
// ========================================

func (c *redisCache) contentKey(contentID string) string {
	return PrefixContent + contentID
}

func (c *redisCache) GetContent(ctx context.Context, contentID string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.contentKey(contentID)).Bytes()
}

func (c *redisCache) SetContent(ctx context.Context, contentID string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.contentKey(contentID), jsonData, TTLContent).Err()
}

func (c *redisCache) InvalidateContent(ctx context.Context, contentID string) error {
	if c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, c.contentKey(contentID)).Err(); err != nil {
		return err
	}
	return c.InvalidateContentLists(ctx)
}

func (c *redisCache) InvalidateContentLists(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixContents+"*")
}

func (c *redisCache) listKey(filterKey string) string {
	return PrefixContents + filterKey
}

func (c *redisCache) GetContentList(ctx context.Context, filterKey string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.listKey(filterKey)).Bytes()
}

func (c *redisCache) SetContentList(ctx context.Context, filterKey string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.listKey(filterKey), jsonData, TTLContents).Err()
}

// ========================================
// Tag taxonomy cache
// ========================================

func (c *redisCache) tagListKey(language, namespace string) string {
	if language == "" {
		language = "-"
	}
	if namespace == "" {
		namespace = "-"
	}
	return PrefixTags + language + ":" + namespace
}

func (c *redisCache) GetTagList(ctx context.Context, language, namespace string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.tagListKey(language, namespace)).Bytes()
}

func (c *redisCache) SetTagList(ctx context.Context, language, namespace string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.tagListKey(language, namespace), jsonData, TTLTags).Err()
}

func (c *redisCache) InvalidateTagLists(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixTags+"*")
}

// deleteByPattern removes all keys matching the pattern using SCAN to avoid
// blocking Redis on large keyspaces
func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
