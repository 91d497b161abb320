package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const nullMarker = "null"

// CachedCollectionStore wraps a CollectionStore with a Redis read-through
// cache. Writes go to the base store first and then evict the cached copy.
type CachedCollectionStore struct {
	base  CollectionStore
	redis *redis.Client
	ttl   time.Duration
}

var _ CollectionStore = (*CachedCollectionStore)(nil)

func NewCachedCollectionStore(base CollectionStore, client *redis.Client, ttl time.Duration) *CachedCollectionStore {
	if base == nil {
		panic("repository.NewCachedCollectionStore: base store is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &CachedCollectionStore{base: base, redis: client, ttl: ttl}
}

func (c *CachedCollectionStore) Load(ctx context.Context, path string) (json.RawMessage, error) {
	if raw, ok := c.loadFromCache(ctx, path); ok {
		return raw, nil
	}
	raw, err := c.base.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	c.store(ctx, path, raw)
	return raw, nil
}

func (c *CachedCollectionStore) Replace(ctx context.Context, path string, value any) error {
	if err := c.base.Replace(ctx, path, value); err != nil {
		return err
	}
	c.evict(ctx, path)
	return nil
}

func (c *CachedCollectionStore) Delete(ctx context.Context, path string) error {
	if err := c.base.Delete(ctx, path); err != nil {
		return err
	}
	c.evict(ctx, path)
	return nil
}

func (c *CachedCollectionStore) loadFromCache(ctx context.Context, path string) (json.RawMessage, bool) {
	if c.redis == nil {
		return nil, false
	}
	data, err := c.redis.Get(ctx, collectionCacheKey(path)).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the base store without failing.
			_ = c.redis.Del(ctx, collectionCacheKey(path)).Err()
		}
		return nil, false
	}
	if string(data) == nullMarker {
		return nil, true
	}
	if !json.Valid(data) {
		_ = c.redis.Del(ctx, collectionCacheKey(path)).Err()
		return nil, false
	}
	return json.RawMessage(data), true
}

func (c *CachedCollectionStore) store(ctx context.Context, path string, raw json.RawMessage) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data := []byte(nullMarker)
	if len(raw) > 0 {
		data = raw
	}
	_ = c.redis.Set(ctx, collectionCacheKey(path), data, c.ttl).Err()
}

// evict drops path and, for entity paths like "tasks/3", its collection.
func (c *CachedCollectionStore) evict(ctx context.Context, path string) {
	if c.redis == nil {
		return
	}
	keys := []string{collectionCacheKey(path)}
	if top, _, found := strings.Cut(strings.Trim(path, "/"), "/"); found {
		keys = append(keys, collectionCacheKey(top))
	}
	_, _ = c.redis.Del(ctx, keys...).Result()
}

func collectionCacheKey(path string) string {
	return "join:collection:" + strings.Trim(path, "/")
}
