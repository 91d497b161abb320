package repository_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"join/internal/repository"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*repository.MemoryStore
	loads int
}

func (c *countingStore) Load(ctx context.Context, path string) (json.RawMessage, error) {
	c.loads++
	return c.MemoryStore.Load(ctx, path)
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCachedCollectionStore_MissThenHit(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingStore{MemoryStore: repository.NewMemoryStore()}
	base.Seed("contacts", `[{"id":1}]`)
	cache := repository.NewCachedCollectionStore(base, client, time.Minute)
	ctx := context.Background()

	raw, err := cache.Load(ctx, "contacts")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(raw))
	assert.Equal(t, 1, base.loads)
	if ttl := mr.TTL("join:collection:contacts"); ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected TTL: %v", ttl)
	}

	cached, err := cache.Load(ctx, "contacts")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1}]`, string(cached))
	assert.Equal(t, 1, base.loads, "cached load must not reach the base store")
}

func TestCachedCollectionStore_CachesEmptyCollections(t *testing.T) {
	_, client := newRedis(t)
	base := &countingStore{MemoryStore: repository.NewMemoryStore()}
	cache := repository.NewCachedCollectionStore(base, client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		raw, err := cache.Load(ctx, "tasks")
		require.NoError(t, err)
		assert.Nil(t, raw)
	}
	assert.Equal(t, 1, base.loads)
}

func TestCachedCollectionStore_ReplaceEvicts(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingStore{MemoryStore: repository.NewMemoryStore()}
	base.Seed("tasks", `[{"id":1}]`)
	cache := repository.NewCachedCollectionStore(base, client, time.Minute)
	ctx := context.Background()

	_, err := cache.Load(ctx, "tasks")
	require.NoError(t, err)
	require.True(t, mr.Exists("join:collection:tasks"))

	require.NoError(t, cache.Replace(ctx, "tasks", []map[string]int{{"id": 2}}))
	assert.False(t, mr.Exists("join:collection:tasks"))

	raw, err := cache.Load(ctx, "tasks")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2}]`, string(raw))
	assert.Equal(t, 2, base.loads)
}

func TestCachedCollectionStore_DeleteEntityEvictsCollection(t *testing.T) {
	mr, client := newRedis(t)
	base := &countingStore{MemoryStore: repository.NewMemoryStore()}
	base.Seed("tasks", `[{"id":1}]`)
	cache := repository.NewCachedCollectionStore(base, client, time.Minute)
	ctx := context.Background()

	_, err := cache.Load(ctx, "tasks")
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, "tasks/0"))
	assert.False(t, mr.Exists("join:collection:tasks"))
}

func TestCachedCollectionStore_ReplaceErrorKeepsCache(t *testing.T) {
	mr, client := newRedis(t)
	cache := repository.NewCachedCollectionStore(failingStore{}, client, time.Minute)
	mr.Set("join:collection:tasks", `[{"id":1}]`)

	err := cache.Replace(context.Background(), "tasks", []int{})

	assert.ErrorIs(t, err, assert.AnError)
	assert.True(t, mr.Exists("join:collection:tasks"))
}
