package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisCacheWithClient(client, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var got cachedThing
	hit, err := c.Get(ctx, "thing:1", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "thing:1", cachedThing{ID: 1, Name: "Kithara"}))
	assert.True(t, mr.Exists(keyPrefix+"thing:1"))

	hit, err = c.Get(ctx, "thing:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, cachedThing{ID: 1, Name: "Kithara"}, got)
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "thing:2", cachedThing{ID: 2}))
	mr.FastForward(2 * time.Minute)

	var got cachedThing
	hit, err := c.Get(ctx, "thing:2", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_Delete(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "thing:3", cachedThing{ID: 3}))
	require.NoError(t, c.Delete(ctx, "thing:3"))

	var got cachedThing
	hit, err := c.Get(ctx, "thing:3", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_UnreadableEntryIsEvicted(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set(keyPrefix+"thing:5", `{"id":"not-a-number"}`))

	var got cachedThing
	hit, err := c.Get(context.Background(), "thing:5", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(keyPrefix+"thing:5"))
}

func TestRedisCache_Unavailable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var got cachedThing
	_, err := c.Get(context.Background(), "thing:4", &got)
	assert.Error(t, err)
	assert.Error(t, c.Ping(context.Background()))
}
