package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedFields struct {
	Names []string `json:"names"`
}

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redisLib.NewClient(&redisLib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, "test:"), mr
}

func TestCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "meta:Article", cachedFields{Names: []string{"title"}}, time.Minute))
	assert.True(t, mr.Exists("test:meta:Article"))

	var out cachedFields
	found, err := cache.Get(ctx, "meta:Article", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"title"}, out.Names)
}

func TestCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	var out cachedFields
	found, err := cache.Get(context.Background(), "nothing", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", cachedFields{}, time.Minute))
	mr.FastForward(2 * time.Minute)

	var out cachedFields
	found, err := cache.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_NilClientIsNoop(t *testing.T) {
	cache := NewCache(nil, "x:")
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "k", cachedFields{}, time.Minute))
	found, err := cache.Get(ctx, "k", &cachedFields{})
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "k"))
}

func TestInitRedis_Unreachable(t *testing.T) {
	client := InitRedis(context.Background(), "127.0.0.1:1", zerolog.Nop())
	assert.Nil(t, client)
}

func TestInitRedis_Connected(t *testing.T) {
	mr := miniredis.RunT(t)
	client := InitRedis(context.Background(), mr.Addr(), zerolog.Nop())
	require.NotNil(t, client)
	client.Close()
}
