package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/goraffle/internal/usecase"
)

func TestCacheFillAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	gen, err := cache.Generation(ctx, "raffle:1")
	require.NoError(t, err)
	assert.Zero(t, gen)

	stored, err := cache.Fill(ctx, "raffle:1", gen, []byte(`{"id":"1"}`), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.True(t, mr.Exists("goraffle:cache:{raffle:1}"))

	val, err := cache.Get(ctx, "raffle:1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1"}`, string(val))
}

func TestCacheMiss(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)

	_, err := cache.Get(context.Background(), "raffle:missing")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheExpires(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	_, err := cache.Fill(ctx, "raffle:1", 0, []byte("x"), time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	_, err = cache.Get(ctx, "raffle:1")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCacheDeleteAdvancesGeneration(t *testing.T) {
	client, mr := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	_, err := cache.Fill(ctx, "raffle:1", 0, []byte("x"), time.Minute)
	require.NoError(t, err)

	require.NoError(t, cache.Delete(ctx, "raffle:1"))

	_, err = cache.Get(ctx, "raffle:1")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)

	gen, err := cache.Generation(ctx, "raffle:1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	assert.Greater(t, mr.TTL("goraffle:cache:{raffle:1}:gen"), time.Duration(0))
}

func TestCacheFillLosesToInvalidation(t *testing.T) {
	client, _ := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	// a reader takes the generation, then a transition commits and invalidates
	gen, err := cache.Generation(ctx, "raffle:1")
	require.NoError(t, err)
	require.NoError(t, cache.Delete(ctx, "raffle:1"))

	stored, err := cache.Fill(ctx, "raffle:1", gen, []byte(`{"status":"active"}`), time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	_, err = cache.Get(ctx, "raffle:1")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)

	// the next reader sees the new generation and may fill
	gen, err = cache.Generation(ctx, "raffle:1")
	require.NoError(t, err)
	stored, err = cache.Fill(ctx, "raffle:1", gen, []byte(`{"status":"ended"}`), time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)
}
