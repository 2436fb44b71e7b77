package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/marathon-wallet/internal/usecase"
)

func TestCache_Lifecycle(t *testing.T) {
	client, srv := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	_, err := cache.Get(ctx, "wallet:balance:user-1")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "wallet:balance:user-1", []byte(`{"balance":"10.00"}`), time.Minute))
	assert.True(t, srv.Exists("cache:wallet:balance:user-1"))

	got, err := cache.Get(ctx, "wallet:balance:user-1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"balance":"10.00"}`, string(got))

	require.NoError(t, cache.Delete(ctx, "wallet:balance:user-1"))
	_, err = cache.Get(ctx, "wallet:balance:user-1")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCache_EntriesExpire(t *testing.T) {
	client, srv := newTestRedisClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 30*time.Second))
	srv.FastForward(31 * time.Second)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, usecase.ErrCacheMiss)
}

func TestCache_ServerDown(t *testing.T) {
	client, srv := newTestRedisClient(t)
	srv.Close()

	_, err := NewCache(client).Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, usecase.ErrCacheMiss)
}
