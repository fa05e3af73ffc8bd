package utils_test

import (
	"context"
	"littlelemon/internal/utils"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestCacheRoundTrip(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, utils.SetCache(ctx, rdb, "k", payload{Name: "soup", Count: 3}, time.Minute))

	var got payload
	found, err := utils.GetCache(ctx, rdb, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "soup", Count: 3}, got)
}

func TestGetCache_Miss(t *testing.T) {
	rdb := newTestRedis(t)

	var got map[string]any
	found, err := utils.GetCache(context.Background(), rdb, "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteCacheByPrefix(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	// Two keys under the prefix, one outside it
	require.NoError(t, utils.SetCache(ctx, rdb, "menu:items:page:1", "a", time.Minute))
	require.NoError(t, utils.SetCache(ctx, rdb, "menu:items:page:2", "b", time.Minute))
	require.NoError(t, utils.SetCache(ctx, rdb, "other:key", "c", time.Minute))

	require.NoError(t, utils.DeleteCacheByPrefix(ctx, rdb, "menu:items:"))

	var dest string
	found, err := utils.GetCache(ctx, rdb, "menu:items:page:1", &dest)
	require.NoError(t, err)
	assert.False(t, found)
	found, err = utils.GetCache(ctx, rdb, "menu:items:page:2", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	// The unrelated key survives
	found, err = utils.GetCache(ctx, rdb, "other:key", &dest)
	require.NoError(t, err)
	assert.True(t, found)
}
