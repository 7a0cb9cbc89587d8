package data

import (
	"context"
	"os"
	"testing"
	"time"

	"ev-charge-planner/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client, err := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"))
	require.NoError(t, err)

	c := NewRedisCache(client, time.Minute, nil)
	defer c.Close()

	ctx := context.Background()
	key := CacheKey(time.Now(), time.Now().Add(time.Hour)) + "-test"
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	start := time.UnixMilli(1704880800000).UTC()
	slots := []model.PriceSlot{{Start: start, End: start.Add(time.Hour), MarketPriceCents: -2.5}}
	require.NoError(t, c.Set(ctx, key, slots))

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.True(t, start.Equal(got[0].Start))
	assert.Equal(t, -2.5, got[0].MarketPriceCents)
}

func TestNewRedisClientEmptyAddr(t *testing.T) {
	_, err := NewRedisClient("  ", "")
	assert.Error(t, err)
}
