package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache()
	c.now = func() time.Time { return now }

	require.NoError(t, c.SetBytes(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, c.SetBytes(ctx, "b", []byte("2"), 0))

	b, ok, err := c.GetBytes(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), b)

	now = now.Add(2 * time.Minute)
	_, ok, _ = c.GetBytes(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = c.GetBytes(ctx, "b")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cli := NewRedisClient(RedisConfig{Addr: mr.Addr()})
	defer cli.Close()
	c := NewRedisCache(cli)

	_, ok, err := c.GetBytes(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	key := StockInfoKey("stockcast", "AAPL")
	require.NoError(t, c.SetBytes(ctx, key, []byte(`{"ticker":"AAPL"}`), time.Minute))
	b, ok, err := c.GetBytes(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"ticker":"AAPL"}`, string(b))

	mr.FastForward(2 * time.Minute)
	_, ok, err = c.GetBytes(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
