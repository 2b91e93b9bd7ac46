package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", "v", time.Minute))

	var got string
	require.NoError(t, mc.Get(ctx, "k", &got))
	require.Equal(t, "v", got)
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	err := mc.Get(context.Background(), "absent", &got)
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheSetNXOnlyFirstWins(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	ok, err := mc.SetNX(ctx, "day", "sent", 0)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = mc.SetNX(ctx, "day", "sent", 0)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCacheJSONRoundTrip(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	type rec struct {
		Day  string `json:"day"`
		Sent bool   `json:"sent"`
	}
	require.NoError(t, mc.Set(ctx, "r", rec{Day: "2025/03/10", Sent: true}, 0))

	var got rec
	require.NoError(t, mc.Get(ctx, "r", &got))
	require.Equal(t, rec{Day: "2025/03/10", Sent: true}, got)
}
