package fonts

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRegistrySwap(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	defer rdb.Close()

	ctx := context.Background()
	registry := NewRedisRegistry(rdb)
	marker := "test-" + t.Name()
	defer registry.Swap(ctx, marker, nil)

	rules := []Rule{
		{Marker: marker, Family: "Inter", Weight: 400, Style: "normal", Source: "/inter.woff2"},
		{Marker: marker, Family: "Inter", Weight: 700, Style: "normal", Source: "/inter-bold.woff2"},
	}
	require.NoError(t, registry.Swap(ctx, marker, rules))
	require.NoError(t, registry.Swap(ctx, marker, rules))

	got, err := registry.Rules(ctx, marker)
	require.NoError(t, err)
	assert.Equal(t, rules, got)

	require.NoError(t, registry.Swap(ctx, marker, nil))
	got, err = registry.Rules(ctx, marker)
	require.NoError(t, err)
	assert.Empty(t, got)
}
