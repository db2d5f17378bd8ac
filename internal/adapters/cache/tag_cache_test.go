package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
)

func TestNewTagCache_UnknownProviderFallsBackToNoop(t *testing.T) {
	ctx := context.Background()

	c, err := NewTagCache(ctx, TagCacheConfig{Provider: "memcached"})
	require.NoError(t, err)
	require.NotNil(t, c)

	_, err = c.Get(ctx)
	require.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestNoopTagCache(t *testing.T) {
	ctx := context.Background()

	c, err := NewTagCache(ctx, TagCacheConfig{Provider: "noop"})
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, []string{"go", "web"}))

	// A noop cache never stores anything, so every read is a miss.
	_, err = c.Get(ctx)
	require.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, c.Invalidate(ctx))
}
