package mcache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/provider/mcache"
)

func TestLRU(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := mcache.NewLRU(2)
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a", "00"))
	require.NoError(t, store.Put(ctx, "b", "01"))

	has, err := store.Has(ctx, "a")
	require.NoError(t, err)
	require.True(t, has)

	found, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "00", found)

	t.Run("WHEN a third key is added THEN the least recently used one is evicted", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "c", "02"))

		_, gErr := store.Get(ctx, "b")
		require.ErrorIs(t, gErr, wkbraster.ErrItemNotFound)
	})

	removed, err := store.Remove(ctx, "a")
	require.NoError(t, err)
	require.True(t, removed)

	require.NoError(t, store.Flush(ctx))

	has, err = store.Has(ctx, "c")
	require.NoError(t, err)
	require.False(t, has)
}

func TestLRU_InvalidSize(t *testing.T) {
	_, err := mcache.NewLRU(0)
	require.Error(t, err)
}

func TestLRU_RejectsEmptyText(t *testing.T) {
	ctx := context.Background()

	store, err := mcache.NewLRU(2)
	require.NoError(t, err)

	require.ErrorIs(t, store.Put(ctx, "a", ""), wkbraster.ErrInvalidValue)

	has, err := store.Has(ctx, "a")
	require.NoError(t, err)
	require.False(t, has)
}
