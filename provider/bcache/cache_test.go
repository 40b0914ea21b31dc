package bcache_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/allegro/bigcache"
	"github.com/stretchr/testify/require"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/provider/bcache"
)

func TestBigCacheStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("GIVEN a bcache instance", func(t *testing.T) {
		bigCache, err := bigcache.NewBigCache(bigcache.DefaultConfig(5 * time.Second))
		require.NoError(t, err)

		store := bcache.NewBigCacheStore(bigCache)
		repo := wkbraster.NewRepository(store, wkbraster.HexCodec{}, nil)

		first := &wkbraster.Raster{
			ScaleX: 1, ScaleY: -1, SRID: 4326, Width: 2, Height: 1,
			Bands: []wkbraster.Band{{Data: &wkbraster.Int16Data{Data: [][]int16{{-5, 5}}, Nodata: new(int16)}}},
		}

		t.Run("WHEN a new raster is saved", func(t *testing.T) {
			err = repo.Save(ctx, "key", first)

			t.Run("THEN no error is raised AND the raster is present in the store", func(t *testing.T) {
				require.NoError(t, err)

				got, gErr := repo.Load(ctx, "key")
				require.NoError(t, gErr)
				require.Equal(t, first, got)
			})
		})

		t.Run("WHEN an existing key is overwritten", func(t *testing.T) {
			second := *first
			second.SRID = 3857

			err = repo.Save(ctx, "key", &second)

			t.Run("THEN no error is raised AND the value is updated", func(t *testing.T) {
				require.NoError(t, err)

				got, gErr := repo.Load(ctx, "key")
				require.NoError(t, gErr)
				require.Equal(t, int32(3857), got.SRID)
			})
		})

		t.Run("WHEN a existing key is deleted THEN no error is raised and true is returned AND the key is not present in the store", func(t *testing.T) {
			b, eErr := store.Remove(ctx, "key")
			require.NoError(t, eErr)
			require.True(t, b)

			_, gErr := store.Get(ctx, "key")
			require.ErrorIs(t, gErr, wkbraster.ErrItemNotFound)

			has, hErr := store.Has(ctx, "key")
			require.NoError(t, hErr)
			require.False(t, has)
		})

		t.Run("WHEN a non existing key is deleted THEN false is returned", func(t *testing.T) {
			b, rErr := store.Remove(ctx, "key")

			require.NoError(t, rErr)
			require.False(t, b)
		})

		t.Run("WHEN flushing a store with multiple keys saved ", func(t *testing.T) {
			for i := 0; i < 10; i++ {
				err = store.Put(ctx, fmt.Sprintf("key%d", i), fmt.Sprintf("%02X", i))
				require.NoError(t, err)
			}

			err = store.Flush(ctx)

			t.Run("THEN no error is raised AND the store is empty", func(t *testing.T) {
				require.NoError(t, err)

				for i := 0; i < 10; i++ {
					_, gErr := store.Get(ctx, "key"+strconv.Itoa(i))
					require.ErrorIs(t, gErr, wkbraster.ErrItemNotFound)
				}
			})
		})
	})
}
