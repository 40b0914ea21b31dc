package wkbraster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/provider/mcache"
	"go.uber.org/zap/zaptest"
)

func TestRepository(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Run("GIVEN a repository over an LRU store with the hex codec", func(t *testing.T) {
		store, err := mcache.NewLRU(16)
		require.NoError(t, err)

		repo := wkbraster.NewRepository(store, wkbraster.HexCodec{}, zaptest.NewLogger(t))

		t.Run("WHEN a raster is saved THEN the store holds its hex text AND it loads back equal", func(t *testing.T) {
			require.NoError(t, repo.Save(ctx, "1", sampleRaster()))

			text, gErr := store.Get(ctx, "1")
			require.NoError(t, gErr)
			require.Equal(t, sampleHex, text)

			got, lErr := repo.Load(ctx, "1")
			require.NoError(t, lErr)
			require.Equal(t, sampleRaster(), got)
		})

		t.Run("WHEN a malformed raster is saved THEN ErrEncoding wraps the codec error", func(t *testing.T) {
			r := sampleRaster()
			r.Bands = nil

			sErr := repo.Save(ctx, "bad", r)
			require.ErrorIs(t, sErr, wkbraster.ErrEncoding)
			require.ErrorIs(t, sErr, wkbraster.ErrMalformedRaster)

			has, hErr := repo.Has(ctx, "bad")
			require.NoError(t, hErr)
			require.False(t, has)
		})

		t.Run("WHEN the stored text is not a raster THEN Load fails with ErrDecoding", func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "garbage", "0100"))

			_, lErr := repo.Load(ctx, "garbage")
			require.ErrorIs(t, lErr, wkbraster.ErrDecoding)
			require.ErrorIs(t, lErr, wkbraster.ErrUnexpectedEndOfInput)
		})

		t.Run("WHEN a missing key is loaded THEN ErrItemNotFound is returned", func(t *testing.T) {
			_, lErr := repo.Load(ctx, "missing")
			require.ErrorIs(t, lErr, wkbraster.ErrItemNotFound)
		})

		t.Run("WHEN a raster is deleted THEN it is gone", func(t *testing.T) {
			deleted, dErr := repo.Delete(ctx, "1")
			require.NoError(t, dErr)
			require.True(t, deleted)

			has, hErr := repo.Has(ctx, "1")
			require.NoError(t, hErr)
			require.False(t, has)
		})
	})

	t.Run("GIVEN the binary codec THEN rasters still round-trip", func(t *testing.T) {
		store := mcache.NewTTL(time.Minute, mcache.UnlimitedItems, false)
		repo := wkbraster.NewRepository(store, wkbraster.WKBCodec{
			Options: []wkbraster.Option{wkbraster.WithDialect(wkbraster.DialectPostGIS)},
		}, nil)

		require.NoError(t, repo.Save(ctx, "k", sampleRaster()))

		got, err := repo.Load(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, sampleRaster(), got)
	})
}
