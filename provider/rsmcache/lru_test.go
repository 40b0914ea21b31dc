package rsmcache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/provider/rsmcache"
	"go.uber.org/zap"
)

func newStores(ctx context.Context, t *testing.T, n int) []wkbraster.Store {
	t.Helper()

	mini := miniredis.RunT(t)
	opts, err := redis.ParseURL(fmt.Sprintf("redis://%s", mini.Addr()))
	require.NoError(t, err)

	channelName := time.Now().String()
	stores := make([]wkbraster.Store, n)

	for i := range stores {
		s, err := rsmcache.NewLRU(ctx, 100, redis.NewClient(opts), channelName, zap.NewNop())
		require.NoError(t, err)

		stores[i] = s
	}

	return stores
}

func randomHex(t *testing.T) string {
	t.Helper()

	text, err := wkbraster.EncodeToHex(&wkbraster.Raster{
		ScaleX: 1, ScaleY: -1, IPX: gofakeit.Longitude(), IPY: gofakeit.Latitude(),
		SRID: 4326, Width: 1, Height: 1,
		Bands: []wkbraster.Band{{Data: &wkbraster.Float64Data{Data: [][]float64{{gofakeit.Float64()}}}}},
	})
	require.NoError(t, err)

	return text
}

func TestLRU_Simple(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("GIVEN two rsmcache instances", func(t *testing.T) {
		stores := newStores(ctx, t, 2)
		cacheOne, cacheTwo := stores[0], stores[1]

		t.Run("WHEN writing a raster into first store", func(t *testing.T) {
			key := gofakeit.UUID()
			value := randomHex(t)

			require.NoError(t, cacheOne.Put(ctx, key, value))

			t.Run("THEN the raster is eventually propagated to the second store AND decodes", func(t *testing.T) {
				require.Eventually(t, func() bool {
					v, gErr := cacheTwo.Get(ctx, key)
					if gErr != nil {
						return false
					}

					return v == value
				}, 5*time.Second, 100*time.Millisecond)

				got, err := wkbraster.NewRepository(cacheTwo, wkbraster.HexCodec{}, nil).Load(ctx, key)
				require.NoError(t, err)
				require.Equal(t, int32(4326), got.SRID)
			})
		})
	})
}

func TestLRU_Concurrency(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("GIVEN two rsmcache instances", func(t *testing.T) {
		stores := newStores(ctx, t, 2)
		cacheOne, cacheTwo := stores[0], stores[1]

		t.Run("WHEN sequentially writing the same key with different values on the first store", func(t *testing.T) {
			key := gofakeit.UUID()
			value := randomHex(t)
			n := 100

			for i := 0; i < n; i++ {
				value = randomHex(t)

				require.NoError(t, cacheOne.Put(ctx, key, value))
			}

			t.Run("THEN the last written value is eventually propagated to the second store", func(t *testing.T) {
				require.Eventually(t, func() bool {
					v1, gErr := cacheOne.Get(ctx, key)
					if gErr != nil {
						return false
					}

					v2, gErr := cacheTwo.Get(ctx, key)
					if gErr != nil {
						return false
					}

					return v1 == value && v2 == value
				}, 5*time.Second, 100*time.Millisecond)
			})
		})

		t.Run("WHEN removing a key from one store", func(t *testing.T) {
			key := gofakeit.UUID()

			require.NoError(t, cacheOne.Put(ctx, key, randomHex(t)))

			require.Eventually(t, func() bool {
				exists, errH := cacheTwo.Has(ctx, key)

				return errH == nil && exists
			}, 5*time.Second, 100*time.Millisecond)

			deleted, err := cacheOne.Remove(ctx, key)
			require.NoError(t, err)
			require.True(t, deleted)

			t.Run("THEN it is deleted at the other stores", func(t *testing.T) {
				require.Eventually(t, func() bool {
					exists1, gErr := cacheOne.Has(ctx, key)
					if gErr != nil {
						return false
					}

					exists2, gErr := cacheTwo.Has(ctx, key)
					if gErr != nil {
						return false
					}

					return !exists1 && !exists2
				}, 5*time.Second, 100*time.Millisecond)
			})
		})

		t.Run("WHEN flushing one store", func(t *testing.T) {
			key := gofakeit.UUID()

			require.NoError(t, cacheOne.Put(ctx, key, randomHex(t)))

			require.Eventually(t, func() bool {
				exists, errH := cacheTwo.Has(ctx, key)

				return errH == nil && exists
			}, 5*time.Second, 100*time.Millisecond)

			require.NoError(t, cacheOne.Flush(ctx))

			t.Run("THEN then all keys are deleted from all stores", func(t *testing.T) {
				require.Eventually(t, func() bool {
					exists1, gErr := cacheOne.Has(ctx, key)
					if gErr != nil {
						return false
					}

					exists2, gErr := cacheTwo.Has(ctx, key)
					if gErr != nil {
						return false
					}

					return !exists1 && !exists2
				}, 5*time.Second, 100*time.Millisecond)
			})
		})
	})
}

// TestLRU_Parallelism simulates several application instances writing the same
// key concurrently. The last published value must end up in every instance.
func TestLRU_Parallelism(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("GIVEN 10 rsmcache instances", func(t *testing.T) {
		stores := newStores(ctx, t, 10)

		t.Run("WHEN multiple goroutines writes the same key with different values through different stores", func(t *testing.T) {
			key := gofakeit.UUID()
			n := 20
			wg := sync.WaitGroup{}

			values := make([]string, 0)
			mu := sync.Mutex{}

			for _, s := range stores {
				for i := 0; i < n; i++ {
					wg.Add(1)

					go func(s wkbraster.Store) {
						defer wg.Done()

						mu.Lock()
						defer mu.Unlock()

						v := fmt.Sprintf("%016X", gofakeit.Uint64())
						values = append(values, v)

						if pErr := s.Put(ctx, key, v); pErr != nil {
							t.Errorf("error putting key `%s` with value `%s`", key, v)
						}
					}(s)
				}
			}

			wg.Wait()

			t.Run("THEN the last written value is propagated to all stores", func(t *testing.T) {
				lastWrittenValue := values[len(values)-1]

				require.Eventually(t, func() bool {
					for _, s := range stores {
						v, gErr := s.Get(ctx, key)
						if gErr != nil || v != lastWrittenValue {
							return false
						}
					}

					return true
				}, 5*time.Second, 100*time.Millisecond)
			})
		})
	})
}
