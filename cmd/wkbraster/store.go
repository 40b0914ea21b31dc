package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/tangelo-labs/go-wkbraster"
	"github.com/tangelo-labs/go-wkbraster/internal/config"
	"github.com/tangelo-labs/go-wkbraster/provider/mcache"
	"github.com/tangelo-labs/go-wkbraster/provider/pgstore"
	"github.com/tangelo-labs/go-wkbraster/provider/rscache"
)

const memoryStoreSize = 1024

var (
	memoryOnce  sync.Once
	memoryStore wkbraster.Store
	memoryErr   error
)

func init() {
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(deleteCmd)

	putCmd.Flags().StringVarP(&rasterFile, "file", "f", "", "YAML raster description (default is a 2x2 sample raster)")
}

var putCmd = &cobra.Command{
	Use:   "put KEY",
	Short: "Encode a raster and save it in the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rast, err := loadRaster()
		if err != nil {
			return err
		}

		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		if err := repo.Save(cmd.Context(), args[0], rast); err != nil {
			return fmt.Errorf("save %s: %w", args[0], err)
		}

		fmt.Fprintf(outWriter, "Saved raster %s to %s store\n", args[0], cfg.Store)

		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Load a raster from the configured store and print it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		rast, err := repo.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("load %s: %w", args[0], err)
		}

		return printRaster(rast)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete KEY",
	Short: "Remove a raster from the configured store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, closeFn, err := openRepository(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		found, err := repo.Delete(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("delete %s: %w", args[0], err)
		}

		if !found {
			return fmt.Errorf("delete %s: %w", args[0], wkbraster.ErrItemNotFound)
		}

		fmt.Fprintf(outWriter, "Deleted raster %s\n", args[0])

		return nil
	},
}

func openRepository(ctx context.Context) (*wkbraster.Repository, func(), error) {
	store, closeFn, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	codec := wkbraster.HexCodec{Options: codecOptions()}

	return wkbraster.NewRepository(store, codec, logger), closeFn, nil
}

// openStore connects to the backend named by the configuration. The memory
// store lives for the whole process.
func openStore(ctx context.Context) (wkbraster.Store, func(), error) {
	switch cfg.Store {
	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}

		client := redis.NewClient(opts)

		return rscache.NewRedisStore(client, cfg.Redis.TTL, cfg.Redis.KeyPrefix), func() { _ = client.Close() }, nil
	case config.StorePostGIS:
		pool, err := pgxpool.New(ctx, cfg.PostGIS.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgis: %w", err)
		}

		if err := pgstore.EnsureSchema(ctx, pool, cfg.PostGIS.Table); err != nil {
			pool.Close()

			return nil, nil, err
		}

		return pgstore.New(pool, cfg.PostGIS.Table, logger), pool.Close, nil
	}

	memoryOnce.Do(func() {
		memoryStore, memoryErr = mcache.NewLRU(memoryStoreSize)
	})

	return memoryStore, func() {}, memoryErr
}
