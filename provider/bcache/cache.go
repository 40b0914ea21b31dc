package bcache

import (
	"context"
	"errors"
	"fmt"

	"github.com/allegro/bigcache"
	"github.com/tangelo-labs/go-wkbraster"
)

type bigCacheStore struct {
	db *bigcache.BigCache
}

// NewBigCacheStore adapts a BigCache instance to a wkbraster.Store. Entries
// live as long as the BigCache configuration allows.
func NewBigCacheStore(db *bigcache.BigCache) wkbraster.Store {
	return &bigCacheStore{db: db}
}

func (b bigCacheStore) Get(_ context.Context, key string) (string, error) {
	value, err := b.db.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return "", fmt.Errorf("%w: trying to get key %s", wkbraster.ErrItemNotFound, key)
		}

		return "", err
	}

	return string(value), nil
}

func (b bigCacheStore) Put(_ context.Context, key string, text string) error {
	if sErr := b.db.Set(key, []byte(text)); sErr != nil {
		return fmt.Errorf("%w: trying to set key %s, %w", wkbraster.ErrInvalidValue, key, sErr)
	}

	return nil
}

func (b bigCacheStore) Has(ctx context.Context, key string) (bool, error) {
	if _, err := b.Get(ctx, key); err != nil {
		if errors.Is(err, wkbraster.ErrItemNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (b bigCacheStore) Remove(_ context.Context, key string) (bool, error) {
	if err := b.db.Delete(key); err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (b bigCacheStore) Flush(_ context.Context) error {
	return b.db.Reset()
}
