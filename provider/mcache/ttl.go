package mcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v2"
	"github.com/tangelo-labs/go-wkbraster"
)

// UnlimitedItems can be passed to NewTTL to disable the size limit.
const UnlimitedItems = -1

type ttlStore struct {
	d     time.Duration
	inner *ttlcache.Cache
	mu    sync.RWMutex
}

// NewTTL builds a raster store whose entries expire after ttl.
// If refreshTTLOnHit is true, the TTL will be reset on every hit.
// If itemsLimit is greater than 0, the store will be limited to that number of
// items.
func NewTTL(ttl time.Duration, itemsLimit int, refreshTTLOnHit bool) wkbraster.Store {
	c := ttlcache.NewCache()
	c.SkipTTLExtensionOnHit(!refreshTTLOnHit)

	if itemsLimit > 0 {
		c.SetCacheSizeLimit(itemsLimit)
	}

	return &ttlStore{
		inner: c,
		d:     ttl,
	}
}

func (t *ttlStore) Get(_ context.Context, key string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.get(key)
}

func (t *ttlStore) Put(_ context.Context, key string, text string) error {
	if err := checkText(key, text); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.inner.SetWithTTL(key, text, t.d); err != nil {
		return fmt.Errorf("%w: trying to set key %s, %w", wkbraster.ErrInvalidValue, key, err)
	}

	return nil
}

func (t *ttlStore) Has(_ context.Context, key string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return t.has(key)
}

func (t *ttlStore) Remove(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	exists, err := t.has(key)
	if err != nil || !exists {
		return false, err
	}

	if err := t.inner.Remove(key); err != nil {
		return false, err
	}

	return true, nil
}

func (t *ttlStore) Flush(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.inner.Purge()
}

func (t *ttlStore) get(key string) (string, error) {
	v, err := t.inner.Get(key)
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return "", fmt.Errorf("%w: key `%s` not found", wkbraster.ErrItemNotFound, key)
		}

		return "", err
	}

	return v.(string), nil
}

func (t *ttlStore) has(key string) (bool, error) {
	if _, err := t.get(key); err != nil {
		if errors.Is(err, wkbraster.ErrItemNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
