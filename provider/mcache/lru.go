package mcache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
	"github.com/tangelo-labs/go-wkbraster"
)

type lruStore struct {
	inner *lru.Cache
}

// NewLRU creates an in-process raster store holding at most size entries;
// the least recently used entry is evicted first.
func NewLRU(size int) (wkbraster.Store, error) {
	inner, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &lruStore{inner: inner}, nil
}

func (l *lruStore) Get(_ context.Context, key string) (string, error) {
	v, ok := l.inner.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: key `%s` not found", wkbraster.ErrItemNotFound, key)
	}

	return v.(string), nil
}

func (l *lruStore) Put(_ context.Context, key string, text string) error {
	if err := checkText(key, text); err != nil {
		return err
	}

	l.inner.Add(key, text)

	return nil
}

func (l *lruStore) Has(_ context.Context, key string) (bool, error) {
	return l.inner.Contains(key), nil
}

func (l *lruStore) Remove(_ context.Context, key string) (bool, error) {
	return l.inner.Remove(key), nil
}

func (l *lruStore) Flush(_ context.Context) error {
	l.inner.Purge()

	return nil
}
