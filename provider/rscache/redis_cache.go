package rscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tangelo-labs/go-wkbraster"
)

type redisStore struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
}

// NewRedisStore builds a raster store that keeps WKB hex text in Redis. Keys
// are namespaced with keyPrefix and expire after ttl; zero keeps them
// forever.
func NewRedisStore(client *redis.Client, ttl time.Duration, keyPrefix string) wkbraster.Store {
	return &redisStore{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

func (r redisStore) Get(ctx context.Context, key string) (string, error) {
	text, err := r.client.Get(ctx, r.arrangeKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: trying to get key %s", wkbraster.ErrItemNotFound, key)
		}

		return "", err
	}

	return text, nil
}

func (r redisStore) Put(ctx context.Context, key string, text string) error {
	if sErr := r.client.Set(ctx, r.arrangeKey(key), text, r.ttl).Err(); sErr != nil {
		return sErr
	}

	return nil
}

func (r redisStore) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.arrangeKey(key)).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r redisStore) Remove(ctx context.Context, key string) (bool, error) {
	cmd, err := r.client.Del(ctx, r.arrangeKey(key)).Result()
	if err != nil {
		return false, err
	}

	if cmd == 0 {
		return false, nil
	}

	return true, nil
}

// Flush removes every key under the store prefix. Other keys of the Redis
// database are left alone.
func (r redisStore) Flush(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.arrangeKey("*"), 100).Iterator()

	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return r.client.Del(ctx, keys...).Err()
}

func (r redisStore) arrangeKey(key string) string {
	return fmt.Sprintf("%s:%s", r.keyPrefix, key)
}
