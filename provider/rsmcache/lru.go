package rsmcache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/tangelo-labs/go-wkbraster"
	"go.uber.org/zap"
)

type lruStore struct {
	instanceID      string
	ctx             context.Context
	inner           *lru.Cache
	envelopeEncoder wkbraster.Codec[*envelope]
	logger          *zap.Logger

	client       *redis.Client
	channelName  string
	subscription *redis.PubSub
}

// NewLRU creates an LRU raster store of the given size.
//
// The provided client is used to publish and subscribe to the channel. And,
// the channelName is the name of the channel used to publish and subscribe, you
// must ensure that the same channel name is used for all the instances in your
// application.
//
// When the same key is written by multiple instances at the same time (parallel
// writes), the last write wins.
//
// The subscription and the client are closed once ctx is done.
func NewLRU(
	ctx context.Context,
	size int,
	client *redis.Client,
	channelName string,
	logger *zap.Logger,
) (wkbraster.Store, error) {
	if pErr := client.Ping(ctx).Err(); pErr != nil {
		return nil, pErr
	}

	inner, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	c := &lruStore{
		instanceID:      uuid.NewString(),
		ctx:             ctx,
		inner:           inner,
		envelopeEncoder: envelopeCodec{},

		client:       client,
		channelName:  channelName,
		subscription: client.Subscribe(ctx, channelName),
	}

	c.logger = logger.With(zap.String("instance", c.instanceID), zap.String("channel", channelName))

	// Receive blocks until the subscription is confirmed, so no message
	// published after NewLRU returns is missed.
	if _, sErr := c.subscription.Receive(ctx); sErr != nil {
		_ = c.subscription.Close()

		return nil, sErr
	}

	go c.run()

	return c, nil
}

func (c *lruStore) Get(_ context.Context, key string) (string, error) {
	v, ok := c.inner.Get(key)
	if !ok {
		return "", fmt.Errorf("%w: key `%s` not found", wkbraster.ErrItemNotFound, key)
	}

	return v.(string), nil
}

func (c *lruStore) Put(ctx context.Context, key string, text string) error {
	if err := c.publish(ctx, &envelope{Op: opPut, Key: key, Text: text}); err != nil {
		return err
	}

	c.inner.Add(key, text)

	return nil
}

func (c *lruStore) Has(_ context.Context, key string) (bool, error) {
	return c.inner.Contains(key), nil
}

func (c *lruStore) Remove(ctx context.Context, key string) (bool, error) {
	exists := c.inner.Remove(key)

	if err := c.publish(ctx, &envelope{Op: opRemove, Key: key}); err != nil {
		return false, err
	}

	return exists, nil
}

func (c *lruStore) Flush(ctx context.Context) error {
	c.inner.Purge()

	return c.publish(ctx, &envelope{Op: opFlush})
}

func (c *lruStore) publish(ctx context.Context, env *envelope) error {
	env.InstanceID = c.instanceID

	msgRaw, err := c.envelopeEncoder.Encode(env)
	if err != nil {
		return fmt.Errorf("%w: trying to encode envelope for key `%s`", wkbraster.ErrEncoding, env.Key)
	}

	if pErr := c.client.Publish(ctx, c.channelName, msgRaw).Err(); pErr != nil {
		return fmt.Errorf("%w: trying to publish key `%s`, details = %w", wkbraster.ErrInvalidValue, env.Key, pErr)
	}

	return nil
}

func (c *lruStore) run() {
	done := c.ctx.Done()
	changes := c.subscription.Channel()

	for {
		select {
		case <-done:
			if cErr := c.subscription.Close(); cErr != nil {
				c.logger.Warn("closing redis pubsub subscription", zap.Error(cErr))
			}

			if cErr := c.client.Close(); cErr != nil {
				c.logger.Warn("closing redis client", zap.Error(cErr))
			}

			return
		case m, ok := <-changes:
			if !ok {
				return
			}

			c.apply(m)
		}
	}
}

func (c *lruStore) apply(m *redis.Message) {
	env, err := c.envelopeEncoder.Decode([]byte(m.Payload))
	if err != nil {
		c.logger.Error("decoding envelope", zap.Error(fmt.Errorf("%w: %w", wkbraster.ErrDecoding, err)))

		return
	}

	if env.InstanceID == c.instanceID {
		return
	}

	switch env.Op {
	case opPut:
		c.inner.Add(env.Key, env.Text)
	case opRemove:
		c.inner.Remove(env.Key)
	case opFlush:
		c.inner.Purge()
	default:
		c.logger.Warn("unknown envelope operation", zap.Uint8("op", uint8(env.Op)), zap.String("key", env.Key))
	}
}
