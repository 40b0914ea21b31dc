package wkbraster

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store is the persistence boundary rasters travel through. It keeps the hex
// text produced by EncodeToHex and hands it back unchanged; it knows nothing
// about the raster format.
type Store interface {
	// Get returns the text stored under key. It returns ErrItemNotFound when
	// the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Put stores text under key, replacing any previous value.
	Put(ctx context.Context, key string, text string) error

	// Has checks if a key exists in the store.
	Has(ctx context.Context, key string) (bool, error)

	// Remove deletes the given key. It returns true if the key was found and
	// deleted, otherwise it returns false.
	Remove(ctx context.Context, key string) (bool, error)

	// Flush deletes all keys in the store.
	Flush(ctx context.Context) error
}

// Repository saves and loads rasters through a Store.
type Repository struct {
	store  Store
	codec  Codec[*Raster]
	logger *zap.Logger
}

// NewRepository binds a store to a codec. The codec byte form is stored as
// text, so it should be a HexCodec for stores that expect WKB hex. A nil
// logger disables logging.
func NewRepository(store Store, codec Codec[*Raster], logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Repository{
		store:  store,
		codec:  codec,
		logger: logger,
	}
}

// Save encodes r and stores it under key.
func (r *Repository) Save(ctx context.Context, key string, rast *Raster) error {
	raw, err := r.codec.Encode(rast)
	if err != nil {
		r.logger.Warn("raster rejected by codec", zap.String("key", key), zap.Error(err))

		return fmt.Errorf("%w: trying to encode key %s, %w", ErrEncoding, key, err)
	}

	if pErr := r.store.Put(ctx, key, string(raw)); pErr != nil {
		r.logger.Error("store put failed", zap.String("key", key), zap.Error(pErr))

		return pErr
	}

	r.logger.Debug("raster saved", zap.String("key", key), zap.Int("size", len(raw)))

	return nil
}

// Load fetches the raster stored under key. It returns ErrItemNotFound when
// the key does not exist and ErrDecoding when the stored text is not a valid
// raster.
func (r *Repository) Load(ctx context.Context, key string) (*Raster, error) {
	text, err := r.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	rast, err := r.codec.Decode([]byte(text))
	if err != nil {
		r.logger.Warn("stored raster could not be decoded", zap.String("key", key), zap.Error(err))

		return nil, fmt.Errorf("%w: trying to decode key %s, %w", ErrDecoding, key, err)
	}

	return rast, nil
}

// Has reports whether a raster is stored under key.
func (r *Repository) Has(ctx context.Context, key string) (bool, error) {
	return r.store.Has(ctx, key)
}

// Delete removes the raster stored under key and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, key string) (bool, error) {
	return r.store.Remove(ctx, key)
}
