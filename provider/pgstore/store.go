// Package pgstore keeps rasters in a PostGIS table.
//
// Rasters are written as WKB hex text cast to the raster type and read back
// with ST_AsBinary, so the server parses and re-serializes them. PostGIS
// always emits the nodata slot and one byte per sub-byte sample, and answers
// in the machine byte order, so pair this store with
// wkbraster.DialectPostGIS.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tangelo-labs/go-wkbraster"
	"go.uber.org/zap"
)

// DefaultTable is used when no table name is given.
const DefaultTable = "myraster"

type pgStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *zap.Logger
}

// New builds a raster store over table. The table name is quoted as an
// identifier; a nil logger disables logging.
func New(pool *pgxpool.Pool, table string, logger *zap.Logger) wkbraster.Store {
	if table == "" {
		table = DefaultTable
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &pgStore{
		pool:   pool,
		table:  pgx.Identifier{table}.Sanitize(),
		logger: logger.With(zap.String("table", table)),
	}
}

// EnsureSchema creates the raster extension and the table when missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, table string) error {
	if table == "" {
		table = DefaultTable
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE EXTENSION IF NOT EXISTS postgis_raster`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s ("id" TEXT NOT NULL PRIMARY KEY, "raster_data" raster NOT NULL)`,
			pgx.Identifier{table}.Sanitize()),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("pgstore: ensure schema: %w", err)
		}
	}

	return nil
}

func (s *pgStore) Get(ctx context.Context, key string) (string, error) {
	var text string

	q := fmt.Sprintf(`SELECT encode(ST_AsBinary("raster_data"), 'hex') FROM %s WHERE "id" = $1`, s.table)

	if err := s.pool.QueryRow(ctx, q, key).Scan(&text); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%w: trying to get key %s", wkbraster.ErrItemNotFound, key)
		}

		return "", err
	}

	return text, nil
}

func (s *pgStore) Put(ctx context.Context, key string, text string) error {
	q := fmt.Sprintf(`INSERT INTO %s ("id", "raster_data") VALUES ($1, $2::raster)
		ON CONFLICT ("id") DO UPDATE SET "raster_data" = EXCLUDED."raster_data"`, s.table)

	if _, err := s.pool.Exec(ctx, q, key, text); err != nil {
		s.logger.Error("inserting raster", zap.String("key", key), zap.Error(err))

		return fmt.Errorf("%w: trying to put key %s, %w", wkbraster.ErrInvalidValue, key, err)
	}

	return nil
}

func (s *pgStore) Has(ctx context.Context, key string) (bool, error) {
	var exists bool

	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE "id" = $1)`, s.table)

	if err := s.pool.QueryRow(ctx, q, key).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (s *pgStore) Remove(ctx context.Context, key string) (bool, error) {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE "id" = $1`, s.table), key)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

func (s *pgStore) Flush(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, s.table)); err != nil {
		return err
	}

	s.logger.Info("table flushed")

	return nil
}
