package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/storage"
)

//go:embed schema.sql
var schema string

type Storage struct {
	logger zerolog.Logger
	pool   *pgxpool.Pool
}

var _ storage.Storage = (*Storage)(nil)

func New(logger zerolog.Logger, pool *pgxpool.Pool) *Storage {
	return &Storage{
		logger: logger,
		pool:   pool,
	}
}

// Migrate creates missing tables and indexes. It is safe to run on every start.
func (s *Storage) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to apply schema")
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.logger.Info().Msg("applied postgres schema")
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Storage) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func notFoundIfNoRows(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
