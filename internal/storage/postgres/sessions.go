package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectSessionColumns = `
SELECT id::text,
       user_id::text,
       refresh_token_hash,
       user_agent,
       ip_address,
       is_active,
       last_activity_at,
       expires_at,
       created_at,
       updated_at
FROM sessions
`

func scanSession(row pgx.Row) (*models.Session, error) {
	session := new(models.Session)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.RefreshTokenHash,
		&session.UserAgent,
		&session.IPAddress,
		&session.IsActive,
		&session.LastActivityAt,
		&session.ExpiresAt,
		&session.CreatedAt,
		&session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Storage) CreateSession(ctx context.Context, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      refresh_token_hash,
                      user_agent,
                      ip_address,
                      is_active,
                      last_activity_at,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := s.pool.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		session.UserAgent,
		session.IPAddress,
		session.IsActive,
		session.LastActivityAt,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", session.UserID).
			Msg("failed to insert session")
		return err
	}
	s.logger.Debug().
		Str("session_id", session.ID).
		Time("expires_at", session.ExpiresAt).
		Msg("inserted session")
	return nil
}

func (s *Storage) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	return s.getSession(ctx, selectSessionColumns+`WHERE id = $1`, id)
}

func (s *Storage) GetSessionByRefreshTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	return s.getSession(ctx, selectSessionColumns+`WHERE refresh_token_hash = $1`, hash)
}

func (s *Storage) getSession(ctx context.Context, query string, arg string) (*models.Session, error) {
	session, err := scanSession(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select session")
		return nil, err
	}
	return session, nil
}

func (s *Storage) ListActiveSessionsByUserID(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	const listSessionsQuery = selectSessionColumns + `
WHERE user_id = $1
  AND is_active
  AND expires_at > $2
ORDER BY last_activity_at DESC
`
	rows, err := s.pool.Query(ctx, listSessionsQuery, userID, now)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select sessions by user id")
		return nil, err
	}
	defer rows.Close()

	sessions := make([]*models.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan session")
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.Session) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token_hash = $1,
    is_active = $2,
    last_activity_at = $3,
    expires_at = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := s.pool.Exec(
		ctx,
		updateSessionQuery,
		session.RefreshTokenHash,
		session.IsActive,
		session.LastActivityAt,
		session.ExpiresAt,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to update session")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) RevokeSessionsByUserID(ctx context.Context, userID string, at time.Time) (int64, error) {
	const revokeSessionsQuery = `
UPDATE sessions
SET is_active = FALSE,
    updated_at = $2
WHERE user_id = $1 AND is_active
`
	tag, err := s.pool.Exec(ctx, revokeSessionsQuery, userID, at)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to revoke sessions")
		return 0, err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("revoked sessions")
	return tag.RowsAffected(), nil
}

func (s *Storage) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}
	return nil
}
