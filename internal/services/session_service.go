package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type sessionServiceImpl struct {
	logger   zerolog.Logger
	sessions storage.SessionRepository
	now      func() time.Time
}

func NewSessionService(logger zerolog.Logger, sessions storage.SessionRepository) SessionService {
	return &sessionServiceImpl{
		logger:   logger,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *sessionServiceImpl) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.sessions.ListActiveSessionsByUserID(ctx, userID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionServiceImpl) RevokeSession(ctx context.Context, params SessionParams) error {
	if !isValidID(params.ID) {
		return ErrSessionNotFound
	}

	session, err := s.sessions.GetSessionByID(ctx, params.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to get session by id: %w", err)
	}
	if session.UserID != params.UserID {
		s.logger.Debug().
			Str("session_id", session.ID).
			Str("user_id", params.UserID).
			Msg("revoke of a foreign session")
		return ErrForbidden
	}
	if !session.IsActive {
		return ErrSessionNotFound
	}

	now := s.now()
	session.IsActive = false
	session.UpdatedAt = now
	err = s.sessions.UpdateSession(ctx, session)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to update session: %w", err)
	}
	s.logger.Info().
		Str("user_id", params.UserID).
		Str("session_id", session.ID).
		Msg("revoked session")
	return nil
}

func (s *sessionServiceImpl) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	revoked, err := s.sessions.RevokeSessionsByUserID(ctx, userID, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions: %w", err)
	}
	s.logger.Info().
		Str("user_id", userID).
		Int64("revoked", revoked).
		Msg("revoked all sessions")
	return revoked, nil
}
