package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type sessionDocument struct {
	ID               string    `bson:"_id"`
	UserID           string    `bson:"userId"`
	RefreshTokenHash string    `bson:"refreshTokenHash"`
	UserAgent        string    `bson:"userAgent"`
	IPAddress        string    `bson:"ipAddress"`
	IsActive         bool      `bson:"isActive"`
	LastActivityAt   time.Time `bson:"lastActivity"`
	ExpiresAt        time.Time `bson:"expiresAt"`
	CreatedAt        time.Time `bson:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt"`
}

func (d *sessionDocument) model() *models.Session {
	return &models.Session{
		ID:               d.ID,
		UserID:           d.UserID,
		RefreshTokenHash: d.RefreshTokenHash,
		UserAgent:        d.UserAgent,
		IPAddress:        d.IPAddress,
		IsActive:         d.IsActive,
		LastActivityAt:   d.LastActivityAt,
		ExpiresAt:        d.ExpiresAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (s *Storage) CreateSession(ctx context.Context, session *models.Session) error {
	_, err := s.sessions.InsertOne(ctx, sessionDocument{
		ID:               session.ID,
		UserID:           session.UserID,
		RefreshTokenHash: session.RefreshTokenHash,
		UserAgent:        session.UserAgent,
		IPAddress:        session.IPAddress,
		IsActive:         session.IsActive,
		LastActivityAt:   session.LastActivityAt,
		ExpiresAt:        session.ExpiresAt,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	})
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
	return s.findSession(ctx, bson.M{"_id": id})
}

func (s *Storage) GetSessionByRefreshTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	return s.findSession(ctx, bson.M{"refreshTokenHash": hash})
}

func (s *Storage) findSession(ctx context.Context, filter bson.M) (*models.Session, error) {
	doc, err := findOne[sessionDocument](ctx, s.sessions, filter)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Msg("failed to find session")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) ListActiveSessionsByUserID(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	docs, err := findMany[sessionDocument](ctx, s.sessions,
		bson.M{
			"userId":    userID,
			"isActive":  true,
			"expiresAt": bson.M{"$gt": now},
		},
		options.Find().SetSort(bson.D{{Key: "lastActivity", Value: -1}}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find sessions by user id")
		return nil, err
	}

	sessions := make([]*models.Session, 0, len(docs))
	for i := range docs {
		sessions = append(sessions, docs[i].model())
	}
	return sessions, nil
}

func (s *Storage) UpdateSession(ctx context.Context, session *models.Session) error {
	result, err := s.sessions.UpdateOne(ctx, bson.M{"_id": session.ID}, bson.M{
		"$set": bson.M{
			"refreshTokenHash": session.RefreshTokenHash,
			"isActive":         session.IsActive,
			"lastActivity":     session.LastActivityAt,
			"expiresAt":        session.ExpiresAt,
			"updatedAt":        session.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Msg("failed to update session")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) RevokeSessionsByUserID(ctx context.Context, userID string, at time.Time) (int64, error) {
	result, err := s.sessions.UpdateMany(ctx,
		bson.M{"userId": userID, "isActive": true},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": at}},
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to revoke sessions")
		return 0, err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", result.ModifiedCount).
		Msg("revoked sessions")
	return result.ModifiedCount, nil
}

func (s *Storage) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	_, err := s.sessions.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete sessions by user id")
		return err
	}
	return nil
}
