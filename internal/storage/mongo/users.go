package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type userDocument struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password,omitempty"`
	AuthProvider string    `bson:"oauthProvider"`
	AvatarURL    string    `bson:"avatarUrl"`
	Bio          string    `bson:"bio"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func newUserDocument(user *models.User) userDocument {
	return userDocument{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		AuthProvider: user.AuthProvider,
		AvatarURL:    user.AvatarURL,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (d *userDocument) model() *models.User {
	return &models.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		AuthProvider: d.AuthProvider,
		AvatarURL:    d.AvatarURL,
		Bio:          d.Bio,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.users.InsertOne(ctx, newUserDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Debug().
				Str("email", user.Email).
				Msg("user with this email already exists")
			return storage.ErrDuplicate
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Msg("inserted user")
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Storage) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	doc, err := findOne[userDocument](ctx, s.users, filter)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Msg("failed to find user")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	result, err := s.users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"password":  user.PasswordHash,
			"avatarUrl": user.AvatarURL,
			"bio":       user.Bio,
			"updatedAt": user.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	result, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("failed to delete user")
		return err
	}
	return notFoundIfUnmatched(result.DeletedCount)
}
