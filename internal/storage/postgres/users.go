package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectUserColumns = `
SELECT id::text,
       name,
       email,
       password_hash,
       auth_provider,
       avatar_url,
       bio,
       created_at,
       updated_at
FROM users
`

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password_hash,
                   auth_provider,
                   avatar_url,
                   bio,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
	_, err := s.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.AuthProvider,
		user.AvatarURL,
		user.Bio,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
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
	return s.selectUser(ctx, selectUserColumns+`WHERE id = $1`, id)
}

func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.selectUser(ctx, selectUserColumns+`WHERE email = $1`, email)
}

func (s *Storage) selectUser(ctx context.Context, query string, arg string) (*models.User, error) {
	user := new(models.User)
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.AuthProvider,
		&user.AvatarURL,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return user, nil
}

func (s *Storage) UpdateUser(ctx context.Context, user *models.User) error {
	const updateUserQuery = `
UPDATE users
SET name = $1,
    password_hash = $2,
    avatar_url = $3,
    bio = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := s.pool.Exec(
		ctx,
		updateUserQuery,
		user.Name,
		user.PasswordHash,
		user.AvatarURL,
		user.Bio,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const deleteUserQuery = `
DELETE FROM users
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteUserQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", id).
			Msg("failed to delete user")
		return err
	}
	return notFoundIfNoRows(tag)
}
