package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectFolderColumns = `
SELECT id::text,
       user_id::text,
       name,
       color,
       is_private,
       created_at,
       updated_at
FROM folders
`

func scanFolder(row pgx.Row) (*models.Folder, error) {
	folder := new(models.Folder)
	err := row.Scan(
		&folder.ID,
		&folder.UserID,
		&folder.Name,
		&folder.Color,
		&folder.IsPrivate,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *Storage) CreateFolder(ctx context.Context, folder *models.Folder) error {
	const insertFolderQuery = `
INSERT INTO folders (id,
                     user_id,
                     name,
                     color,
                     is_private,
                     created_at,
                     updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := s.pool.Exec(
		ctx,
		insertFolderQuery,
		folder.ID,
		folder.UserID,
		folder.Name,
		folder.Color,
		folder.IsPrivate,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert folder")
		return err
	}
	s.logger.Debug().
		Str("folder_id", folder.ID).
		Msg("inserted folder")
	return nil
}

func (s *Storage) GetFolderByID(ctx context.Context, id string) (*models.Folder, error) {
	folder, err := scanFolder(s.pool.QueryRow(ctx, selectFolderColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("folder_id", id).
			Msg("failed to select folder")
		return nil, err
	}
	return folder, nil
}

func (s *Storage) ListFoldersByUserID(ctx context.Context, userID string) ([]*models.Folder, error) {
	rows, err := s.pool.Query(ctx, selectFolderColumns+`WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select folders by user id")
		return nil, err
	}
	defer rows.Close()

	folders := make([]*models.Folder, 0)
	for rows.Next() {
		folder, err := scanFolder(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan folder")
			return nil, err
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

func (s *Storage) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	const updateFolderQuery = `
UPDATE folders
SET name = $1,
    color = $2,
    is_private = $3,
    updated_at = $4
WHERE id = $5
`
	tag, err := s.pool.Exec(
		ctx,
		updateFolderQuery,
		folder.Name,
		folder.Color,
		folder.IsPrivate,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("folder_id", folder.ID).
			Msg("failed to update folder")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteFolder(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("folder_id", id).
			Msg("failed to delete folder")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteFoldersByUserID(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM folders WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete folders by user id")
		return err
	}
	return nil
}
