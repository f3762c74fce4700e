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

type folderServiceImpl struct {
	logger  zerolog.Logger
	folders storage.FolderRepository
	tasks   storage.TaskRepository
}

func NewFolderService(
	logger zerolog.Logger,
	folders storage.FolderRepository,
	tasks storage.TaskRepository,
) FolderService {
	return &folderServiceImpl{
		logger:  logger,
		folders: folders,
		tasks:   tasks,
	}
}

func (s *folderServiceImpl) ListFolders(ctx context.Context, userID string) ([]*models.Folder, error) {
	folders, err := s.folders.ListFoldersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	return folders, nil
}

func (s *folderServiceImpl) CreateFolder(ctx context.Context, params CreateFolderParams) (*models.Folder, error) {
	name, err := models.ParseFolderName(params.Name)
	if err != nil {
		return nil, err
	}
	color, err := models.ParseFolderColor(params.Color)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	folder := &models.Folder{
		UserID:    params.UserID,
		Name:      name,
		Color:     color,
		IsPrivate: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if params.IsPrivate != nil {
		folder.IsPrivate = *params.IsPrivate
	}

	folder.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate folder id")
		return nil, err
	}

	err = s.folders.CreateFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}
	s.logger.Info().
		Str("folder_id", folder.ID).
		Str("user_id", folder.UserID).
		Msg("created folder")
	return folder, nil
}

func (s *folderServiceImpl) UpdateFolder(ctx context.Context, params UpdateFolderParams) (*models.Folder, error) {
	folder, err := s.getOwnedFolder(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		folder.Name, err = models.ParseFolderName(*params.Name)
		if err != nil {
			return nil, err
		}
	}
	if params.Color != nil {
		folder.Color, err = models.ParseFolderColor(*params.Color)
		if err != nil {
			return nil, err
		}
	}
	if params.IsPrivate != nil {
		folder.IsPrivate = *params.IsPrivate
	}
	folder.UpdatedAt = time.Now()

	err = s.folders.UpdateFolder(ctx, folder)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to update folder: %w", err)
	}
	s.logger.Info().
		Str("folder_id", folder.ID).
		Msg("updated folder")
	return folder, nil
}

func (s *folderServiceImpl) DeleteFolder(ctx context.Context, userID, folderID string) error {
	folder, err := s.getOwnedFolder(ctx, folderID, userID)
	if err != nil {
		return err
	}

	err = s.tasks.DetachTasksFromFolder(ctx, folder.ID)
	if err != nil {
		return fmt.Errorf("failed to detach tasks: %w", err)
	}

	err = s.folders.DeleteFolder(ctx, folder.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrFolderNotFound
		}
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	s.logger.Info().
		Str("folder_id", folder.ID).
		Str("user_id", userID).
		Msg("deleted folder")
	return nil
}

func (s *folderServiceImpl) getOwnedFolder(ctx context.Context, folderID, userID string) (*models.Folder, error) {
	if !isValidID(folderID) {
		return nil, ErrFolderNotFound
	}

	folder, err := s.folders.GetFolderByID(ctx, folderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}

	if folder.UserID != userID {
		s.logger.Warn().
			Str("folder_id", folder.ID).
			Str("user_id", userID).
			Msg("access to a folder of another user")
		return nil, ErrForbidden
	}
	return folder, nil
}
