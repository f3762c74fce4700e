package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/security"
	"github.com/adanyl0v/taskflow/internal/storage"
)

// AvatarURLPrefix is the public path under which uploaded avatars are served.
const AvatarURLPrefix = "/uploads/"

var allowedAvatarExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

type userServiceImpl struct {
	logger        zerolog.Logger
	store         storage.Storage
	hasher        *security.PasswordHasher
	uploadDir     string
	maxAvatarSize int64
}

// NewUserService takes the whole storage since deleting an account cascades
// through every repository.
func NewUserService(
	logger zerolog.Logger,
	store storage.Storage,
	hasher *security.PasswordHasher,
	uploadDir string,
	maxAvatarSize int64,
) UserService {
	return &userServiceImpl{
		logger:        logger,
		store:         store,
		hasher:        hasher,
		uploadDir:     uploadDir,
		maxAvatarSize: maxAvatarSize,
	}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error) {
	user, err := s.GetProfile(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		user.Name, err = models.ParseUserName(*params.Name)
		if err != nil {
			return nil, err
		}
	}
	if params.Bio != nil {
		user.Bio, err = models.ParseBio(*params.Bio)
		if err != nil {
			return nil, err
		}
	}
	if params.AvatarURL != nil {
		avatarURL := strings.TrimSpace(*params.AvatarURL)
		// Uploaded files are removed on replacement, so only the upload
		// endpoint may point a profile at one.
		if avatarURL != user.AvatarURL && strings.HasPrefix(avatarURL, AvatarURLPrefix) {
			return nil, models.NewValidationError("avatarUrl", "must not point to an uploaded file, use the avatar upload instead")
		}
		user.AvatarURL = avatarURL
	}
	user.UpdatedAt = time.Now()

	err = s.save(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, params ChangePasswordParams) error {
	if params.CurrentPassword == "" {
		return models.NewValidationError("currentPassword", "is required")
	}
	if params.NewPassword == "" {
		return models.NewValidationError("newPassword", "is required")
	}

	user, err := s.GetProfile(ctx, params.UserID)
	if err != nil {
		return err
	}

	match, err := s.hasher.Verify(params.CurrentPassword, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return err
	} else if !match {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("current password does not match")
		return ErrInvalidCredentials
	}

	user.PasswordHash, err = s.hasher.Hash(params.NewPassword)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}
	user.UpdatedAt = time.Now()

	err = s.save(ctx, user)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Msg("changed password")
	return nil
}

func (s *userServiceImpl) DeleteAccount(ctx context.Context, userID string) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	err = s.store.DeleteSessionsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}

	err = s.store.DeleteTasksByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}

	err = s.store.DeleteFoldersByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete folders: %w", err)
	}

	teams, err := s.store.ListTeamsByMemberID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	for _, team := range teams {
		if team.OwnerID != userID {
			continue
		}
		err = s.store.DetachTasksFromTeam(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("failed to detach tasks from team: %w", err)
		}
	}

	err = s.store.DeleteTeamsByOwnerID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete teams: %w", err)
	}

	err = s.store.RemoveMemberFromTeams(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to leave teams: %w", err)
	}

	err = s.store.DeleteHabitLogsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit logs: %w", err)
	}

	err = s.store.DeleteHabitsByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habits: %w", err)
	}

	err = s.store.RemoveUserFromSharedHabits(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to leave shared habits: %w", err)
	}

	err = s.store.DeleteUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.removeAvatar(user.AvatarURL)

	s.logger.Info().
		Str("user_id", userID).
		Msg("deleted account")
	return nil
}

func (s *userServiceImpl) UploadAvatar(ctx context.Context, params UploadAvatarParams) (*models.User, error) {
	ext := strings.ToLower(filepath.Ext(params.FileName))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return nil, models.NewValidationError("avatar", "only jpg, jpeg, png, gif and webp images are allowed")
	}
	if params.Size > s.maxAvatarSize {
		return nil, models.NewValidationError("avatar", fmt.Sprintf("must be at most %d bytes", s.maxAvatarSize))
	}

	user, err := s.GetProfile(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	name := id + ext

	err = s.writeAvatar(name, params.Content)
	if err != nil {
		return nil, err
	}

	previous := user.AvatarURL
	user.AvatarURL = AvatarURLPrefix + name
	user.UpdatedAt = time.Now()

	err = s.save(ctx, user)
	if err != nil {
		s.removeAvatar(user.AvatarURL)
		return nil, err
	}
	s.removeAvatar(previous)

	s.logger.Info().
		Str("user_id", user.ID).
		Str("avatar_url", user.AvatarURL).
		Msg("uploaded avatar")
	return user, nil
}

func (s *userServiceImpl) writeAvatar(name string, content io.Reader) error {
	err := os.MkdirAll(s.uploadDir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create upload dir: %w", err)
	}

	filePath := filepath.Join(s.uploadDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create avatar file: %w", err)
	}

	written, err := io.Copy(file, io.LimitReader(content, s.maxAvatarSize+1))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filePath)
		return fmt.Errorf("failed to write avatar file: %w", err)
	}
	if written > s.maxAvatarSize {
		_ = os.Remove(filePath)
		return models.NewValidationError("avatar", fmt.Sprintf("must be at most %d bytes", s.maxAvatarSize))
	}
	return nil
}

// removeAvatar deletes a previously uploaded avatar. External URLs are left
// alone.
func (s *userServiceImpl) removeAvatar(avatarURL string) {
	if !strings.HasPrefix(avatarURL, AvatarURLPrefix) {
		return
	}

	name := path.Base(avatarURL)
	err := os.Remove(filepath.Join(s.uploadDir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn().
			Err(err).
			Str("avatar_url", avatarURL).
			Msg("failed to remove avatar file")
	}
}

func (s *userServiceImpl) save(ctx context.Context, user *models.User) error {
	err := s.store.UpdateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
