package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type taskServiceImpl struct {
	logger  zerolog.Logger
	tasks   storage.TaskRepository
	folders storage.FolderRepository
	teams   storage.TeamRepository
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskRepository,
	folders storage.FolderRepository,
	teams storage.TeamRepository,
) TaskService {
	return &taskServiceImpl{
		logger:  logger,
		tasks:   tasks,
		folders: folders,
		teams:   teams,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	filter := storage.TaskFilter{Status: params.Status}
	if params.FolderID != nil {
		if !isValidID(*params.FolderID) {
			return []*models.Task{}, nil
		}
		filter.FolderID = params.FolderID
	}

	tasks, err := s.tasks.ListTasksByUserID(ctx, params.UserID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", params.UserID).
		Msg("listed tasks")
	return tasks, nil
}

func (s *taskServiceImpl) ListTrashedTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasksByUserID(ctx, userID, storage.TaskFilter{Trashed: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list trashed tasks: %w", err)
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("listed trashed tasks")
	return tasks, nil
}

// GetTask returns the task whether it is active or in the trash.
func (s *taskServiceImpl) GetTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	return s.getOwnedTask(ctx, params.ID, params.UserID)
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := models.ParseTaskTitle(params.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		Title:       title,
		Description: params.Description,
		Status:      models.StatusTodo,
		Priority:    models.PriorityMedium,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}

	err = s.checkFolder(ctx, params.UserID, params.FolderID)
	if err != nil {
		return nil, err
	}
	task.FolderID = params.FolderID

	err = s.checkTeam(ctx, params.UserID, params.TeamID)
	if err != nil {
		return nil, err
	}
	task.TeamID = params.TeamID

	task.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) DuplicateTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	source, err := s.getOwnedTask(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}
	if source.IsTrashed() {
		return nil, ErrTaskNotFound
	}

	now := time.Now()
	task := &models.Task{
		UserID:      source.UserID,
		Title:       duplicateTitle(source.Title),
		Description: source.Description,
		Status:      models.StatusTodo,
		Priority:    source.Priority,
		DueDate:     source.DueDate,
		FolderID:    source.FolderID,
		TeamID:      source.TeamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	task.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task id")
		return nil, err
	}

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("source_task_id", source.ID).
		Msg("duplicated task")
	return task, nil
}

const duplicateTitleSuffix = " (copy)"

// duplicateTitle appends duplicateTitleSuffix, cutting the original title so
// that the result still fits the title limit.
func duplicateTitle(title string) string {
	runes := []rune(title)
	limit := models.MaxTaskTitleLength - utf8.RuneCountInString(duplicateTitleSuffix)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return string(runes) + duplicateTitleSuffix
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}
	if task.IsTrashed() {
		s.logger.Debug().
			Str("task_id", task.ID).
			Msg("update of a trashed task")
		return nil, ErrTaskNotFound
	}

	if params.Title != nil {
		task.Title, err = models.ParseTaskTitle(*params.Title)
		if err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		task.Description = *params.Description
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDateSet {
		task.DueDate = params.DueDate
	}
	if params.FolderIDSet {
		err = s.checkFolder(ctx, params.UserID, params.FolderID)
		if err != nil {
			return nil, err
		}
		task.FolderID = params.FolderID
	}
	if params.TeamIDSet {
		err = s.checkTeam(ctx, params.UserID, params.TeamID)
		if err != nil {
			return nil, err
		}
		task.TeamID = params.TeamID
	}
	task.UpdatedAt = time.Now()

	err = s.save(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params TaskParams) error {
	task, err := s.getOwnedTask(ctx, params.ID, params.UserID)
	if err != nil {
		return err
	}
	if task.IsTrashed() {
		return nil
	}

	now := time.Now()
	task.DeletedAt = &now
	task.UpdatedAt = now

	err = s.save(ctx, task)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("moved task to trash")
	return nil
}

func (s *taskServiceImpl) RestoreTask(ctx context.Context, params TaskParams) (*models.Task, error) {
	task, err := s.getOwnedTask(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}
	if !task.IsTrashed() {
		return task, nil
	}

	task.DeletedAt = nil
	task.UpdatedAt = time.Now()

	err = s.save(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("restored task")
	return task, nil
}

func (s *taskServiceImpl) PermanentlyDeleteTask(ctx context.Context, params TaskParams) error {
	task, err := s.getOwnedTask(ctx, params.ID, params.UserID)
	if err != nil {
		return err
	}

	err = s.tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("permanently deleted task")
	return nil
}

// getOwnedTask loads the task and checks that userID owns it. Existence is
// checked before ownership.
func (s *taskServiceImpl) getOwnedTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	if !isValidID(taskID) {
		return nil, ErrTaskNotFound
	}

	task, err := s.tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if task.UserID != userID {
		s.logger.Warn().
			Str("task_id", task.ID).
			Str("user_id", userID).
			Msg("access to a task of another user")
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *taskServiceImpl) save(ctx context.Context, task *models.Task) error {
	err := s.tasks.UpdateTask(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (s *taskServiceImpl) checkFolder(ctx context.Context, userID string, folderID *string) error {
	if folderID == nil {
		return nil
	}

	invalid := models.NewValidationError("folderId", "folder does not exist")
	if !isValidID(*folderID) {
		return invalid
	}

	folder, err := s.folders.GetFolderByID(ctx, *folderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("failed to get folder: %w", err)
	}
	if folder.UserID != userID {
		return invalid
	}
	return nil
}

func (s *taskServiceImpl) checkTeam(ctx context.Context, userID string, teamID *string) error {
	if teamID == nil {
		return nil
	}

	invalid := models.NewValidationError("teamId", "team does not exist")
	if !isValidID(*teamID) {
		return invalid
	}

	team, err := s.teams.GetTeamByID(ctx, *teamID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return invalid
		}
		return fmt.Errorf("failed to get team: %w", err)
	}
	if !team.HasMember(userID) {
		return invalid
	}
	return nil
}
