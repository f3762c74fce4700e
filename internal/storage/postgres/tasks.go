package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectTaskColumns = `
SELECT id::text,
       user_id::text,
       title,
       description,
       status,
       priority,
       due_date,
       folder_id::text,
       team_id::text,
       deleted_at,
       created_at,
       updated_at
FROM tasks
`

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task     models.Task
		status   string
		priority string
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.FolderID,
		&task.TeamID,
		&task.DeletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	task.Status = models.TaskStatus(status)
	task.Priority = models.TaskPriority(priority)
	return &task, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   folder_id,
                   team_id,
                   deleted_at,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := s.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.FolderID,
		task.TeamID,
		task.DeletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", task.UserID).
			Msg("failed to insert task")
		return err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	task, err := scanTask(s.pool.QueryRow(ctx, selectTaskColumns+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to select task")
		return nil, err
	}
	return task, nil
}

func (s *Storage) ListTasksByUserID(ctx context.Context, userID string, filter storage.TaskFilter) ([]*models.Task, error) {
	var status *string
	if filter.Status != nil {
		value := string(*filter.Status)
		status = &value
	}

	const listTasksQuery = selectTaskColumns + `
WHERE user_id = $1
  AND (deleted_at IS NOT NULL) = $2
  AND ($3::uuid IS NULL OR folder_id = $3::uuid)
  AND ($4::text IS NULL OR status = $4::text)
ORDER BY COALESCE(deleted_at, created_at) DESC, created_at DESC
`
	rows, err := s.pool.Query(
		ctx,
		listTasksQuery,
		userID,
		filter.Trashed,
		filter.FolderID,
		status,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Bool("trashed", filter.Trashed).
		Msg("selected tasks by user id")
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    due_date = $5,
    folder_id = $6,
    team_id = $7,
    deleted_at = $8,
    updated_at = $9
WHERE id = $10
`
	tag, err := s.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.FolderID,
		task.TeamID,
		task.DeletedAt,
		task.UpdatedAt,
		task.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := s.pool.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) DeleteTasksByUserID(ctx context.Context, userID string) error {
	const deleteTasksByUserIDQuery = `
DELETE FROM tasks
WHERE user_id = $1
`
	tag, err := s.pool.Exec(ctx, deleteTasksByUserIDQuery, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete tasks by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted tasks by user id")
	return nil
}

func (s *Storage) DetachTasksFromFolder(ctx context.Context, folderID string) error {
	const detachTasksQuery = `
UPDATE tasks
SET folder_id = NULL
WHERE folder_id = $1
`
	_, err := s.pool.Exec(ctx, detachTasksQuery, folderID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("folder_id", folderID).
			Msg("failed to detach tasks from folder")
		return err
	}
	return nil
}

func (s *Storage) DetachTasksFromTeam(ctx context.Context, teamID string) error {
	const detachTasksQuery = `
UPDATE tasks
SET team_id = NULL
WHERE team_id = $1
`
	_, err := s.pool.Exec(ctx, detachTasksQuery, teamID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", teamID).
			Msg("failed to detach tasks from team")
		return err
	}
	return nil
}
