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

type taskDocument struct {
	ID          string     `bson:"_id"`
	UserID      string     `bson:"userId"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Status      string     `bson:"status"`
	Priority    string     `bson:"priority"`
	DueDate     *time.Time `bson:"dueDate"`
	FolderID    *string    `bson:"folderId"`
	TeamID      *string    `bson:"teamId"`
	DeletedAt   *time.Time `bson:"deletedAt"`
	CreatedAt   time.Time  `bson:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt"`
}

func newTaskDocument(task *models.Task) taskDocument {
	return taskDocument{
		ID:          task.ID,
		UserID:      task.UserID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		FolderID:    task.FolderID,
		TeamID:      task.TeamID,
		DeletedAt:   task.DeletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func (d *taskDocument) model() *models.Task {
	return &models.Task{
		ID:          d.ID,
		UserID:      d.UserID,
		Title:       d.Title,
		Description: d.Description,
		Status:      models.TaskStatus(d.Status),
		Priority:    models.TaskPriority(d.Priority),
		DueDate:     d.DueDate,
		FolderID:    d.FolderID,
		TeamID:      d.TeamID,
		DeletedAt:   d.DeletedAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	_, err := s.tasks.InsertOne(ctx, newTaskDocument(task))
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
	doc, err := findOne[taskDocument](ctx, s.tasks, bson.M{"_id": id})
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Str("task_id", id).
				Msg("failed to find task")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) ListTasksByUserID(ctx context.Context, userID string, filter storage.TaskFilter) ([]*models.Task, error) {
	query := bson.M{"userId": userID}
	sort := bson.D{{Key: "createdAt", Value: -1}}
	if filter.Trashed {
		query["deletedAt"] = bson.M{"$ne": nil}
		sort = bson.D{{Key: "deletedAt", Value: -1}, {Key: "createdAt", Value: -1}}
	} else {
		// Matches both a null and a missing field.
		query["deletedAt"] = nil
	}
	if filter.FolderID != nil {
		query["folderId"] = *filter.FolderID
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	docs, err := findMany[taskDocument](ctx, s.tasks, query, options.Find().SetSort(sort))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find tasks by user id")
		return nil, err
	}

	tasks := make([]*models.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].model())
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Bool("trashed", filter.Trashed).
		Msg("found tasks by user id")
	return tasks, nil
}

func (s *Storage) UpdateTask(ctx context.Context, task *models.Task) error {
	result, err := s.tasks.UpdateOne(ctx, bson.M{"_id": task.ID}, bson.M{
		"$set": bson.M{
			"title":       task.Title,
			"description": task.Description,
			"status":      string(task.Status),
			"priority":    string(task.Priority),
			"dueDate":     task.DueDate,
			"folderId":    task.FolderID,
			"teamId":      task.TeamID,
			"deletedAt":   task.DeletedAt,
			"updatedAt":   task.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	result, err := s.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", id).
			Msg("failed to delete task")
		return err
	}
	return notFoundIfUnmatched(result.DeletedCount)
}

func (s *Storage) DeleteTasksByUserID(ctx context.Context, userID string) error {
	result, err := s.tasks.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete tasks by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", result.DeletedCount).
		Msg("deleted tasks by user id")
	return nil
}

func (s *Storage) DetachTasksFromFolder(ctx context.Context, folderID string) error {
	_, err := s.tasks.UpdateMany(ctx,
		bson.M{"folderId": folderID},
		bson.M{"$set": bson.M{"folderId": nil}},
	)
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
	_, err := s.tasks.UpdateMany(ctx,
		bson.M{"teamId": teamID},
		bson.M{"$set": bson.M{"teamId": nil}},
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("team_id", teamID).
			Msg("failed to detach tasks from team")
		return err
	}
	return nil
}
