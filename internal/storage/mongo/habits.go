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

type habitDocument struct {
	ID           string    `bson:"_id"`
	UserID       string    `bson:"userId"`
	Name         string    `bson:"name"`
	Description  string    `bson:"description"`
	Category     string    `bson:"category"`
	Frequency    string    `bson:"frequency"`
	Goal         *int      `bson:"goal"`
	ReminderTime *string   `bson:"reminderTime"`
	Color        string    `bson:"color"`
	IsActive     bool      `bson:"isActive"`
	SharedWith   []string  `bson:"sharedWith"`
	CreatedAt    time.Time `bson:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt"`
}

func (d *habitDocument) model() *models.Habit {
	sharedWith := d.SharedWith
	if sharedWith == nil {
		sharedWith = make([]string, 0)
	}
	return &models.Habit{
		ID:           d.ID,
		UserID:       d.UserID,
		Name:         d.Name,
		Description:  d.Description,
		Category:     models.HabitCategory(d.Category),
		Frequency:    models.HabitFrequency(d.Frequency),
		Goal:         d.Goal,
		ReminderTime: d.ReminderTime,
		Color:        d.Color,
		IsActive:     d.IsActive,
		SharedWith:   sharedWith,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func (s *Storage) CreateHabit(ctx context.Context, habit *models.Habit) error {
	sharedWith := habit.SharedWith
	if sharedWith == nil {
		sharedWith = make([]string, 0)
	}
	_, err := s.habits.InsertOne(ctx, habitDocument{
		ID:           habit.ID,
		UserID:       habit.UserID,
		Name:         habit.Name,
		Description:  habit.Description,
		Category:     string(habit.Category),
		Frequency:    string(habit.Frequency),
		Goal:         habit.Goal,
		ReminderTime: habit.ReminderTime,
		Color:        habit.Color,
		IsActive:     habit.IsActive,
		SharedWith:   sharedWith,
		CreatedAt:    habit.CreatedAt,
		UpdatedAt:    habit.UpdatedAt,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", habit.UserID).
			Msg("failed to insert habit")
		return err
	}
	s.logger.Debug().
		Str("habit_id", habit.ID).
		Msg("inserted habit")
	return nil
}

func (s *Storage) GetHabitByID(ctx context.Context, id string) (*models.Habit, error) {
	doc, err := findOne[habitDocument](ctx, s.habits, bson.M{"_id": id})
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Err(err).
				Str("habit_id", id).
				Msg("failed to find habit")
		}
		return nil, err
	}
	return doc.model(), nil
}

func (s *Storage) ListHabitsByUserID(ctx context.Context, userID string, filter storage.HabitFilter) ([]*models.Habit, error) {
	query := bson.M{
		"$or": bson.A{
			bson.M{"userId": userID},
			bson.M{"sharedWith": userID},
		},
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}
	if filter.Category != nil {
		query["category"] = string(*filter.Category)
	}

	docs, err := findMany[habitDocument](ctx, s.habits, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find habits by user id")
		return nil, err
	}

	habits := make([]*models.Habit, 0, len(docs))
	for i := range docs {
		habits = append(habits, docs[i].model())
	}
	return habits, nil
}

func (s *Storage) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	result, err := s.habits.UpdateOne(ctx, bson.M{"_id": habit.ID}, bson.M{
		"$set": bson.M{
			"name":         habit.Name,
			"description":  habit.Description,
			"category":     string(habit.Category),
			"frequency":    string(habit.Frequency),
			"goal":         habit.Goal,
			"reminderTime": habit.ReminderTime,
			"color":        habit.Color,
			"isActive":     habit.IsActive,
			"updatedAt":    habit.UpdatedAt,
		},
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habit.ID).
			Msg("failed to update habit")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) ShareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	return s.updateHabitShares(ctx, habitID, bson.M{
		"$addToSet": bson.M{"sharedWith": userID},
		"$set":      bson.M{"updatedAt": at},
	})
}

func (s *Storage) UnshareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	return s.updateHabitShares(ctx, habitID, bson.M{
		"$pull": bson.M{"sharedWith": userID},
		"$set":  bson.M{"updatedAt": at},
	})
}

func (s *Storage) updateHabitShares(ctx context.Context, habitID string, update bson.M) error {
	result, err := s.habits.UpdateOne(ctx, bson.M{"_id": habitID}, update)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to change habit shares")
		return err
	}
	return notFoundIfUnmatched(result.MatchedCount)
}

func (s *Storage) DeleteHabitsByUserID(ctx context.Context, userID string) error {
	docs, err := findMany[habitDocument](ctx, s.habits, bson.M{"userId": userID},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to find habits by user id")
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	ids := make(bson.A, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}

	_, err = s.habitLogs.DeleteMany(ctx, bson.M{"habitId": bson.M{"$in": ids}})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete logs of habits")
		return err
	}

	result, err := s.habits.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete habits by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", result.DeletedCount).
		Msg("deleted habits by user id")
	return nil
}

func (s *Storage) RemoveUserFromSharedHabits(ctx context.Context, userID string) error {
	_, err := s.habits.UpdateMany(ctx,
		bson.M{"sharedWith": userID},
		bson.M{"$pull": bson.M{"sharedWith": userID}},
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to remove user from shared habits")
		return err
	}
	return nil
}

type habitLogDocument struct {
	ID        string    `bson:"_id"`
	HabitID   string    `bson:"habitId"`
	UserID    string    `bson:"userId"`
	Date      time.Time `bson:"date"`
	Completed bool      `bson:"completed"`
	Notes     string    `bson:"notes"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (d *habitLogDocument) model() *models.HabitLog {
	return &models.HabitLog{
		ID:        d.ID,
		HabitID:   d.HabitID,
		UserID:    d.UserID,
		Date:      models.TruncateToDay(d.Date),
		Completed: d.Completed,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func (s *Storage) UpsertHabitLog(ctx context.Context, log *models.HabitLog) error {
	filter := bson.M{
		"habitId": log.HabitID,
		"userId":  log.UserID,
		"date":    log.Date,
	}
	update := bson.M{
		"$set": bson.M{
			"completed": log.Completed,
			"notes":     log.Notes,
			"updatedAt": log.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":       log.ID,
			"createdAt": log.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc habitLogDocument
	err := s.habitLogs.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", log.HabitID).
			Str("user_id", log.UserID).
			Msg("failed to upsert habit log")
		return err
	}
	log.ID = doc.ID
	log.CreatedAt = doc.CreatedAt
	s.logger.Debug().
		Str("habit_log_id", log.ID).
		Msg("upserted habit log")
	return nil
}

func (s *Storage) DeleteHabitLog(ctx context.Context, habitID, userID string, date time.Time) error {
	result, err := s.habitLogs.DeleteOne(ctx, bson.M{
		"habitId": habitID,
		"userId":  userID,
		"date":    date,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to delete habit log")
		return err
	}
	return notFoundIfUnmatched(result.DeletedCount)
}

func (s *Storage) ListHabitLogs(
	ctx context.Context,
	habitID string,
	userID string,
	filter storage.HabitLogFilter,
) ([]*models.HabitLog, error) {
	query := bson.M{
		"habitId": habitID,
		"userId":  userID,
	}
	if filter.From != nil || filter.To != nil {
		dates := bson.M{}
		if filter.From != nil {
			dates["$gte"] = *filter.From
		}
		if filter.To != nil {
			dates["$lte"] = *filter.To
		}
		query["date"] = dates
	}

	docs, err := findMany[habitLogDocument](ctx, s.habitLogs, query,
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}),
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to find habit logs")
		return nil, err
	}

	logs := make([]*models.HabitLog, 0, len(docs))
	for i := range docs {
		logs = append(logs, docs[i].model())
	}
	return logs, nil
}

func (s *Storage) DeleteHabitLogsByUserID(ctx context.Context, userID string) error {
	_, err := s.habitLogs.DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete habit logs by user id")
		return err
	}
	return nil
}
