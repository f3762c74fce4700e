package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

const selectHabitColumns = `
SELECT h.id::text,
       h.user_id::text,
       h.name,
       h.description,
       h.category,
       h.frequency,
       h.goal,
       h.reminder_time,
       h.color,
       h.is_active,
       ARRAY(SELECT sh.user_id::text
             FROM habit_shares sh
             WHERE sh.habit_id = h.id
             ORDER BY sh.shared_at, sh.user_id) AS shared_with,
       h.created_at,
       h.updated_at
FROM habits h
`

func scanHabit(row pgx.Row) (*models.Habit, error) {
	var (
		habit     models.Habit
		category  string
		frequency string
		goal      *int32
	)
	err := row.Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Name,
		&habit.Description,
		&category,
		&frequency,
		&goal,
		&habit.ReminderTime,
		&habit.Color,
		&habit.IsActive,
		&habit.SharedWith,
		&habit.CreatedAt,
		&habit.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	habit.Category = models.HabitCategory(category)
	habit.Frequency = models.HabitFrequency(frequency)
	if goal != nil {
		value := int(*goal)
		habit.Goal = &value
	}
	return &habit, nil
}

func (s *Storage) CreateHabit(ctx context.Context, habit *models.Habit) error {
	const insertHabitQuery = `
INSERT INTO habits (id,
                    user_id,
                    name,
                    description,
                    category,
                    frequency,
                    goal,
                    reminder_time,
                    color,
                    is_active,
                    created_at,
                    updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`
	_, err := s.pool.Exec(
		ctx,
		insertHabitQuery,
		habit.ID,
		habit.UserID,
		habit.Name,
		habit.Description,
		string(habit.Category),
		string(habit.Frequency),
		habit.Goal,
		habit.ReminderTime,
		habit.Color,
		habit.IsActive,
		habit.CreatedAt,
		habit.UpdatedAt,
	)
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
	habit, err := scanHabit(s.pool.QueryRow(ctx, selectHabitColumns+`WHERE h.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}

		s.logger.Error().
			Err(err).
			Str("habit_id", id).
			Msg("failed to select habit")
		return nil, err
	}
	return habit, nil
}

func (s *Storage) ListHabitsByUserID(ctx context.Context, userID string, filter storage.HabitFilter) ([]*models.Habit, error) {
	var category *string
	if filter.Category != nil {
		value := string(*filter.Category)
		category = &value
	}

	const listHabitsQuery = selectHabitColumns + `
WHERE (h.user_id = $1 OR EXISTS (SELECT 1
                                 FROM habit_shares sh
                                 WHERE sh.habit_id = h.id AND sh.user_id = $1))
  AND ($2::boolean IS NULL OR h.is_active = $2::boolean)
  AND ($3::text IS NULL OR h.category = $3::text)
ORDER BY h.created_at DESC
`
	rows, err := s.pool.Query(ctx, listHabitsQuery, userID, filter.IsActive, category)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select habits by user id")
		return nil, err
	}
	defer rows.Close()

	habits := make([]*models.Habit, 0)
	for rows.Next() {
		habit, err := scanHabit(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan habit")
			return nil, err
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func (s *Storage) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	const updateHabitQuery = `
UPDATE habits
SET name = $1,
    description = $2,
    category = $3,
    frequency = $4,
    goal = $5,
    reminder_time = $6,
    color = $7,
    is_active = $8,
    updated_at = $9
WHERE id = $10
`
	tag, err := s.pool.Exec(
		ctx,
		updateHabitQuery,
		habit.Name,
		habit.Description,
		string(habit.Category),
		string(habit.Frequency),
		habit.Goal,
		habit.ReminderTime,
		habit.Color,
		habit.IsActive,
		habit.UpdatedAt,
		habit.ID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habit.ID).
			Msg("failed to update habit")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) ShareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	const insertShareQuery = `
INSERT INTO habit_shares (habit_id, user_id, shared_at)
VALUES ($1, $2, $3)
ON CONFLICT DO NOTHING
`
	return s.touchHabitShares(ctx, habitID, at, insertShareQuery, habitID, userID, at)
}

func (s *Storage) UnshareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	const deleteShareQuery = `
DELETE FROM habit_shares
WHERE habit_id = $1 AND user_id = $2
`
	return s.touchHabitShares(ctx, habitID, at, deleteShareQuery, habitID, userID)
}

// touchHabitShares runs the share statement and bumps updated_at of the
// habit in one transaction.
func (s *Storage) touchHabitShares(ctx context.Context, habitID string, at time.Time, query string, args ...any) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `UPDATE habits SET updated_at = $1 WHERE id = $2`, at, habitID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to touch habit")
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.Exec(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to change habit shares")
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}
	return nil
}

func (s *Storage) DeleteHabitsByUserID(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM habits WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete habits by user id")
		return err
	}
	s.logger.Debug().
		Str("user_id", userID).
		Int64("affected", tag.RowsAffected()).
		Msg("deleted habits by user id")
	return nil
}

func (s *Storage) RemoveUserFromSharedHabits(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM habit_shares WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to remove user from shared habits")
		return err
	}
	return nil
}

const selectHabitLogColumns = `
SELECT id::text,
       habit_id::text,
       user_id::text,
       date,
       completed,
       notes,
       created_at,
       updated_at
FROM habit_logs
`

func scanHabitLog(row pgx.Row) (*models.HabitLog, error) {
	log := new(models.HabitLog)
	err := row.Scan(
		&log.ID,
		&log.HabitID,
		&log.UserID,
		&log.Date,
		&log.Completed,
		&log.Notes,
		&log.CreatedAt,
		&log.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	log.Date = models.TruncateToDay(log.Date)
	return log, nil
}

func (s *Storage) UpsertHabitLog(ctx context.Context, log *models.HabitLog) error {
	const upsertHabitLogQuery = `
INSERT INTO habit_logs (id,
                        habit_id,
                        user_id,
                        date,
                        completed,
                        notes,
                        created_at,
                        updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (habit_id, user_id, date) DO UPDATE
SET completed = EXCLUDED.completed,
    notes = EXCLUDED.notes,
    updated_at = EXCLUDED.updated_at
RETURNING id::text, created_at
`
	err := s.pool.QueryRow(
		ctx,
		upsertHabitLogQuery,
		log.ID,
		log.HabitID,
		log.UserID,
		log.Date,
		log.Completed,
		log.Notes,
		log.CreatedAt,
		log.UpdatedAt,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", log.HabitID).
			Str("user_id", log.UserID).
			Msg("failed to upsert habit log")
		return err
	}
	s.logger.Debug().
		Str("habit_log_id", log.ID).
		Msg("upserted habit log")
	return nil
}

func (s *Storage) DeleteHabitLog(ctx context.Context, habitID, userID string, date time.Time) error {
	const deleteHabitLogQuery = `
DELETE FROM habit_logs
WHERE habit_id = $1 AND user_id = $2 AND date = $3
`
	tag, err := s.pool.Exec(ctx, deleteHabitLogQuery, habitID, userID, date)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to delete habit log")
		return err
	}
	return notFoundIfNoRows(tag)
}

func (s *Storage) ListHabitLogs(
	ctx context.Context,
	habitID string,
	userID string,
	filter storage.HabitLogFilter,
) ([]*models.HabitLog, error) {
	const listHabitLogsQuery = selectHabitLogColumns + `
WHERE habit_id = $1
  AND user_id = $2
  AND ($3::date IS NULL OR date >= $3::date)
  AND ($4::date IS NULL OR date <= $4::date)
ORDER BY date DESC
`
	rows, err := s.pool.Query(ctx, listHabitLogsQuery, habitID, userID, filter.From, filter.To)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("habit_id", habitID).
			Msg("failed to select habit logs")
		return nil, err
	}
	defer rows.Close()

	logs := make([]*models.HabitLog, 0)
	for rows.Next() {
		log, err := scanHabitLog(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan habit log")
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (s *Storage) DeleteHabitLogsByUserID(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM habit_logs WHERE user_id = $1`, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to delete habit logs by user id")
		return err
	}
	return nil
}
