package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type habitServiceImpl struct {
	logger    zerolog.Logger
	habits    storage.HabitRepository
	habitLogs storage.HabitLogRepository
	users     storage.UserRepository
	now       func() time.Time
}

func NewHabitService(
	logger zerolog.Logger,
	habits storage.HabitRepository,
	habitLogs storage.HabitLogRepository,
	users storage.UserRepository,
) HabitService {
	return &habitServiceImpl{
		logger:    logger,
		habits:    habits,
		habitLogs: habitLogs,
		users:     users,
		now:       time.Now,
	}
}

func (s *habitServiceImpl) ListHabits(ctx context.Context, params ListHabitsParams) ([]*HabitDetails, error) {
	habits, err := s.habits.ListHabitsByUserID(ctx, params.UserID, storage.HabitFilter{
		IsActive: params.IsActive,
		Category: params.Category,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	details := make([]*HabitDetails, 0, len(habits))
	for _, habit := range habits {
		detail, err := s.withStats(ctx, habit, params.UserID)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	s.logger.Debug().
		Int("count", len(details)).
		Str("user_id", params.UserID).
		Msg("listed habits")
	return details, nil
}

func (s *habitServiceImpl) GetHabit(ctx context.Context, params HabitParams) (*HabitDetails, error) {
	habit, err := s.getVisibleHabit(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}
	return s.withStats(ctx, habit, params.UserID)
}

func (s *habitServiceImpl) CreateHabit(ctx context.Context, params CreateHabitParams) (*HabitDetails, error) {
	name, err := models.ParseHabitName(params.Name)
	if err != nil {
		return nil, err
	}
	category, err := models.ParseHabitCategory(params.Category)
	if err != nil {
		return nil, err
	}
	frequency, err := models.ParseHabitFrequency(params.Frequency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	habit := &models.Habit{
		UserID:       params.UserID,
		Name:         name,
		Description:  strings.TrimSpace(params.Description),
		Category:     category,
		Frequency:    frequency,
		Goal:         params.Goal,
		ReminderTime: params.ReminderTime,
		Color:        strings.TrimSpace(params.Color),
		IsActive:     true,
		SharedWith:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if params.IsActive != nil {
		habit.IsActive = *params.IsActive
	}

	habit.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate habit id")
		return nil, err
	}

	err = s.habits.CreateHabit(ctx, habit)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Str("user_id", habit.UserID).
		Msg("created habit")
	return &HabitDetails{Habit: habit}, nil
}

func (s *habitServiceImpl) UpdateHabit(ctx context.Context, params UpdateHabitParams) (*HabitDetails, error) {
	habit, err := s.getOwnedHabit(ctx, params.ID, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		habit.Name, err = models.ParseHabitName(*params.Name)
		if err != nil {
			return nil, err
		}
	}
	if params.Description != nil {
		habit.Description = strings.TrimSpace(*params.Description)
	}
	if params.Category != nil {
		habit.Category, err = models.ParseHabitCategory(*params.Category)
		if err != nil {
			return nil, err
		}
	}
	if params.Frequency != nil {
		habit.Frequency, err = models.ParseHabitFrequency(*params.Frequency)
		if err != nil {
			return nil, err
		}
	}
	if params.Goal != nil {
		habit.Goal = params.Goal
	}
	if params.ReminderTime != nil {
		habit.ReminderTime = params.ReminderTime
	}
	if params.Color != nil {
		habit.Color = strings.TrimSpace(*params.Color)
	}
	if params.IsActive != nil {
		habit.IsActive = *params.IsActive
	}
	habit.UpdatedAt = s.now()

	err = s.save(ctx, habit)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Msg("updated habit")
	return s.withStats(ctx, habit, params.UserID)
}

func (s *habitServiceImpl) ArchiveHabit(ctx context.Context, params HabitParams) error {
	habit, err := s.getOwnedHabit(ctx, params.ID, params.UserID)
	if err != nil {
		return err
	}
	if !habit.IsActive {
		return nil
	}

	habit.IsActive = false
	habit.UpdatedAt = s.now()
	err = s.save(ctx, habit)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Msg("archived habit")
	return nil
}

func (s *habitServiceImpl) LogHabit(ctx context.Context, params LogHabitParams) (*models.HabitLog, error) {
	habit, err := s.getVisibleHabit(ctx, params.HabitID, params.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	log := &models.HabitLog{
		HabitID:   habit.ID,
		UserID:    params.UserID,
		Date:      models.TruncateToDay(params.Date),
		Completed: params.Completed,
		Notes:     strings.TrimSpace(params.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	log.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate habit log id")
		return nil, err
	}

	err = s.habitLogs.UpsertHabitLog(ctx, log)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert habit log: %w", err)
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Str("user_id", params.UserID).
		Str("date", log.Date.Format(models.HabitDateLayout)).
		Bool("completed", log.Completed).
		Msg("logged habit")
	return log, nil
}

func (s *habitServiceImpl) DeleteHabitLog(ctx context.Context, params DeleteHabitLogParams) error {
	habit, err := s.getVisibleHabit(ctx, params.HabitID, params.UserID)
	if err != nil {
		return err
	}

	err = s.habitLogs.DeleteHabitLog(ctx, habit.ID, params.UserID, models.TruncateToDay(params.Date))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrHabitLogNotFound
		}
		return fmt.Errorf("failed to delete habit log: %w", err)
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Str("user_id", params.UserID).
		Msg("deleted habit log")
	return nil
}

func (s *habitServiceImpl) ListHabitLogs(ctx context.Context, params ListHabitLogsParams) (*HabitLogs, error) {
	if params.From != nil && params.To != nil && params.From.After(*params.To) {
		return nil, models.NewValidationError("startDate", "must not be after endDate")
	}

	habit, err := s.getVisibleHabit(ctx, params.HabitID, params.UserID)
	if err != nil {
		return nil, err
	}

	logs, err := s.habitLogs.ListHabitLogs(ctx, habit.ID, params.UserID, storage.HabitLogFilter{
		From: params.From,
		To:   params.To,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	return &HabitLogs{Habit: habit, Logs: logs}, nil
}

func (s *habitServiceImpl) MonthlyLogs(ctx context.Context, params MonthlyLogsParams) (*MonthlyLogs, error) {
	if params.Month < time.January || params.Month > time.December {
		return nil, models.NewValidationError("month", "must be between 1 and 12")
	}
	if params.Year < 1 || params.Year > 9999 {
		return nil, models.NewValidationError("year", "must be between 1 and 9999")
	}

	from := time.Date(params.Year, params.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	active := true
	habits, err := s.habits.ListHabitsByUserID(ctx, params.UserID, storage.HabitFilter{IsActive: &active})
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}

	result := &MonthlyLogs{
		Month:     params.Month,
		Year:      params.Year,
		TotalDays: to.Day(),
		Habits:    make([]*MonthlyHabitLogs, 0, len(habits)),
	}
	for _, habit := range habits {
		logs, err := s.habitLogs.ListHabitLogs(ctx, habit.ID, params.UserID, storage.HabitLogFilter{
			From: &from,
			To:   &to,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list habit logs: %w", err)
		}

		completions := 0
		for _, log := range logs {
			if log.Completed {
				completions++
			}
		}
		result.Habits = append(result.Habits, &MonthlyHabitLogs{
			Habit:       habit,
			Logs:        logs,
			Completions: completions,
		})
	}
	return result, nil
}

func (s *habitServiceImpl) ShareHabit(ctx context.Context, params ShareHabitParams) (*HabitDetails, error) {
	habit, err := s.getOwnedHabit(ctx, params.HabitID, params.UserID)
	if err != nil {
		return nil, err
	}

	target, err := s.findShareTarget(ctx, params)
	if err != nil {
		return nil, err
	}
	if target.ID == habit.UserID {
		return nil, models.NewValidationError("userId", "cannot share a habit with its owner")
	}
	if habit.IsSharedWith(target.ID) {
		return nil, models.NewValidationError("userId", "habit is already shared with this user")
	}

	now := s.now()
	err = s.habits.ShareHabit(ctx, habit.ID, target.ID, now)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to share habit: %w", err)
	}
	habit.SharedWith = append(habit.SharedWith, target.ID)
	habit.UpdatedAt = now

	s.logger.Info().
		Str("habit_id", habit.ID).
		Str("shared_with", target.ID).
		Msg("shared habit")
	return s.withStats(ctx, habit, params.UserID)
}

func (s *habitServiceImpl) findShareTarget(ctx context.Context, params ShareHabitParams) (*models.User, error) {
	var (
		user *models.User
		err  error
	)
	switch {
	case params.TargetID != "":
		if !isValidID(params.TargetID) {
			return nil, ErrUserNotFound
		}
		user, err = s.users.GetUserByID(ctx, params.TargetID)
	case params.TargetEmail != "":
		var email string
		email, err = models.ParseEmail(params.TargetEmail)
		if err != nil {
			return nil, err
		}
		user, err = s.users.GetUserByEmail(ctx, email)
	default:
		return nil, models.NewValidationError("userId", "either userId or email is required")
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *habitServiceImpl) UnshareHabit(ctx context.Context, params UnshareHabitParams) error {
	habit, err := s.getOwnedHabit(ctx, params.HabitID, params.UserID)
	if err != nil {
		return err
	}
	if !habit.IsSharedWith(params.TargetID) {
		return ErrUserNotFound
	}

	err = s.habits.UnshareHabit(ctx, habit.ID, params.TargetID, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("failed to unshare habit: %w", err)
	}
	s.logger.Info().
		Str("habit_id", habit.ID).
		Str("unshared_with", params.TargetID).
		Msg("unshared habit")
	return nil
}

// withStats computes the streaks of userID's own logs of the habit.
func (s *habitServiceImpl) withStats(ctx context.Context, habit *models.Habit, userID string) (*HabitDetails, error) {
	logs, err := s.habitLogs.ListHabitLogs(ctx, habit.ID, userID, storage.HabitLogFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	return &HabitDetails{
		Habit: habit,
		Stats: models.ComputeHabitStats(logs, s.now()),
	}, nil
}

// getVisibleHabit loads a habit the user owns or that was shared with them.
// Existence is checked before access.
func (s *habitServiceImpl) getVisibleHabit(ctx context.Context, habitID, userID string) (*models.Habit, error) {
	habit, err := s.getHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if !habit.CanView(userID) {
		s.logger.Warn().
			Str("habit_id", habit.ID).
			Str("user_id", userID).
			Msg("access to a habit of another user")
		return nil, ErrForbidden
	}
	return habit, nil
}

func (s *habitServiceImpl) getOwnedHabit(ctx context.Context, habitID, userID string) (*models.Habit, error) {
	habit, err := s.getHabit(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		s.logger.Warn().
			Str("habit_id", habit.ID).
			Str("user_id", userID).
			Msg("owner action on a habit of another user")
		return nil, ErrForbidden
	}
	return habit, nil
}

func (s *habitServiceImpl) getHabit(ctx context.Context, habitID string) (*models.Habit, error) {
	if !isValidID(habitID) {
		return nil, ErrHabitNotFound
	}

	habit, err := s.habits.GetHabitByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	return habit, nil
}

func (s *habitServiceImpl) save(ctx context.Context, habit *models.Habit) error {
	err := s.habits.UpdateHabit(ctx, habit)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrHabitNotFound
		}
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return nil
}
