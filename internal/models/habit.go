package models

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type HabitCategory string

const (
	CategoryHealth       HabitCategory = "health"
	CategoryFitness      HabitCategory = "fitness"
	CategoryProductivity HabitCategory = "productivity"
	CategoryMindfulness  HabitCategory = "mindfulness"
	CategoryLearning     HabitCategory = "learning"
	CategorySocial       HabitCategory = "social"
	CategoryOther        HabitCategory = "other"
)

type HabitFrequency string

const (
	FrequencyDaily  HabitFrequency = "daily"
	FrequencyWeekly HabitFrequency = "weekly"
	FrequencyCustom HabitFrequency = "custom"
)

const HabitDateLayout = "2006-01-02"

type Habit struct {
	ID           string
	UserID       string
	Name         string
	Description  string
	Category     HabitCategory
	Frequency    HabitFrequency
	Goal         *int
	ReminderTime *string
	Color        string
	IsActive     bool
	SharedWith   []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (h *Habit) IsSharedWith(userID string) bool {
	for _, id := range h.SharedWith {
		if id == userID {
			return true
		}
	}
	return false
}

// CanView reports whether the user owns the habit or it was shared with them.
func (h *Habit) CanView(userID string) bool {
	return h.UserID == userID || h.IsSharedWith(userID)
}

// HabitLog is one user's record of a habit on a calendar day. Date is always
// midnight UTC.
type HabitLog struct {
	ID        string
	HabitID   string
	UserID    string
	Date      time.Time
	Completed bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type HabitStats struct {
	CurrentStreak    int
	LongestStreak    int
	TotalCompletions int
}

// ComputeHabitStats derives streaks from the completed logs. The current
// streak counts consecutive completed days ending today and is zero when
// today is not completed.
func ComputeHabitStats(logs []*HabitLog, today time.Time) HabitStats {
	days := make(map[time.Time]struct{}, len(logs))
	for _, log := range logs {
		if log.Completed {
			days[TruncateToDay(log.Date)] = struct{}{}
		}
	}

	stats := HabitStats{TotalCompletions: len(days)}
	for day := TruncateToDay(today); ; day = day.AddDate(0, 0, -1) {
		if _, ok := days[day]; !ok {
			break
		}
		stats.CurrentStreak++
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, day := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		stats.LongestStreak = max(stats.LongestStreak, run)
	}
	return stats
}

// TruncateToDay returns midnight UTC of the calendar day of t in UTC.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func ParseHabitDate(field, s string) (time.Time, error) {
	t, err := time.Parse(HabitDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, NewValidationError(field, "must be a YYYY-MM-DD date")
	}
	return t, nil
}

func ParseHabitName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", NewValidationError("name", "must be at most 100 characters")
	}
	return name, nil
}

// ParseHabitCategory falls back to CategoryOther for an empty value.
func ParseHabitCategory(s string) (HabitCategory, error) {
	switch category := HabitCategory(s); category {
	case "":
		return CategoryOther, nil
	case CategoryHealth, CategoryFitness, CategoryProductivity, CategoryMindfulness,
		CategoryLearning, CategorySocial, CategoryOther:
		return category, nil
	default:
		return "", NewValidationError("category",
			"must be one of health, fitness, productivity, mindfulness, learning, social, other")
	}
}

// ParseHabitFrequency falls back to FrequencyDaily for an empty value.
func ParseHabitFrequency(s string) (HabitFrequency, error) {
	switch frequency := HabitFrequency(s); frequency {
	case "":
		return FrequencyDaily, nil
	case FrequencyDaily, FrequencyWeekly, FrequencyCustom:
		return frequency, nil
	default:
		return "", NewValidationError("frequency", "must be one of daily, weekly, custom")
	}
}
