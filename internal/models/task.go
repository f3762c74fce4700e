package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

type TaskStatus string

const (
	StatusTodo   TaskStatus = "todo"
	StatusDoing  TaskStatus = "doing"
	StatusReview TaskStatus = "review"
	StatusDone   TaskStatus = "done"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

const dueDateLayout = "2006-01-02"

const MaxTaskTitleLength = 255

type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	FolderID    *string
	TeamID      *string
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) IsTrashed() bool {
	return t.DeletedAt != nil
}

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch status := TaskStatus(s); status {
	case StatusTodo, StatusDoing, StatusReview, StatusDone:
		return status, nil
	default:
		return "", NewValidationError("status", "must be one of todo, doing, review, done")
	}
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch priority := TaskPriority(s); priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return priority, nil
	default:
		return "", NewValidationError("priority", "must be one of low, medium, high")
	}
}

// ParseDueDate accepts either an RFC 3339 timestamp or a plain date.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(dueDateLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, NewValidationError("dueDate", "must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}

func ParseTaskTitle(s string) (string, error) {
	title := strings.TrimSpace(s)
	if title == "" {
		return "", NewValidationError("title", "is required")
	}
	if utf8.RuneCountInString(title) > MaxTaskTitleLength {
		return "", NewValidationError("title", "must be at most 255 characters")
	}
	return title, nil
}
