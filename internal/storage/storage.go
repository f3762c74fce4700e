// Package storage declares the persistence contracts shared by the
// postgres and mongo backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/taskflow/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type UserRepository interface {
	// CreateUser returns ErrDuplicate if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

type TaskFilter struct {
	Trashed  bool
	FolderID *string
	Status   *models.TaskStatus
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	// ListTasksByUserID returns active tasks newest-created first, or
	// trashed tasks newest-deleted first when filter.Trashed is set.
	ListTasksByUserID(ctx context.Context, userID string, filter TaskFilter) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	DeleteTasksByUserID(ctx context.Context, userID string) error
	DetachTasksFromFolder(ctx context.Context, folderID string) error
	DetachTasksFromTeam(ctx context.Context, teamID string) error
}

type FolderRepository interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	GetFolderByID(ctx context.Context, id string) (*models.Folder, error)
	ListFoldersByUserID(ctx context.Context, userID string) ([]*models.Folder, error)
	UpdateFolder(ctx context.Context, folder *models.Folder) error
	DeleteFolder(ctx context.Context, id string) error
	DeleteFoldersByUserID(ctx context.Context, userID string) error
}

type TeamRepository interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeamByID(ctx context.Context, id string) (*models.Team, error)
	ListTeamsByMemberID(ctx context.Context, userID string) ([]*models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) error
	// AddTeamMember is a no-op when the user is already a member.
	AddTeamMember(ctx context.Context, teamID, userID string) error
	DeleteTeam(ctx context.Context, id string) error
	DeleteTeamsByOwnerID(ctx context.Context, ownerID string) error
	RemoveMemberFromTeams(ctx context.Context, userID string) error
}

type HabitFilter struct {
	IsActive *bool
	Category *models.HabitCategory
}

type HabitRepository interface {
	CreateHabit(ctx context.Context, habit *models.Habit) error
	GetHabitByID(ctx context.Context, id string) (*models.Habit, error)
	// ListHabitsByUserID returns habits owned by or shared with the user,
	// newest-created first.
	ListHabitsByUserID(ctx context.Context, userID string, filter HabitFilter) ([]*models.Habit, error)
	UpdateHabit(ctx context.Context, habit *models.Habit) error
	// ShareHabit is a no-op when the habit is already shared with the user.
	ShareHabit(ctx context.Context, habitID, userID string, at time.Time) error
	UnshareHabit(ctx context.Context, habitID, userID string, at time.Time) error
	// DeleteHabitsByUserID deletes the user's habits together with every
	// log recorded against them.
	DeleteHabitsByUserID(ctx context.Context, userID string) error
	RemoveUserFromSharedHabits(ctx context.Context, userID string) error
}

// HabitLogFilter bounds the log dates, both ends inclusive.
type HabitLogFilter struct {
	From *time.Time
	To   *time.Time
}

type HabitLogRepository interface {
	// UpsertHabitLog stores the log of (habit, user, date), replacing the
	// previous one. ID and CreatedAt of an existing log are kept and
	// written back into log.
	UpsertHabitLog(ctx context.Context, log *models.HabitLog) error
	DeleteHabitLog(ctx context.Context, habitID, userID string, date time.Time) error
	// ListHabitLogs returns the user's logs of the habit, newest date first.
	ListHabitLogs(ctx context.Context, habitID, userID string, filter HabitLogFilter) ([]*models.HabitLog, error)
	DeleteHabitLogsByUserID(ctx context.Context, userID string) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *models.Session) error
	GetSessionByID(ctx context.Context, id string) (*models.Session, error)
	GetSessionByRefreshTokenHash(ctx context.Context, hash string) (*models.Session, error)
	// ListActiveSessionsByUserID returns the sessions that are neither
	// revoked nor expired at now, most recently active first.
	ListActiveSessionsByUserID(ctx context.Context, userID string, now time.Time) ([]*models.Session, error)
	UpdateSession(ctx context.Context, session *models.Session) error
	// RevokeSessionsByUserID deactivates every active session of the user
	// and reports how many were revoked.
	RevokeSessionsByUserID(ctx context.Context, userID string, at time.Time) (int64, error)
	DeleteSessionsByUserID(ctx context.Context, userID string) error
}

// Storage bundles every repository of one backend.
type Storage interface {
	UserRepository
	TaskRepository
	FolderRepository
	TeamRepository
	HabitRepository
	HabitLogRepository
	SessionRepository

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
