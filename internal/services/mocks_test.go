package services

import (
	"context"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/security"
	"github.com/adanyl0v/taskflow/internal/storage"
)

var testHasherParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func newTestHasher() *security.PasswordHasher {
	return security.NewPasswordHasher(testHasherParams)
}

func newTestLogger() zerolog.Logger {
	return zerolog.Nop()
}

func mustNewID(t *testing.T) string {
	t.Helper()
	id, err := newID()
	if err != nil {
		t.Fatal(err)
	}
	return id
}

type storageMock struct {
	mock.Mock
}

var _ storage.Storage = (*storageMock)(nil)

func (m *storageMock) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *storageMock) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)

	var user *models.User
	if value := args.Get(0); value != nil {
		user = value.(*models.User)
	}
	return user, args.Error(1)
}

func (m *storageMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	var user *models.User
	if value := args.Get(0); value != nil {
		user = value.(*models.User)
	}
	return user, args.Error(1)
}

func (m *storageMock) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *storageMock) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *storageMock) CreateTask(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *storageMock) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	args := m.Called(ctx, id)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *storageMock) ListTasksByUserID(ctx context.Context, userID string, filter storage.TaskFilter) ([]*models.Task, error) {
	args := m.Called(ctx, userID, filter)

	var tasks []*models.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]*models.Task)
	}
	return tasks, args.Error(1)
}

func (m *storageMock) UpdateTask(ctx context.Context, task *models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *storageMock) DeleteTask(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *storageMock) DeleteTasksByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) DetachTasksFromFolder(ctx context.Context, folderID string) error {
	return m.Called(ctx, folderID).Error(0)
}

func (m *storageMock) DetachTasksFromTeam(ctx context.Context, teamID string) error {
	return m.Called(ctx, teamID).Error(0)
}

func (m *storageMock) CreateFolder(ctx context.Context, folder *models.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *storageMock) GetFolderByID(ctx context.Context, id string) (*models.Folder, error) {
	args := m.Called(ctx, id)

	var folder *models.Folder
	if value := args.Get(0); value != nil {
		folder = value.(*models.Folder)
	}
	return folder, args.Error(1)
}

func (m *storageMock) ListFoldersByUserID(ctx context.Context, userID string) ([]*models.Folder, error) {
	args := m.Called(ctx, userID)

	var folders []*models.Folder
	if value := args.Get(0); value != nil {
		folders = value.([]*models.Folder)
	}
	return folders, args.Error(1)
}

func (m *storageMock) UpdateFolder(ctx context.Context, folder *models.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *storageMock) DeleteFolder(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *storageMock) DeleteFoldersByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) CreateTeam(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *storageMock) GetTeamByID(ctx context.Context, id string) (*models.Team, error) {
	args := m.Called(ctx, id)

	var team *models.Team
	if value := args.Get(0); value != nil {
		team = value.(*models.Team)
	}
	return team, args.Error(1)
}

func (m *storageMock) ListTeamsByMemberID(ctx context.Context, userID string) ([]*models.Team, error) {
	args := m.Called(ctx, userID)

	var teams []*models.Team
	if value := args.Get(0); value != nil {
		teams = value.([]*models.Team)
	}
	return teams, args.Error(1)
}

func (m *storageMock) UpdateTeam(ctx context.Context, team *models.Team) error {
	return m.Called(ctx, team).Error(0)
}

func (m *storageMock) AddTeamMember(ctx context.Context, teamID, userID string) error {
	return m.Called(ctx, teamID, userID).Error(0)
}

func (m *storageMock) DeleteTeam(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *storageMock) DeleteTeamsByOwnerID(ctx context.Context, ownerID string) error {
	return m.Called(ctx, ownerID).Error(0)
}

func (m *storageMock) RemoveMemberFromTeams(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) CreateHabit(ctx context.Context, habit *models.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *storageMock) GetHabitByID(ctx context.Context, id string) (*models.Habit, error) {
	args := m.Called(ctx, id)

	var habit *models.Habit
	if value := args.Get(0); value != nil {
		habit = value.(*models.Habit)
	}
	return habit, args.Error(1)
}

func (m *storageMock) ListHabitsByUserID(ctx context.Context, userID string, filter storage.HabitFilter) ([]*models.Habit, error) {
	args := m.Called(ctx, userID, filter)

	var habits []*models.Habit
	if value := args.Get(0); value != nil {
		habits = value.([]*models.Habit)
	}
	return habits, args.Error(1)
}

func (m *storageMock) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	return m.Called(ctx, habit).Error(0)
}

func (m *storageMock) ShareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	return m.Called(ctx, habitID, userID, at).Error(0)
}

func (m *storageMock) UnshareHabit(ctx context.Context, habitID, userID string, at time.Time) error {
	return m.Called(ctx, habitID, userID, at).Error(0)
}

func (m *storageMock) DeleteHabitsByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) RemoveUserFromSharedHabits(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) UpsertHabitLog(ctx context.Context, log *models.HabitLog) error {
	return m.Called(ctx, log).Error(0)
}

func (m *storageMock) DeleteHabitLog(ctx context.Context, habitID, userID string, date time.Time) error {
	return m.Called(ctx, habitID, userID, date).Error(0)
}

func (m *storageMock) ListHabitLogs(ctx context.Context, habitID, userID string, filter storage.HabitLogFilter) ([]*models.HabitLog, error) {
	args := m.Called(ctx, habitID, userID, filter)

	var logs []*models.HabitLog
	if value := args.Get(0); value != nil {
		logs = value.([]*models.HabitLog)
	}
	return logs, args.Error(1)
}

func (m *storageMock) DeleteHabitLogsByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) CreateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *storageMock) GetSessionByID(ctx context.Context, id string) (*models.Session, error) {
	args := m.Called(ctx, id)

	var session *models.Session
	if value := args.Get(0); value != nil {
		session = value.(*models.Session)
	}
	return session, args.Error(1)
}

func (m *storageMock) GetSessionByRefreshTokenHash(ctx context.Context, hash string) (*models.Session, error) {
	args := m.Called(ctx, hash)

	var session *models.Session
	if value := args.Get(0); value != nil {
		session = value.(*models.Session)
	}
	return session, args.Error(1)
}

func (m *storageMock) ListActiveSessionsByUserID(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	args := m.Called(ctx, userID, now)

	var sessions []*models.Session
	if value := args.Get(0); value != nil {
		sessions = value.([]*models.Session)
	}
	return sessions, args.Error(1)
}

func (m *storageMock) UpdateSession(ctx context.Context, session *models.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *storageMock) RevokeSessionsByUserID(ctx context.Context, userID string, at time.Time) (int64, error) {
	args := m.Called(ctx, userID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *storageMock) DeleteSessionsByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *storageMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *storageMock) Close(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type verifierMock struct {
	mock.Mock
}

func (m *verifierMock) Verify(ctx context.Context, idToken string) (*ExternalIdentity, error) {
	args := m.Called(ctx, idToken)

	var identity *ExternalIdentity
	if value := args.Get(0); value != nil {
		identity = value.(*ExternalIdentity)
	}
	return identity, args.Error(1)
}
