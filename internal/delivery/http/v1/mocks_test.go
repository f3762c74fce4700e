package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

const (
	testToken     = "valid-token"
	testUserID    = "0190b6a4-6c1e-7c3a-9d2f-5a8e4b3c2d10"
	testSessionID = "0190b6a4-6c1e-7c3a-9d2f-5a8e4b3c2d11"
)

var testIdentity = &models.Identity{
	ID:        testUserID,
	SessionID: testSessionID,
	Email:     "jane@example.com",
	Name:      "Jane",
}

// testClient is what gin reports for an httptest request.
var testClient = services.ClientInfo{IPAddress: "192.0.2.1"}

type testServices struct {
	auth     *authServiceMock
	sessions *sessionServiceMock
	tasks    *taskServiceMock
	users    *userServiceMock
	folders  *folderServiceMock
	teams    *teamServiceMock
	habits   *habitServiceMock
	health   *healthCheckerMock
}

func newTestServices() *testServices {
	return &testServices{
		auth:     new(authServiceMock),
		sessions: new(sessionServiceMock),
		tasks:    new(taskServiceMock),
		users:    new(userServiceMock),
		folders:  new(folderServiceMock),
		teams:    new(teamServiceMock),
		habits:   new(habitServiceMock),
		health:   new(healthCheckerMock),
	}
}

func (s *testServices) router() *gin.Engine {
	h := New(zerolog.Nop(), Services{
		Auth:     s.auth,
		Sessions: s.sessions,
		Tasks:    s.tasks,
		Users:    s.users,
		Folders:  s.folders,
		Teams:    s.teams,
		Habits:   s.habits,
		Health:   s.health,
	})

	router := gin.New()
	RegisterRoutes(router, h, true)
	return router
}

// authenticated makes the auth mock accept testToken as testIdentity.
func (s *testServices) authenticated() *testServices {
	s.auth.On("Authenticate", mock.Anything, testToken).Return(testIdentity, nil)
	return s
}

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	args := m.Called(ctx, params)

	var result *services.AuthResult
	if value := args.Get(0); value != nil {
		result = value.(*services.AuthResult)
	}
	return result, args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, params services.LoginParams) (*services.AuthResult, error) {
	args := m.Called(ctx, params)

	var result *services.AuthResult
	if value := args.Get(0); value != nil {
		result = value.(*services.AuthResult)
	}
	return result, args.Error(1)
}

func (m *authServiceMock) LoginWithIdentityProvider(ctx context.Context, params services.IdentityLoginParams) (*services.AuthResult, error) {
	args := m.Called(ctx, params)

	var result *services.AuthResult
	if value := args.Get(0); value != nil {
		result = value.(*services.AuthResult)
	}
	return result, args.Error(1)
}

func (m *authServiceMock) Refresh(ctx context.Context, params services.RefreshParams) (*services.AuthResult, error) {
	args := m.Called(ctx, params)

	var result *services.AuthResult
	if value := args.Get(0); value != nil {
		result = value.(*services.AuthResult)
	}
	return result, args.Error(1)
}

func (m *authServiceMock) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)

	var identity *models.Identity
	if value := args.Get(0); value != nil {
		identity = value.(*models.Identity)
	}
	return identity, args.Error(1)
}

type sessionServiceMock struct {
	mock.Mock
}

func (m *sessionServiceMock) ListSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	args := m.Called(ctx, userID)

	var sessions []*models.Session
	if value := args.Get(0); value != nil {
		sessions = value.([]*models.Session)
	}
	return sessions, args.Error(1)
}

func (m *sessionServiceMock) RevokeSession(ctx context.Context, params services.SessionParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *sessionServiceMock) RevokeAllSessions(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) GetTask(ctx context.Context, params services.TaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) DuplicateTask(ctx context.Context, params services.TaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) ListTasks(ctx context.Context, params services.ListTasksParams) ([]*models.Task, error) {
	args := m.Called(ctx, params)

	var tasks []*models.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]*models.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) ListTrashedTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	args := m.Called(ctx, userID)

	var tasks []*models.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]*models.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, params services.TaskParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *taskServiceMock) RestoreTask(ctx context.Context, params services.TaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)

	var task *models.Task
	if value := args.Get(0); value != nil {
		task = value.(*models.Task)
	}
	return task, args.Error(1)
}

func (m *taskServiceMock) PermanentlyDeleteTask(ctx context.Context, params services.TaskParams) error {
	return m.Called(ctx, params).Error(0)
}

type userServiceMock struct {
	mock.Mock
}

func (m *userServiceMock) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)

	var user *models.User
	if value := args.Get(0); value != nil {
		user = value.(*models.User)
	}
	return user, args.Error(1)
}

func (m *userServiceMock) UpdateProfile(ctx context.Context, params services.UpdateProfileParams) (*models.User, error) {
	args := m.Called(ctx, params)

	var user *models.User
	if value := args.Get(0); value != nil {
		user = value.(*models.User)
	}
	return user, args.Error(1)
}

func (m *userServiceMock) ChangePassword(ctx context.Context, params services.ChangePasswordParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *userServiceMock) DeleteAccount(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *userServiceMock) UploadAvatar(ctx context.Context, params services.UploadAvatarParams) (*models.User, error) {
	args := m.Called(ctx, params)

	var user *models.User
	if value := args.Get(0); value != nil {
		user = value.(*models.User)
	}
	return user, args.Error(1)
}

type folderServiceMock struct {
	mock.Mock
}

func (m *folderServiceMock) ListFolders(ctx context.Context, userID string) ([]*models.Folder, error) {
	args := m.Called(ctx, userID)

	var folders []*models.Folder
	if value := args.Get(0); value != nil {
		folders = value.([]*models.Folder)
	}
	return folders, args.Error(1)
}

func (m *folderServiceMock) CreateFolder(ctx context.Context, params services.CreateFolderParams) (*models.Folder, error) {
	args := m.Called(ctx, params)

	var folder *models.Folder
	if value := args.Get(0); value != nil {
		folder = value.(*models.Folder)
	}
	return folder, args.Error(1)
}

func (m *folderServiceMock) UpdateFolder(ctx context.Context, params services.UpdateFolderParams) (*models.Folder, error) {
	args := m.Called(ctx, params)

	var folder *models.Folder
	if value := args.Get(0); value != nil {
		folder = value.(*models.Folder)
	}
	return folder, args.Error(1)
}

func (m *folderServiceMock) DeleteFolder(ctx context.Context, userID, folderID string) error {
	return m.Called(ctx, userID, folderID).Error(0)
}

type teamServiceMock struct {
	mock.Mock
}

func (m *teamServiceMock) ListTeams(ctx context.Context, userID string) ([]*models.Team, error) {
	args := m.Called(ctx, userID)

	var teams []*models.Team
	if value := args.Get(0); value != nil {
		teams = value.([]*models.Team)
	}
	return teams, args.Error(1)
}

func (m *teamServiceMock) CreateTeam(ctx context.Context, params services.CreateTeamParams) (*models.Team, error) {
	args := m.Called(ctx, params)

	var team *models.Team
	if value := args.Get(0); value != nil {
		team = value.(*models.Team)
	}
	return team, args.Error(1)
}

func (m *teamServiceMock) UpdateTeam(ctx context.Context, params services.UpdateTeamParams) (*models.Team, error) {
	args := m.Called(ctx, params)

	var team *models.Team
	if value := args.Get(0); value != nil {
		team = value.(*models.Team)
	}
	return team, args.Error(1)
}

func (m *teamServiceMock) DeleteTeam(ctx context.Context, userID, teamID string) error {
	return m.Called(ctx, userID, teamID).Error(0)
}

func (m *teamServiceMock) AddMember(ctx context.Context, params services.AddMemberParams) (*models.Team, error) {
	args := m.Called(ctx, params)

	var team *models.Team
	if value := args.Get(0); value != nil {
		team = value.(*models.Team)
	}
	return team, args.Error(1)
}

type habitServiceMock struct {
	mock.Mock
}

func (m *habitServiceMock) details(args mock.Arguments) (*services.HabitDetails, error) {
	var details *services.HabitDetails
	if value := args.Get(0); value != nil {
		details = value.(*services.HabitDetails)
	}
	return details, args.Error(1)
}

func (m *habitServiceMock) ListHabits(ctx context.Context, params services.ListHabitsParams) ([]*services.HabitDetails, error) {
	args := m.Called(ctx, params)

	var habits []*services.HabitDetails
	if value := args.Get(0); value != nil {
		habits = value.([]*services.HabitDetails)
	}
	return habits, args.Error(1)
}

func (m *habitServiceMock) GetHabit(ctx context.Context, params services.HabitParams) (*services.HabitDetails, error) {
	return m.details(m.Called(ctx, params))
}

func (m *habitServiceMock) CreateHabit(ctx context.Context, params services.CreateHabitParams) (*services.HabitDetails, error) {
	return m.details(m.Called(ctx, params))
}

func (m *habitServiceMock) UpdateHabit(ctx context.Context, params services.UpdateHabitParams) (*services.HabitDetails, error) {
	return m.details(m.Called(ctx, params))
}

func (m *habitServiceMock) ArchiveHabit(ctx context.Context, params services.HabitParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *habitServiceMock) LogHabit(ctx context.Context, params services.LogHabitParams) (*models.HabitLog, error) {
	args := m.Called(ctx, params)

	var log *models.HabitLog
	if value := args.Get(0); value != nil {
		log = value.(*models.HabitLog)
	}
	return log, args.Error(1)
}

func (m *habitServiceMock) DeleteHabitLog(ctx context.Context, params services.DeleteHabitLogParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *habitServiceMock) ListHabitLogs(ctx context.Context, params services.ListHabitLogsParams) (*services.HabitLogs, error) {
	args := m.Called(ctx, params)

	var logs *services.HabitLogs
	if value := args.Get(0); value != nil {
		logs = value.(*services.HabitLogs)
	}
	return logs, args.Error(1)
}

func (m *habitServiceMock) MonthlyLogs(ctx context.Context, params services.MonthlyLogsParams) (*services.MonthlyLogs, error) {
	args := m.Called(ctx, params)

	var monthly *services.MonthlyLogs
	if value := args.Get(0); value != nil {
		monthly = value.(*services.MonthlyLogs)
	}
	return monthly, args.Error(1)
}

func (m *habitServiceMock) ShareHabit(ctx context.Context, params services.ShareHabitParams) (*services.HabitDetails, error) {
	return m.details(m.Called(ctx, params))
}

func (m *habitServiceMock) UnshareHabit(ctx context.Context, params services.UnshareHabitParams) error {
	return m.Called(ctx, params).Error(0)
}

type healthCheckerMock struct {
	mock.Mock
}

func (m *healthCheckerMock) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
