package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/adanyl0v/taskflow/internal/models"
)

var (
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrDuplicateEmail            = errors.New("user with this email already exists")
	ErrUnauthenticated           = errors.New("not authenticated")
	ErrForbidden                 = errors.New("not allowed to access this resource")
	ErrUserNotFound              = errors.New("user not found")
	ErrTaskNotFound              = errors.New("task not found")
	ErrFolderNotFound            = errors.New("folder not found")
	ErrTeamNotFound              = errors.New("team not found")
	ErrIdentityProviderDisabled  = errors.New("identity provider is not configured")
	ErrUnverifiedExternalAccount = errors.New("external account email is not verified")
	ErrHabitNotFound             = errors.New("habit not found")
	ErrHabitLogNotFound          = errors.New("habit log not found")
	ErrSessionNotFound           = errors.New("session not found")
	ErrSessionExpired            = errors.New("session expired")
	ErrInvalidRefreshToken       = errors.New("invalid refresh token")
)

type AuthService interface {
	// Register creates a local account, opens a session for the client
	// and returns a signed token for it.
	//
	// It returns ErrDuplicateEmail if the email is already registered.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password.
	//
	// An unknown email, a wrong password and an account without a
	// password all return ErrInvalidCredentials.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// LoginWithIdentityProvider exchanges an external ID token for a
	// token of this service, creating the account on first sign-in.
	LoginWithIdentityProvider(ctx context.Context, params IdentityLoginParams) (*AuthResult, error)

	// Refresh rotates the refresh token of a session and issues a new
	// bearer token for it.
	//
	// It returns ErrInvalidRefreshToken for an unknown token and
	// ErrSessionExpired for a revoked or expired session.
	Refresh(ctx context.Context, params RefreshParams) (*AuthResult, error)

	// Authenticate resolves a bearer token to the identity of a live user
	// with a live session. Any failure is reported as ErrUnauthenticated.
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

type SessionService interface {
	// ListSessions returns the live sessions of the user, most recently
	// active first.
	ListSessions(ctx context.Context, userID string) ([]*models.Session, error)

	// RevokeSession ends one session of the user. Revoked sessions are
	// reported as ErrSessionNotFound.
	RevokeSession(ctx context.Context, params SessionParams) error

	// RevokeAllSessions ends every session of the user and reports how
	// many were live.
	RevokeAllSessions(ctx context.Context, userID string) (int64, error)
}

type TaskService interface {
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)
	ListTrashedTasks(ctx context.Context, userID string) ([]*models.Task, error)
	GetTask(ctx context.Context, params TaskParams) (*models.Task, error)
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// DuplicateTask copies an active task into a new active task.
	DuplicateTask(ctx context.Context, params TaskParams) (*models.Task, error)

	// UpdateTask applies the fields present in params to an active task.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask moves the task to the trash.
	DeleteTask(ctx context.Context, params TaskParams) error
	RestoreTask(ctx context.Context, params TaskParams) (*models.Task, error)
	PermanentlyDeleteTask(ctx context.Context, params TaskParams) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)
	ChangePassword(ctx context.Context, params ChangePasswordParams) error

	// DeleteAccount removes the user together with everything they own.
	DeleteAccount(ctx context.Context, userID string) error
	UploadAvatar(ctx context.Context, params UploadAvatarParams) (*models.User, error)
}

type FolderService interface {
	ListFolders(ctx context.Context, userID string) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, params CreateFolderParams) (*models.Folder, error)
	UpdateFolder(ctx context.Context, params UpdateFolderParams) (*models.Folder, error)
	DeleteFolder(ctx context.Context, userID, folderID string) error
}

type TeamService interface {
	ListTeams(ctx context.Context, userID string) ([]*models.Team, error)
	CreateTeam(ctx context.Context, params CreateTeamParams) (*models.Team, error)
	UpdateTeam(ctx context.Context, params UpdateTeamParams) (*models.Team, error)
	DeleteTeam(ctx context.Context, userID, teamID string) error
	AddMember(ctx context.Context, params AddMemberParams) (*models.Team, error)
}

type HabitService interface {
	// ListHabits returns the habits the user owns or that were shared with
	// them, with the user's own streaks.
	ListHabits(ctx context.Context, params ListHabitsParams) ([]*HabitDetails, error)
	GetHabit(ctx context.Context, params HabitParams) (*HabitDetails, error)
	CreateHabit(ctx context.Context, params CreateHabitParams) (*HabitDetails, error)
	UpdateHabit(ctx context.Context, params UpdateHabitParams) (*HabitDetails, error)

	// ArchiveHabit deactivates the habit. Its logs are kept.
	ArchiveHabit(ctx context.Context, params HabitParams) error

	// LogHabit records the user's result for one day, replacing an
	// earlier record of the same day.
	LogHabit(ctx context.Context, params LogHabitParams) (*models.HabitLog, error)
	DeleteHabitLog(ctx context.Context, params DeleteHabitLogParams) error
	ListHabitLogs(ctx context.Context, params ListHabitLogsParams) (*HabitLogs, error)
	MonthlyLogs(ctx context.Context, params MonthlyLogsParams) (*MonthlyLogs, error)

	ShareHabit(ctx context.Context, params ShareHabitParams) (*HabitDetails, error)
	UnshareHabit(ctx context.Context, params UnshareHabitParams) error
}

// IdentityVerifier validates ID tokens issued by an external provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

type ExternalIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	AvatarURL     string
}

// ClientInfo describes the device a session is opened from.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Client   ClientInfo
}

type LoginParams struct {
	Email    string
	Password string
	Client   ClientInfo
}

type IdentityLoginParams struct {
	IDToken string
	Client  ClientInfo
}

type RefreshParams struct {
	RefreshToken string
	Client       ClientInfo
}

type AuthResult struct {
	UserID                string
	SessionID             string
	Name                  string
	Email                 string
	Token                 string
	ExpiresAt             time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type SessionParams struct {
	ID     string
	UserID string
}

type ListTasksParams struct {
	UserID   string
	FolderID *string
	Status   *models.TaskStatus
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	FolderID    *string
	TeamID      *string
}

// UpdateTaskParams carries a partial update. A nil pointer leaves the field
// unchanged; for the nullable fields the *Set flag with a nil value clears it.
type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	DueDateSet  bool
	FolderID    *string
	FolderIDSet bool
	TeamID      *string
	TeamIDSet   bool
}

type TaskParams struct {
	ID     string
	UserID string
}

type UpdateProfileParams struct {
	UserID    string
	Name      *string
	Bio       *string
	AvatarURL *string
}

type ChangePasswordParams struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
}

type UploadAvatarParams struct {
	UserID   string
	FileName string
	Size     int64
	Content  io.Reader
}

type CreateFolderParams struct {
	UserID    string
	Name      string
	Color     string
	IsPrivate *bool
}

type UpdateFolderParams struct {
	ID        string
	UserID    string
	Name      *string
	Color     *string
	IsPrivate *bool
}

type CreateTeamParams struct {
	UserID    string
	Name      string
	MemberIDs []string
}

type UpdateTeamParams struct {
	ID     string
	UserID string
	Name   *string
}

type AddMemberParams struct {
	TeamID   string
	UserID   string
	MemberID string
}

// HabitDetails is a habit together with the streaks of the requesting user.
type HabitDetails struct {
	Habit *models.Habit
	Stats models.HabitStats
}

type HabitLogs struct {
	Habit *models.Habit
	Logs  []*models.HabitLog
}

type MonthlyLogs struct {
	Month     time.Month
	Year      int
	TotalDays int
	Habits    []*MonthlyHabitLogs
}

type MonthlyHabitLogs struct {
	Habit       *models.Habit
	Logs        []*models.HabitLog
	Completions int
}

type HabitParams struct {
	ID     string
	UserID string
}

type ListHabitsParams struct {
	UserID   string
	IsActive *bool
	Category *models.HabitCategory
}

type CreateHabitParams struct {
	UserID       string
	Name         string
	Description  string
	Category     string
	Frequency    string
	Goal         *int
	ReminderTime *string
	Color        string
	IsActive     *bool
}

// UpdateHabitParams carries a partial update. A nil pointer leaves the field
// unchanged.
type UpdateHabitParams struct {
	ID           string
	UserID       string
	Name         *string
	Description  *string
	Category     *string
	Frequency    *string
	Goal         *int
	ReminderTime *string
	Color        *string
	IsActive     *bool
}

type LogHabitParams struct {
	HabitID   string
	UserID    string
	Date      time.Time
	Completed bool
	Notes     string
}

type DeleteHabitLogParams struct {
	HabitID string
	UserID  string
	Date    time.Time
}

type ListHabitLogsParams struct {
	HabitID string
	UserID  string
	From    *time.Time
	To      *time.Time
}

type MonthlyLogsParams struct {
	UserID string
	Month  time.Month
	Year   int
}

// ShareHabitParams names the target either by id or by email.
type ShareHabitParams struct {
	HabitID     string
	UserID      string
	TargetID    string
	TargetEmail string
}

type UnshareHabitParams struct {
	HabitID  string
	UserID   string
	TargetID string
}
