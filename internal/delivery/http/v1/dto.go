package v1

import (
	"time"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

type authResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Name         string `json:"name"`
	Email        string `json:"email"`
}

func newAuthResponse(result *services.AuthResult) authResponse {
	return authResponse{
		Token:        result.Token,
		RefreshToken: result.RefreshToken,
		Name:         result.Name,
		Email:        result.Email,
	}
}

type sessionResponse struct {
	ID           string    `json:"id"`
	UserAgent    string    `json:"userAgent"`
	IPAddress    string    `json:"ipAddress"`
	IsCurrent    bool      `json:"isCurrent"`
	LastActivity time.Time `json:"lastActivity"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newSessionResponse(session *models.Session, currentSessionID string) sessionResponse {
	return sessionResponse{
		ID:           session.ID,
		UserAgent:    session.UserAgent,
		IPAddress:    session.IPAddress,
		IsCurrent:    session.ID == currentSessionID,
		LastActivity: session.LastActivityAt,
		ExpiresAt:    session.ExpiresAt,
		CreatedAt:    session.CreatedAt,
	}
}

type logoutAllResponse struct {
	Revoked int64 `json:"revoked"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
	FolderID    *string    `json:"folderId"`
	TeamID      *string    `json:"teamId"`
	DeletedAt   *time.Time `json:"deletedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
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

func newTaskResponses(tasks []*models.Task) []taskResponse {
	resp := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp = append(resp, newTaskResponse(task))
	}
	return resp
}

// userResponse never carries the password hash.
type userResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AuthProvider string    `json:"authProvider"`
	AvatarURL    string    `json:"avatarUrl"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		AuthProvider: user.AuthProvider,
		AvatarURL:    user.AvatarURL,
		Bio:          user.Bio,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

type folderResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	IsPrivate bool      `json:"isPrivate"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newFolderResponse(folder *models.Folder) folderResponse {
	return folderResponse{
		ID:        folder.ID,
		UserID:    folder.UserID,
		Name:      folder.Name,
		Color:     folder.Color,
		IsPrivate: folder.IsPrivate,
		CreatedAt: folder.CreatedAt,
		UpdatedAt: folder.UpdatedAt,
	}
}

type teamResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newTeamResponse(team *models.Team) teamResponse {
	members := team.MemberIDs
	if members == nil {
		members = []string{}
	}
	return teamResponse{
		ID:        team.ID,
		OwnerID:   team.OwnerID,
		Name:      team.Name,
		MemberIDs: members,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}

type habitStatsResponse struct {
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
	TotalCompletions int `json:"totalCompletions"`
}

type habitResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	Category     string              `json:"category"`
	Frequency    string              `json:"frequency"`
	Goal         *int                `json:"goal"`
	ReminderTime *string             `json:"reminderTime"`
	Color        string              `json:"color"`
	IsActive     bool                `json:"isActive"`
	SharedWith   []string            `json:"sharedWith"`
	Stats        *habitStatsResponse `json:"stats,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

func newHabitResponse(habit *models.Habit) habitResponse {
	sharedWith := habit.SharedWith
	if sharedWith == nil {
		sharedWith = []string{}
	}
	return habitResponse{
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
	}
}

func newHabitDetailsResponse(details *services.HabitDetails) habitResponse {
	resp := newHabitResponse(details.Habit)
	resp.Stats = &habitStatsResponse{
		CurrentStreak:    details.Stats.CurrentStreak,
		LongestStreak:    details.Stats.LongestStreak,
		TotalCompletions: details.Stats.TotalCompletions,
	}
	return resp
}

type habitLogResponse struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newHabitLogResponse(log *models.HabitLog) habitLogResponse {
	return habitLogResponse{
		ID:        log.ID,
		HabitID:   log.HabitID,
		UserID:    log.UserID,
		Date:      log.Date.Format(models.HabitDateLayout),
		Completed: log.Completed,
		Notes:     log.Notes,
		CreatedAt: log.CreatedAt,
		UpdatedAt: log.UpdatedAt,
	}
}

func newHabitLogResponses(logs []*models.HabitLog) []habitLogResponse {
	resp := make([]habitLogResponse, 0, len(logs))
	for _, log := range logs {
		resp = append(resp, newHabitLogResponse(log))
	}
	return resp
}

type habitLogsResponse struct {
	Habit habitResponse      `json:"habit"`
	Logs  []habitLogResponse `json:"logs"`
}

type monthlyHabitLogsResponse struct {
	Habit       habitResponse      `json:"habit"`
	Logs        []habitLogResponse `json:"logs"`
	Completions int                `json:"completions"`
}

type monthlyLogsResponse struct {
	Month     int                        `json:"month"`
	Year      int                        `json:"year"`
	TotalDays int                        `json:"totalDays"`
	Habits    []monthlyHabitLogsResponse `json:"habits"`
}

func newMonthlyLogsResponse(monthly *services.MonthlyLogs) monthlyLogsResponse {
	habits := make([]monthlyHabitLogsResponse, 0, len(monthly.Habits))
	for _, habit := range monthly.Habits {
		habits = append(habits, monthlyHabitLogsResponse{
			Habit:       newHabitResponse(habit.Habit),
			Logs:        newHabitLogResponses(habit.Logs),
			Completions: habit.Completions,
		})
	}
	return monthlyLogsResponse{
		Month:     int(monthly.Month),
		Year:      monthly.Year,
		TotalDays: monthly.TotalDays,
		Habits:    habits,
	}
}
