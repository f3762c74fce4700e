package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleGoogleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleLogout(c *gin.Context)
	HandleLogoutAll(c *gin.Context)
	HandleGetSessions(c *gin.Context)
	HandleRevokeSession(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleDuplicateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
	HandleGetTrashedTasks(c *gin.Context)
	HandleRestoreTask(c *gin.Context)
	HandlePermanentlyDeleteTask(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
	HandleChangePassword(c *gin.Context)
	HandleUploadAvatar(c *gin.Context)
	HandleDeleteAccount(c *gin.Context)

	HandleGetFolders(c *gin.Context)
	HandleCreateFolder(c *gin.Context)
	HandleUpdateFolder(c *gin.Context)
	HandleDeleteFolder(c *gin.Context)

	HandleGetTeams(c *gin.Context)
	HandleCreateTeam(c *gin.Context)
	HandleUpdateTeam(c *gin.Context)
	HandleDeleteTeam(c *gin.Context)
	HandleAddTeamMember(c *gin.Context)

	HandleGetHabits(c *gin.Context)
	HandleCreateHabit(c *gin.Context)
	HandleGetHabit(c *gin.Context)
	HandleUpdateHabit(c *gin.Context)
	HandleArchiveHabit(c *gin.Context)
	HandleLogHabit(c *gin.Context)
	HandleDeleteHabitLog(c *gin.Context)
	HandleGetHabitLogs(c *gin.Context)
	HandleGetMonthlyHabitLogs(c *gin.Context)
	HandleShareHabit(c *gin.Context)
	HandleUnshareHabit(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// Services groups the dependencies of the v1 handlers.
type Services struct {
	Auth     services.AuthService
	Sessions services.SessionService
	Tasks    services.TaskService
	Users    services.UserService
	Folders  services.FolderService
	Teams    services.TeamService
	Habits   services.HabitService
	Health   HealthChecker
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	tasks    services.TaskService
	users    services.UserService
	folders  services.FolderService
	teams    services.TeamService
	habits   services.HabitService
	health   HealthChecker
}

func New(logger zerolog.Logger, svc Services) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     svc.Auth,
		sessions: svc.Sessions,
		tasks:    svc.Tasks,
		users:    svc.Users,
		folders:  svc.Folders,
		teams:    svc.Teams,
		habits:   svc.Habits,
		health:   svc.Health,
	}
}

// RegisterRoutes mounts every v1 route under /api/v1. The Google sign-in
// route is only mounted when withGoogleLogin is set.
func RegisterRoutes(router gin.IRouter, h Handler, withGoogleLogin bool) {
	router = router.Group("/api/v1")
	router.GET("/health", h.HandleHealth)

	authRouter := router.Group("/auth")
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	if withGoogleLogin {
		authRouter.POST("/google", h.HandleGoogleLogin)
	}

	sessionsRouter := authRouter.Group("", h.HandleAuthMiddleware)
	sessionsRouter.POST("/logout", h.HandleLogout)
	sessionsRouter.POST("/logout-all", h.HandleLogoutAll)
	sessionsRouter.GET("/sessions", h.HandleGetSessions)
	sessionsRouter.DELETE("/sessions/:id", h.HandleRevokeSession)

	protected := router.Group("", h.HandleAuthMiddleware)

	tasksRouter := protected.Group("/tasks")
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/trash/all", h.HandleGetTrashedTasks)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
	tasksRouter.POST("/:id/restore", h.HandleRestoreTask)
	tasksRouter.POST("/:id/duplicate", h.HandleDuplicateTask)
	tasksRouter.DELETE("/:id/permanent", h.HandlePermanentlyDeleteTask)

	usersRouter := protected.Group("/users")
	usersRouter.GET("/profile", h.HandleGetProfile)
	usersRouter.PUT("/profile", h.HandleUpdateProfile)
	usersRouter.DELETE("/profile", h.HandleDeleteAccount)
	usersRouter.PUT("/change-password", h.HandleChangePassword)
	usersRouter.POST("/upload-avatar", h.HandleUploadAvatar)

	foldersRouter := protected.Group("/folders")
	foldersRouter.GET("", h.HandleGetFolders)
	foldersRouter.POST("", h.HandleCreateFolder)
	foldersRouter.PUT("/:id", h.HandleUpdateFolder)
	foldersRouter.DELETE("/:id", h.HandleDeleteFolder)

	teamsRouter := protected.Group("/teams")
	teamsRouter.GET("", h.HandleGetTeams)
	teamsRouter.POST("", h.HandleCreateTeam)
	teamsRouter.PUT("/:id", h.HandleUpdateTeam)
	teamsRouter.DELETE("/:id", h.HandleDeleteTeam)
	teamsRouter.POST("/:id/members", h.HandleAddTeamMember)

	habitsRouter := protected.Group("/habits")
	habitsRouter.GET("", h.HandleGetHabits)
	habitsRouter.POST("", h.HandleCreateHabit)
	habitsRouter.GET("/logs/monthly", h.HandleGetMonthlyHabitLogs)
	habitsRouter.GET("/:id", h.HandleGetHabit)
	habitsRouter.PATCH("/:id", h.HandleUpdateHabit)
	habitsRouter.DELETE("/:id", h.HandleArchiveHabit)
	habitsRouter.GET("/:id/logs", h.HandleGetHabitLogs)
	habitsRouter.POST("/:id/logs", h.HandleLogHabit)
	habitsRouter.DELETE("/:id/logs/:date", h.HandleDeleteHabitLog)
	habitsRouter.POST("/:id/share", h.HandleShareHabit)
	habitsRouter.DELETE("/:id/share/:userId", h.HandleUnshareHabit)
}
