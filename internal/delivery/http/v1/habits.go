package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

type listHabitsQuery struct {
	IsActive *bool  `form:"isActive" json:"isActive"`
	Category string `form:"category" json:"category" binding:"omitempty,oneof=health fitness productivity mindfulness learning social other"`
}

func (h *handlerImpl) HandleGetHabits(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var query listHabitsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	params := services.ListHabitsParams{
		UserID:   identity.ID,
		IsActive: query.IsActive,
	}
	if query.Category != "" {
		category := models.HabitCategory(query.Category)
		params.Category = &category
	}

	habits, err := h.habits.ListHabits(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	resp := make([]habitResponse, 0, len(habits))
	for _, habit := range habits {
		resp = append(resp, newHabitDetailsResponse(habit))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlerImpl) HandleGetHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	habit, err := h.habits.GetHabit(c.Request.Context(), services.HabitParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newHabitDetailsResponse(habit))
}

type createHabitRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	Category     string  `json:"category" binding:"omitempty,oneof=health fitness productivity mindfulness learning social other"`
	Frequency    string  `json:"frequency" binding:"omitempty,oneof=daily weekly custom"`
	Goal         *int    `json:"goal" binding:"omitempty,min=1"`
	ReminderTime *string `json:"reminderTime" binding:"omitempty,datetime=15:04"`
	Color        string  `json:"color" binding:"max=20"`
	IsActive     *bool   `json:"isActive"`
}

func (h *handlerImpl) HandleCreateHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req createHabitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	habit, err := h.habits.CreateHabit(c.Request.Context(), services.CreateHabitParams{
		UserID:       identity.ID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Frequency:    req.Frequency,
		Goal:         req.Goal,
		ReminderTime: req.ReminderTime,
		Color:        req.Color,
		IsActive:     req.IsActive,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newHabitDetailsResponse(habit))
}

type updateHabitRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=100"`
	Description  *string `json:"description" binding:"omitempty,max=500"`
	Category     *string `json:"category" binding:"omitempty,oneof=health fitness productivity mindfulness learning social other"`
	Frequency    *string `json:"frequency" binding:"omitempty,oneof=daily weekly custom"`
	Goal         *int    `json:"goal" binding:"omitempty,min=1"`
	ReminderTime *string `json:"reminderTime" binding:"omitempty,datetime=15:04"`
	Color        *string `json:"color" binding:"omitempty,max=20"`
	IsActive     *bool   `json:"isActive"`
}

func (h *handlerImpl) HandleUpdateHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req updateHabitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	habit, err := h.habits.UpdateHabit(c.Request.Context(), services.UpdateHabitParams{
		ID:           c.Param("id"),
		UserID:       identity.ID,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Frequency:    req.Frequency,
		Goal:         req.Goal,
		ReminderTime: req.ReminderTime,
		Color:        req.Color,
		IsActive:     req.IsActive,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newHabitDetailsResponse(habit))
}

// HandleArchiveHabit deactivates the habit. Its logs are kept.
func (h *handlerImpl) HandleArchiveHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.habits.ArchiveHabit(c.Request.Context(), services.HabitParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type logHabitRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	Completed *bool  `json:"completed"`
	Notes     string `json:"notes" binding:"max=500"`
}

func (h *handlerImpl) HandleLogHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req logHabitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	date, err := models.ParseHabitDate("date", req.Date)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	log, err := h.habits.LogHabit(c.Request.Context(), services.LogHabitParams{
		HabitID:   c.Param("id"),
		UserID:    identity.ID,
		Date:      date,
		Completed: completed,
		Notes:     req.Notes,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newHabitLogResponse(log))
}

func (h *handlerImpl) HandleDeleteHabitLog(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	date, err := models.ParseHabitDate("date", c.Param("date"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	err = h.habits.DeleteHabitLog(c.Request.Context(), services.DeleteHabitLogParams{
		HabitID: c.Param("id"),
		UserID:  identity.ID,
		Date:    date,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type habitLogsQuery struct {
	StartDate string `form:"startDate" json:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" json:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

func (h *handlerImpl) HandleGetHabitLogs(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var query habitLogsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	params := services.ListHabitLogsParams{
		HabitID: c.Param("id"),
		UserID:  identity.ID,
	}
	if query.StartDate != "" {
		from, err := models.ParseHabitDate("startDate", query.StartDate)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.From = &from
	}
	if query.EndDate != "" {
		to, err := models.ParseHabitDate("endDate", query.EndDate)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.To = &to
	}

	logs, err := h.habits.ListHabitLogs(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, habitLogsResponse{
		Habit: newHabitResponse(logs.Habit),
		Logs:  newHabitLogResponses(logs.Logs),
	})
}

// monthlyLogsQuery defaults to the current month.
type monthlyLogsQuery struct {
	Month int `form:"month" json:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" json:"year" binding:"omitempty,min=1,max=9999"`
}

func (h *handlerImpl) HandleGetMonthlyHabitLogs(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var query monthlyLogsQuery
	if !h.bindQuery(c, &query) {
		return
	}

	now := time.Now().UTC()
	params := services.MonthlyLogsParams{
		UserID: identity.ID,
		Month:  now.Month(),
		Year:   now.Year(),
	}
	if query.Month != 0 {
		params.Month = time.Month(query.Month)
	}
	if query.Year != 0 {
		params.Year = query.Year
	}

	monthly, err := h.habits.MonthlyLogs(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newMonthlyLogsResponse(monthly))
}

// shareHabitRequest names the recipient by id or by email.
type shareHabitRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email" binding:"omitempty,email,max=255"`
}

func (h *handlerImpl) HandleShareHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req shareHabitRequest
	if !h.bindJSON(c, &req) {
		return
	}

	habit, err := h.habits.ShareHabit(c.Request.Context(), services.ShareHabitParams{
		HabitID:     c.Param("id"),
		UserID:      identity.ID,
		TargetID:    req.UserID,
		TargetEmail: req.Email,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newHabitDetailsResponse(habit))
}

func (h *handlerImpl) HandleUnshareHabit(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.habits.UnshareHabit(c.Request.Context(), services.UnshareHabitParams{
		HabitID:  c.Param("id"),
		UserID:   identity.ID,
		TargetID: c.Param("userId"),
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
