package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/services"
)

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	params := services.ListTasksParams{UserID: identity.ID}
	if folderID := c.Query("folderId"); folderID != "" {
		params.FolderID = &folderID
	}
	if value := c.Query("status"); value != "" {
		status, err := models.ParseTaskStatus(value)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		params.Status = &status
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetTrashedTasks(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTrashedTasks(c.Request.Context(), identity.ID)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

type createTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Status      *string `json:"status" binding:"omitempty,oneof=todo doing review done"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate"`
	FolderID    *string `json:"folderId"`
	TeamID      *string `json:"teamId"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if !h.bindJSON(c, &req) {
		return
	}

	params, err := buildCreateTaskParams(identity.ID, req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func buildCreateTaskParams(userID string, req createTaskRequest) (services.CreateTaskParams, error) {
	params := services.CreateTaskParams{
		UserID:   userID,
		Title:    req.Title,
		FolderID: nonEmpty(req.FolderID),
		TeamID:   nonEmpty(req.TeamID),
	}
	if req.Description != nil {
		params.Description = *req.Description
	}

	var err error
	if req.Status != nil {
		params.Status, err = parseStatus(*req.Status)
		if err != nil {
			return services.CreateTaskParams{}, err
		}
	}
	if req.Priority != nil {
		params.Priority, err = parsePriority(*req.Priority)
		if err != nil {
			return services.CreateTaskParams{}, err
		}
	}
	if req.DueDate != nil && *req.DueDate != "" {
		params.DueDate, err = parseDueDate(*req.DueDate)
		if err != nil {
			return services.CreateTaskParams{}, err
		}
	}
	return params, nil
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=65535"`
	Status      *string `json:"status" binding:"omitempty,oneof=todo doing review done"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *string `json:"dueDate"`
	FolderID    *string `json:"folderId"`
	TeamID      *string `json:"teamId"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	var (
		req updateTaskRequest
		raw map[string]json.RawMessage
	)
	// A literal null decodes into a nil map without error.
	if json.Unmarshal(body, &raw) != nil || raw == nil || json.Unmarshal(body, &req) != nil {
		h.logger.Debug().Msg("update task body is not a json object")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	err = binding.Validator.ValidateStruct(&req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	params, err := buildUpdateTaskParams(c.Param("id"), identity.ID, req, raw)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// buildUpdateTaskParams distinguishes absent fields from explicit nulls. A
// null clears dueDate, folderId and teamId, and is rejected for the fields
// that cannot be empty.
func buildUpdateTaskParams(
	taskID string,
	userID string,
	req updateTaskRequest,
	raw map[string]json.RawMessage,
) (services.UpdateTaskParams, error) {
	params := services.UpdateTaskParams{
		ID:     taskID,
		UserID: userID,
		Title:  req.Title,
	}

	if hasJSONField(raw, "title") && isJSONNull(raw["title"]) {
		return services.UpdateTaskParams{}, models.NewValidationError("title", "is required")
	}

	if hasJSONField(raw, "description") {
		description := ""
		if req.Description != nil {
			description = *req.Description
		}
		params.Description = &description
	}

	var err error
	if hasJSONField(raw, "status") {
		if isJSONNull(raw["status"]) {
			return services.UpdateTaskParams{}, models.NewValidationError("status", "must not be null")
		}
		params.Status, err = parseStatus(*req.Status)
		if err != nil {
			return services.UpdateTaskParams{}, err
		}
	}

	if hasJSONField(raw, "priority") {
		if isJSONNull(raw["priority"]) {
			return services.UpdateTaskParams{}, models.NewValidationError("priority", "must not be null")
		}
		params.Priority, err = parsePriority(*req.Priority)
		if err != nil {
			return services.UpdateTaskParams{}, err
		}
	}

	params.DueDateSet = hasJSONField(raw, "dueDate")
	if req.DueDate != nil && *req.DueDate != "" {
		params.DueDate, err = parseDueDate(*req.DueDate)
		if err != nil {
			return services.UpdateTaskParams{}, err
		}
	}

	params.FolderIDSet = hasJSONField(raw, "folderId")
	params.FolderID = nonEmpty(req.FolderID)

	params.TeamIDSet = hasJSONField(raw, "teamId")
	params.TeamID = nonEmpty(req.TeamID)

	return params, nil
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), services.TaskParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// HandleDuplicateTask copies an active task into a new to-do task.
func (h *handlerImpl) HandleDuplicateTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	task, err := h.tasks.DuplicateTask(c.Request.Context(), services.TaskParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), services.TaskParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleRestoreTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	task, err := h.tasks.RestoreTask(c.Request.Context(), services.TaskParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandlePermanentlyDeleteTask(c *gin.Context) {
	identity, ok := h.requireIdentity(c)
	if !ok {
		return
	}

	err := h.tasks.PermanentlyDeleteTask(c.Request.Context(), services.TaskParams{
		ID:     c.Param("id"),
		UserID: identity.ID,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseStatus(value string) (*models.TaskStatus, error) {
	status, err := models.ParseTaskStatus(value)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func parsePriority(value string) (*models.TaskPriority, error) {
	priority, err := models.ParseTaskPriority(value)
	if err != nil {
		return nil, err
	}
	return &priority, nil
}

func parseDueDate(value string) (*time.Time, error) {
	dueDate, err := models.ParseDueDate(value)
	if err != nil {
		return nil, err
	}
	return &dueDate, nil
}

// nonEmpty maps an empty string to nil so that "" and null both mean "none".
func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
