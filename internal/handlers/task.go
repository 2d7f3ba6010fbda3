package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskforge/task-management-api/internal/dto"
	apierrors "github.com/taskforge/task-management-api/internal/errors"
	"github.com/taskforge/task-management-api/internal/middleware"
	"github.com/taskforge/task-management-api/internal/models"
	"github.com/taskforge/task-management-api/internal/services"
	"github.com/taskforge/task-management-api/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task owned by the caller.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"due_date"`
		AssignedTo  []string   `json:"assigned_to"`
		Tags        []string   `json:"tags"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	priority := models.TaskPriority(req.Priority)
	if req.Priority != "" && !priority.Valid() {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid priority %q", req.Priority))
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Tags:        req.Tags,
		CreatorID:   user.ID.Hex(),
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(*task))
}

// ListTasks returns the caller's view of the task collection, optionally
// filtered by status, priority, assignment or authorship.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params, err := utils.GetListParams(c)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.ListTasksInput{
		ActorID: user.ID.Hex(),
		Skip:    params.Skip,
		Limit:   params.Limit,
	}

	if value := c.Query("status"); value != "" {
		status := models.TaskStatus(value)
		if !status.Valid() {
			apierrors.BadRequest(c, fmt.Sprintf("Invalid status %q", value))
			return
		}
		input.Status = &status
	}
	if value := c.Query("priority"); value != "" {
		priority := models.TaskPriority(value)
		if !priority.Valid() {
			apierrors.BadRequest(c, fmt.Sprintf("Invalid priority %q", value))
			return
		}
		input.Priority = &priority
	}

	input.AssignedToMe, err = boolQuery(c, "assigned_to_me")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}
	input.CreatedByMe, err = boolQuery(c, "created_by_me")
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks))
}

// GetTask returns a single task.
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), c.Param("id"), user.ID.Hex())
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// UpdateTask applies a partial update. The body is parsed as a raw map so
// an absent field, an explicit null and an empty value stay distinct.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, err := parseTaskUpdate(raw)
	if err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), c.Param("id"), user.ID.Hex(), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// UpdateTaskStatus changes only the task status.
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type StatusUpdateRequest struct {
		Status string `json:"status" binding:"required"`
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	status := models.TaskStatus(req.Status)
	if !status.Valid() {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid status %q", req.Status))
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), c.Param("id"), user.ID.Hex(), status)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(*task))
}

// DeleteTask removes a task. Creator only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.CurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), c.Param("id"), user.ID.Hex()); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// parseTaskUpdate converts a raw JSON object into an update input,
// validating field types and enum values.
func parseTaskUpdate(raw map[string]any) (services.UpdateTaskInput, error) {
	var input services.UpdateTaskInput

	if value, ok := raw["title"]; ok {
		title, ok := value.(string)
		if !ok {
			return input, fmt.Errorf("title must be a string")
		}
		input.Title = &title
	}

	if value, ok := raw["description"]; ok {
		if value == nil {
			input.ClearDescription = true
		} else {
			description, ok := value.(string)
			if !ok {
				return input, fmt.Errorf("description must be a string or null")
			}
			input.Description = &description
		}
	}

	if value, ok := raw["status"]; ok {
		str, ok := value.(string)
		if !ok {
			return input, fmt.Errorf("status must be a string")
		}
		status := models.TaskStatus(str)
		if !status.Valid() {
			return input, fmt.Errorf("invalid status %q", str)
		}
		input.Status = &status
	}

	if value, ok := raw["priority"]; ok {
		str, ok := value.(string)
		if !ok {
			return input, fmt.Errorf("priority must be a string")
		}
		priority := models.TaskPriority(str)
		if !priority.Valid() {
			return input, fmt.Errorf("invalid priority %q", str)
		}
		input.Priority = &priority
	}

	if value, ok := raw["due_date"]; ok {
		if value == nil {
			input.ClearDueDate = true
		} else {
			str, ok := value.(string)
			if !ok {
				return input, fmt.Errorf("due_date must be an RFC 3339 timestamp or null")
			}
			dueDate, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return input, fmt.Errorf("due_date must be an RFC 3339 timestamp or null")
			}
			input.DueDate = &dueDate
		}
	}

	if value, ok := raw["assigned_to"]; ok {
		list, err := stringList(value, "assigned_to")
		if err != nil {
			return input, err
		}
		input.AssignedTo = &list
	}

	if value, ok := raw["tags"]; ok {
		list, err := stringList(value, "tags")
		if err != nil {
			return input, err
		}
		input.Tags = &list
	}

	return input, nil
}

// stringList coerces a JSON array of strings; null means an empty list.
func stringList(value any, field string) ([]string, error) {
	if value == nil {
		return []string{}, nil
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of strings", field)
	}
	list := make([]string, len(items))
	for i, item := range items {
		str, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", field)
		}
		list[i] = str
	}
	return list, nil
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	value := c.Query(key)
	if value == "" {
		return false, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", key)
	}
	return parsed, nil
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskAccessDenied):
		apierrors.Forbidden(c, "Access denied to this task")
	case errors.Is(err, services.ErrNotTaskCreator):
		apierrors.Forbidden(c, "Only task creator can delete this task")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
