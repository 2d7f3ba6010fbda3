package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskforge/task-management-api/internal/models"
	"github.com/taskforge/task-management-api/internal/policy"
	"github.com/taskforge/task-management-api/internal/repository"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrTaskAccessDenied = errors.New("access denied to this task")
	ErrNotTaskCreator   = errors.New("only the task creator can delete this task")
	ErrTitleRequired    = errors.New("title is required")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  []string
	Tags        []string
	CreatorID   string
}

// Create creates a new task owned by the creator, applying the default
// status and priority.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if input.AssignedTo == nil {
		input.AssignedTo = []string{}
	}
	if input.Tags == nil {
		input.Tags = []string{}
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      models.TaskStatusTodo,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		CreatedBy:   input.CreatorID,
		AssignedTo:  input.AssignedTo,
		Tags:        input.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	ActorID      string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	AssignedToMe bool
	CreatedByMe  bool
	Skip         int64
	Limit        int64
}

// List returns tasks visible to the actor. When no explicit filter is
// given the query is scoped to tasks the actor created or is assigned to,
// never the whole collection.
func (s *TaskService) List(ctx context.Context, input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		Status:   input.Status,
		Priority: input.Priority,
		Skip:     input.Skip,
		Limit:    input.Limit,
	}

	if input.AssignedToMe {
		filter.AssignedTo = &input.ActorID
	}
	if input.CreatedByMe {
		filter.CreatedBy = &input.ActorID
	}
	if input.Status == nil && input.Priority == nil && !input.AssignedToMe && !input.CreatedByMe {
		filter.InvolvedUser = &input.ActorID
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Get returns a task if the actor may view it.
func (s *TaskService) Get(ctx context.Context, taskID, actorID string) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanView(task, actorID) {
		return nil, ErrTaskAccessDenied
	}

	return task, nil
}

// UpdateTaskInput represents a partial update. Nil pointers mean the field
// was absent from the request; the Clear flags express an explicit null.
type UpdateTaskInput struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	DueDate          *time.Time
	ClearDueDate     bool
	AssignedTo       *[]string
	Tags             *[]string
}

func (in UpdateTaskInput) empty() bool {
	return in.Title == nil &&
		in.Description == nil && !in.ClearDescription &&
		in.Status == nil &&
		in.Priority == nil &&
		in.DueDate == nil && !in.ClearDueDate &&
		in.AssignedTo == nil &&
		in.Tags == nil
}

// Update applies a partial update if the actor may edit the task. An empty
// field set is a no-op that leaves updated_at alone.
func (s *TaskService) Update(ctx context.Context, taskID, actorID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !policy.CanEdit(task, actorID) {
		return nil, ErrTaskAccessDenied
	}

	if input.Title != nil && *input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.empty() {
		return task, nil
	}

	update := repository.TaskUpdate{
		Title:            input.Title,
		Description:      input.Description,
		ClearDescription: input.ClearDescription,
		Status:           input.Status,
		Priority:         input.Priority,
		DueDate:          input.DueDate,
		ClearDueDate:     input.ClearDueDate,
		AssignedTo:       input.AssignedTo,
		Tags:             input.Tags,
		UpdatedAt:        time.Now().UTC(),
	}
	applyCompletionRule(task.Status, &update)

	if err := s.taskRepo.Update(ctx, taskID, update); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.loadTask(ctx, taskID)
}

// UpdateStatus changes only the status. It funnels through Update so the
// completion-timestamp rule behaves identically on both paths.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID, actorID string, status models.TaskStatus) (*models.Task, error) {
	return s.Update(ctx, taskID, actorID, UpdateTaskInput{Status: &status})
}

// Delete removes a task if the actor is the creator.
func (s *TaskService) Delete(ctx context.Context, taskID, actorID string) error {
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}

	if !policy.CanDelete(task, actorID) {
		return ErrNotTaskCreator
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) loadTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// applyCompletionRule derives completed_at from a requested status change:
// entering completed stamps it with the update time, any other requested
// status clears it, and an absent status leaves it untouched.
func applyCompletionRule(current models.TaskStatus, update *repository.TaskUpdate) {
	if update.Status == nil {
		return
	}

	if *update.Status == models.TaskStatusCompleted {
		if current != models.TaskStatusCompleted {
			completedAt := update.UpdatedAt
			update.CompletedAt = &completedAt
		}
		return
	}

	update.ClearCompletedAt = true
}
