package repository

import (
	"context"
	"errors"
	"time"

	"github.com/taskforge/task-management-api/internal/models"
)

// ErrNotFound is returned when a document does not exist. An id that is not
// valid ObjectID hex is reported the same way: callers cannot tell a
// malformed id from a missing one.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user and fills in its assigned ID
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task and fills in its assigned ID
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks matching the filter, newest-created first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// Update applies a partial field set to a task
	Update(ctx context.Context, id string, update TaskUpdate) error

	// Delete removes a task
	Delete(ctx context.Context, id string) error
}

// TaskFilter holds filtering options for listing tasks. InvolvedUser scopes
// the result to tasks the user created or is assigned to; it is set when no
// explicit filter narrows the query, so a user's default view never spans
// the whole collection.
type TaskFilter struct {
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	CreatedBy    *string
	AssignedTo   *string
	InvolvedUser *string
	Skip         int64
	Limit        int64
}

// TaskUpdate is the effective field set of a partial update. Nil pointers
// leave the field untouched; the Clear flags set a nullable field back to
// null, which a nil pointer cannot express.
type TaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Status           *models.TaskStatus
	Priority         *models.TaskPriority
	DueDate          *time.Time
	ClearDueDate     bool
	AssignedTo       *[]string
	Tags             *[]string
	CompletedAt      *time.Time
	ClearCompletedAt bool
	UpdatedAt        time.Time
}
