// Package mocks provides in-memory repository implementations for tests.
// They mirror the store semantics the Mongo implementations rely on:
// not-found for malformed or missing ids, newest-created-first listing, and
// $set-style partial updates.
package mocks

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskforge/task-management-api/internal/models"
	"github.com/taskforge/task-management-api/internal/repository"
)

// InMemoryUserRepository is a map-backed UserRepository.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: make(map[string]models.User)}
}

func (r *InMemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

func (r *InMemoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrNotFound
	}
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *InMemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *InMemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

// InMemoryTaskRepository is a map-backed TaskRepository.
type InMemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[string]models.Task
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{tasks: make(map[string]models.Task)}
}

func (r *InMemoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.tasks[task.ID.Hex()] = *task
	return nil
}

func (r *InMemoryTaskRepository) FindByID(_ context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, repository.ErrNotFound
	}
	task, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &task, nil
}

func (r *InMemoryTaskRepository) List(_ context.Context, filter repository.TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if matchesFilter(task, filter) {
			matched = append(matched, task)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if filter.Skip >= int64(len(matched)) {
		return []models.Task{}, nil
	}
	matched = matched[filter.Skip:]
	if filter.Limit > 0 && filter.Limit < int64(len(matched)) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

func (r *InMemoryTaskRepository) Update(_ context.Context, id string, update repository.TaskUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}

	task.UpdatedAt = update.UpdatedAt
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.ClearDescription {
		task.Description = ""
	} else if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Priority != nil {
		task.Priority = *update.Priority
	}
	if update.ClearDueDate {
		task.DueDate = nil
	} else if update.DueDate != nil {
		dueDate := *update.DueDate
		task.DueDate = &dueDate
	}
	if update.AssignedTo != nil {
		task.AssignedTo = append([]string{}, (*update.AssignedTo)...)
	}
	if update.Tags != nil {
		task.Tags = append([]string{}, (*update.Tags)...)
	}
	if update.ClearCompletedAt {
		task.CompletedAt = nil
	} else if update.CompletedAt != nil {
		completedAt := *update.CompletedAt
		task.CompletedAt = &completedAt
	}

	r.tasks[id] = task
	return nil
}

func (r *InMemoryTaskRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func matchesFilter(task models.Task, filter repository.TaskFilter) bool {
	if filter.Status != nil && task.Status != *filter.Status {
		return false
	}
	if filter.Priority != nil && task.Priority != *filter.Priority {
		return false
	}
	if filter.CreatedBy != nil && task.CreatedBy != *filter.CreatedBy {
		return false
	}
	if filter.AssignedTo != nil && !contains(task.AssignedTo, *filter.AssignedTo) {
		return false
	}
	if filter.InvolvedUser != nil &&
		task.CreatedBy != *filter.InvolvedUser &&
		!contains(task.AssignedTo, *filter.InvolvedUser) {
		return false
	}
	return true
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
