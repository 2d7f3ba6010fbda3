// Package policy decides what a user may do with a task. Existence is the
// caller's concern: these predicates are only consulted after the task has
// been loaded, so a missing task surfaces as not-found, never forbidden.
package policy

import (
	"github.com/taskforge/task-management-api/internal/models"
)

// CanView reports whether the user may read the task: the creator or any
// assignee.
func CanView(task *models.Task, userID string) bool {
	if task.CreatedBy == userID {
		return true
	}
	for _, assignee := range task.AssignedTo {
		if assignee == userID {
			return true
		}
	}
	return false
}

// CanEdit reports whether the user may modify the task. Edit rights are the
// same as view rights: creator or any assignee.
func CanEdit(task *models.Task, userID string) bool {
	return CanView(task, userID)
}

// CanDelete reports whether the user may delete the task. Only the creator
// may; assignees can edit but not delete.
func CanDelete(task *models.Task, userID string) bool {
	return task.CreatedBy == userID
}
