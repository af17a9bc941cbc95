// Package store provides the entity store adapter: per-document atomic
// access to tasks, assignments, and the user directory. The core treats
// every read as authoritative at call time; there is no cache and no
// cross-document transaction.
package store

import (
	"context"
	"errors"

	"github.com/Zoreslaw/kyiv-apts-f-sub001/internal/types"
)

// ErrNotFound is returned when a task, assignment, or user does not exist.
var ErrNotFound = errors.New("not found")

// EntityStore is the boundary the dispatcher and engine execute against.
// All operations are atomic per document.
type EntityStore interface {
	GetTask(ctx context.Context, id string) (*types.Task, error)
	UpdateTask(ctx context.Context, id string, patch types.TaskPatch) error
	ListOpenTasks(ctx context.Context) ([]types.Task, error)

	GetAssignment(ctx context.Context, userID string) (*types.Assignment, error)
	CreateAssignment(ctx context.Context, userID string, apartmentIDs []string) (*types.Assignment, error)
	UpdateAssignment(ctx context.Context, id string, patch types.AssignmentPatch) error

	FindUserByNameOrHandle(ctx context.Context, text string) (*types.User, error)
}
