package repo

import (
	"context"

	"github.com/xAGI-labs/ProjectOM/internal/omserver/service/tasks/domain/entity"
)

// TaskRepository defines the persistence interface for Task entities.
// Implementations store and return copies, so a record is always replaced
// as a whole and readers never see a half updated task.
type TaskRepository interface {
	// Create stores a new task.
	Create(ctx context.Context, task *entity.Task) error
	// Get retrieves a task by ID.
	Get(ctx context.Context, id string) (*entity.Task, error)
	// Update replaces an existing task.
	Update(ctx context.Context, task *entity.Task) error
	// List returns all tasks in submission order.
	List(ctx context.Context) ([]*entity.Task, error)
	// Delete removes a task.
	Delete(ctx context.Context, id string) error
}
