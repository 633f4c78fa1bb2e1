package repository

import (
	"taskapi/internal/models"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TaskFilter holds filtering, sorting, and pagination options for listing
// tasks. Nil filter fields are no-ops; all present filters combine with AND.
type TaskFilter struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *string
	Search     string

	SortBy    string
	SortOrder SortOrder

	Skip  int
	Limit int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks with filtering, sorting, and pagination, and
	// returns the total matching count before the pagination window.
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete removes a task
	Delete(id uint64) error

	// Count returns the total number of tasks
	Count() (int64, error)

	// CountByStatus returns the number of tasks per status
	CountByStatus() (map[models.TaskStatus]int64, error)

	// CountByPriority returns the number of tasks per priority
	CountByPriority() (map[models.TaskPriority]int64, error)

	// Transaction runs fn against a repository bound to one transaction;
	// returning an error rolls the whole transaction back.
	Transaction(fn func(TaskRepository) error) error
}
