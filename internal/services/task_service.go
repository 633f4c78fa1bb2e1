package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskapi/internal/apperrors"
	"taskapi/internal/models"
	"taskapi/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description *string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	DueDate     *time.Time
	AssignedTo  *string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Status     *models.TaskStatus
	Priority   *models.TaskPriority
	AssignedTo *string
	Search     string
	SortBy     string
	SortOrder  repository.SortOrder
	Skip       int
	Limit      int
}

// BulkResult reports the outcome of a bulk operation for one task id.
type BulkResult struct {
	TaskID  uint64
	Success bool
	Code    string
	Message string
}

// TaskStatistics holds aggregate task counts
type TaskStatistics struct {
	TotalTasks        int64                         `json:"total_tasks"`
	StatusBreakdown   map[models.TaskStatus]int64   `json:"status_breakdown"`
	PriorityBreakdown map[models.TaskPriority]int64 `json:"priority_breakdown"`
}

// CreateTask creates a new task with validation
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return nil, err
	}
	description, err := validateDescription(input.Description)
	if err != nil {
		return nil, err
	}
	if err := validateDueDate(input.DueDate); err != nil {
		return nil, err
	}
	assignedTo, err := validateAssignedTo(input.AssignedTo)
	if err != nil {
		return nil, err
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPending
	}
	if !input.Status.Valid() {
		return nil, apperrors.NewValidation("invalid status: %s", input.Status)
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, apperrors.NewValidation("invalid priority: %s", input.Priority)
	}

	task := &models.Task{
		Title:       title,
		Description: description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		AssignedTo:  assignedTo,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(id uint64) (*models.Task, error) {
	task, err := s.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("task %d not found", id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filters together with the total
// matching count before pagination.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		Status:     input.Status,
		Priority:   input.Priority,
		AssignedTo: input.AssignedTo,
		Search:     input.Search,
		SortBy:     input.SortBy,
		SortOrder:  input.SortOrder,
		Skip:       input.Skip,
		Limit:      input.Limit,
	}
	tasks, total, err := s.repo.List(filter)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, total, nil
}

// UpdateTask applies a partial update to an existing task
func (s *TaskService) UpdateTask(id uint64, input UpdateTaskInput) (*models.Task, error) {
	var updated *models.Task
	err := s.repo.Transaction(func(tx repository.TaskRepository) error {
		task, err := updateOne(tx, id, input)
		if err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// updateOne validates and applies a partial update against one task inside
// the given repository (plain or transactional).
func updateOne(repo repository.TaskRepository, id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("task %d not found", id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		description, err := validateDescription(input.Description)
		if err != nil {
			return nil, err
		}
		task.Description = description
	}
	if input.DueDate != nil {
		if err := validateDueDate(input.DueDate); err != nil {
			return nil, err
		}
		task.DueDate = input.DueDate
	}
	if input.AssignedTo != nil {
		assignedTo, err := validateAssignedTo(input.AssignedTo)
		if err != nil {
			return nil, err
		}
		task.AssignedTo = assignedTo
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidation("invalid priority: %s", *input.Priority)
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidation("invalid status: %s", *input.Status)
		}
		if !task.Status.CanTransitionTo(*input.Status) {
			return nil, apperrors.NewInvalidTransition(string(task.Status), string(*input.Status))
		}
		task.Status = *input.Status
	}

	if err := repo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask removes a task by ID
func (s *TaskService) DeleteTask(id uint64) error {
	if _, err := s.GetTask(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// BulkUpdateTasks applies one partial update to many tasks, reporting the
// outcome per id. Per-id failures (missing task, rejected transition, bad
// value) do not fail the batch; only storage errors abort, rolling the whole
// batch back.
func (s *TaskService) BulkUpdateTasks(ids []uint64, input UpdateTaskInput) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(ids))
	err := s.repo.Transaction(func(tx repository.TaskRepository) error {
		for _, id := range ids {
			_, err := updateOne(tx, id, input)
			if err != nil {
				var appErr *apperrors.Error
				if !errors.As(err, &appErr) {
					return err
				}
				results = append(results, BulkResult{
					TaskID:  id,
					Code:    appErr.Code,
					Message: appErr.Message,
				})
				continue
			}
			results = append(results, BulkResult{TaskID: id, Success: true})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk update failed: %w", err)
	}
	return results, nil
}

// BulkDeleteTasks deletes many tasks, reporting the outcome per id.
func (s *TaskService) BulkDeleteTasks(ids []uint64) ([]BulkResult, error) {
	results := make([]BulkResult, 0, len(ids))
	err := s.repo.Transaction(func(tx repository.TaskRepository) error {
		for _, id := range ids {
			if _, err := tx.FindByID(id); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					notFound := apperrors.NewNotFound("task %d not found", id)
					results = append(results, BulkResult{
						TaskID:  id,
						Code:    notFound.Code,
						Message: notFound.Message,
					})
					continue
				}
				return err
			}
			if err := tx.Delete(id); err != nil {
				return err
			}
			results = append(results, BulkResult{TaskID: id, Success: true})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bulk delete failed: %w", err)
	}
	return results, nil
}

// GetStatistics returns aggregate counts by status and by priority. Every
// enum value is present in the breakdown, zero when unused.
func (s *TaskService) GetStatistics() (*TaskStatistics, error) {
	total, err := s.repo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	byStatus, err := s.repo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by status: %w", err)
	}
	byPriority, err := s.repo.CountByPriority()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks by priority: %w", err)
	}

	stats := &TaskStatistics{
		TotalTasks:        total,
		StatusBreakdown:   make(map[models.TaskStatus]int64, len(models.AllStatuses)),
		PriorityBreakdown: make(map[models.TaskPriority]int64, len(models.AllPriorities)),
	}
	for _, status := range models.AllStatuses {
		stats.StatusBreakdown[status] = byStatus[status]
	}
	for _, priority := range models.AllPriorities {
		stats.PriorityBreakdown[priority] = byPriority[priority]
	}
	return stats, nil
}
