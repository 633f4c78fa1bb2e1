package dto

import (
	"time"

	"taskapi/internal/models"
	"taskapi/internal/services"
)

// CreateTaskRequest is the request body for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description *string             `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
	AssignedTo  *string             `json:"assigned_to"`
}

func (r CreateTaskRequest) ToInput() services.CreateTaskInput {
	return services.CreateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		AssignedTo:  r.AssignedTo,
	}
}

// UpdateTaskRequest is the request body for partially updating a task.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status"`
	Priority    *models.TaskPriority `json:"priority"`
	DueDate     *time.Time           `json:"due_date"`
	AssignedTo  *string              `json:"assigned_to"`
}

func (r UpdateTaskRequest) ToInput() services.UpdateTaskInput {
	return services.UpdateTaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		AssignedTo:  r.AssignedTo,
	}
}

// BulkUpdateRequest is the request body for updating many tasks at once
type BulkUpdateRequest struct {
	TaskIDs    []uint64          `json:"task_ids" binding:"required,min=1"`
	UpdateData UpdateTaskRequest `json:"update_data"`
}

// BulkDeleteRequest is the request body for deleting many tasks at once
type BulkDeleteRequest struct {
	TaskIDs []uint64 `json:"task_ids" binding:"required,min=1"`
}

// TaskListResponse is a paginated task listing. Total counts every match
// before the skip/limit window.
type TaskListResponse struct {
	Tasks     []models.Task `json:"tasks"`
	Total     int64         `json:"total"`
	Skip      int           `json:"skip"`
	Limit     int           `json:"limit"`
	SortBy    string        `json:"sort_by,omitempty"`
	SortOrder string        `json:"sort_order,omitempty"`
}

// BulkResultItem reports one id's outcome within a bulk operation
type BulkResultItem struct {
	TaskID  uint64 `json:"task_id"`
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// BulkOperationResponse reports a bulk operation's per-id outcomes
type BulkOperationResponse struct {
	Results        []BulkResultItem `json:"results"`
	SucceededCount int              `json:"succeeded_count"`
	FailedCount    int              `json:"failed_count"`
}

// ToBulkOperationResponse converts service bulk results to the response shape
func ToBulkOperationResponse(results []services.BulkResult) BulkOperationResponse {
	resp := BulkOperationResponse{
		Results: make([]BulkResultItem, len(results)),
	}
	for i, result := range results {
		resp.Results[i] = BulkResultItem{
			TaskID:  result.TaskID,
			Success: result.Success,
			Code:    result.Code,
			Message: result.Message,
		}
		if result.Success {
			resp.SucceededCount++
		} else {
			resp.FailedCount++
		}
	}
	return resp
}
