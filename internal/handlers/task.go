package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskapi/internal/apperrors"
	"taskapi/internal/config"
	"taskapi/internal/dto"
	"taskapi/internal/models"
	"taskapi/internal/repository"
	"taskapi/internal/services"
	"taskapi/internal/utils"
)

type TaskHandler struct {
	service *services.TaskService
	cfg     *config.Config
}

func NewTaskHandler(service *services.TaskService, cfg *config.Config) *TaskHandler {
	return &TaskHandler{service: service, cfg: cfg}
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.service.CreateTask(req.ToInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	task, err := h.service.GetTask(id)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// ListTasks returns tasks matching the query filters, sorted and paginated
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	h.respondList(c, input)
}

// ListTasksByStatus returns tasks with the status given in the path
func (h *TaskHandler) ListTasksByStatus(c *gin.Context) {
	status := models.TaskStatus(c.Param("status"))
	if !status.Valid() {
		apperrors.Respond(c, apperrors.NewValidation("invalid status: %s", status))
		return
	}
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	input.Status = &status
	h.respondList(c, input)
}

// ListTasksByPriority returns tasks with the priority given in the path
func (h *TaskHandler) ListTasksByPriority(c *gin.Context) {
	priority := models.TaskPriority(c.Param("priority"))
	if !priority.Valid() {
		apperrors.Respond(c, apperrors.NewValidation("invalid priority: %s", priority))
		return
	}
	input, ok := h.listInput(c)
	if !ok {
		return
	}
	input.Priority = &priority
	h.respondList(c, input)
}

// listInput builds the common filter/sort/pagination input from the query
// string. Reports false after writing an error response.
func (h *TaskHandler) listInput(c *gin.Context) (services.ListTasksInput, bool) {
	input := services.ListTasksInput{
		Search: c.Query("search"),
		SortBy: c.Query("sort_by"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.TaskStatus(statusStr)
		if !status.Valid() {
			apperrors.Respond(c, apperrors.NewValidation("invalid status: %s", statusStr))
			return input, false
		}
		input.Status = &status
	}
	if priorityStr := c.Query("priority"); priorityStr != "" {
		priority := models.TaskPriority(priorityStr)
		if !priority.Valid() {
			apperrors.Respond(c, apperrors.NewValidation("invalid priority: %s", priorityStr))
			return input, false
		}
		input.Priority = &priority
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		input.AssignedTo = &assignedTo
	}

	switch order := c.Query("sort_order"); order {
	case "", "desc":
		input.SortOrder = repository.SortDesc
	case "asc":
		input.SortOrder = repository.SortAsc
	default:
		apperrors.Respond(c, apperrors.NewValidation("invalid sort_order: %s", order))
		return input, false
	}

	params := utils.GetPageParams(c, h.cfg.DefaultPageSize, h.cfg.MaxPageSize)
	input.Skip = params.Skip
	input.Limit = params.Limit
	return input, true
}

func (h *TaskHandler) respondList(c *gin.Context, input services.ListTasksInput) {
	tasks, total, err := h.service.ListTasks(input)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListResponse{
		Tasks:     tasks,
		Total:     total,
		Skip:      input.Skip,
		Limit:     input.Limit,
		SortBy:    input.SortBy,
		SortOrder: string(input.SortOrder),
	})
}

// UpdateTask applies a partial update to an existing task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "invalid request body")
		return
	}

	task, err := h.service.UpdateTask(id, req.ToInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTask(id); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}

// BulkUpdateTasks applies one update to many tasks with per-id results
func (h *TaskHandler) BulkUpdateTasks(c *gin.Context) {
	var req dto.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "invalid request body")
		return
	}

	results, err := h.service.BulkUpdateTasks(req.TaskIDs, req.UpdateData.ToInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkOperationResponse(results))
}

// BulkDeleteTasks deletes many tasks with per-id results
func (h *TaskHandler) BulkDeleteTasks(c *gin.Context) {
	var req dto.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, "invalid request body")
		return
	}

	results, err := h.service.BulkDeleteTasks(req.TaskIDs)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkOperationResponse(results))
}

// GetStatistics returns aggregate counts by status and priority
func (h *TaskHandler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics()
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func taskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperrors.BadRequest(c, "invalid task id")
		return 0, false
	}
	return id, true
}
