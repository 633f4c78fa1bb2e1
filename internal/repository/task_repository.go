package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskapi/internal/apperrors"
	"taskapi/internal/models"
)

// sortColumns maps accepted sort_by values to their columns. priority and
// due_date are absent on purpose: they take dedicated ORDER BY expressions.
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"status":      "status",
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"assigned_to": "assigned_to",
}

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves tasks with filtering, sorting, and pagination. The total
// count is taken before the skip/limit window is applied.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	order, err := orderClause(filter.SortBy, filter.SortOrder)
	if err != nil {
		return nil, 0, err
	}

	query := r.db.Model(&models.Task{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(order)
	if filter.Skip > 0 {
		listQuery = listQuery.Offset(filter.Skip)
	}
	if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}

	var tasks []models.Task
	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// orderClause builds the ORDER BY expression for a sort field. Priority
// sorts by semantic rank rather than lexically, and due_date keeps NULL
// rows last in both directions.
func orderClause(sortBy string, order SortOrder) (string, error) {
	dir := "ASC"
	if order == SortDesc {
		dir = "DESC"
	}

	switch sortBy {
	case "":
		return "created_at DESC", nil
	case "priority":
		return fmt.Sprintf(
			"CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 WHEN 'urgent' THEN 4 ELSE 0 END %s", dir), nil
	case "due_date":
		return fmt.Sprintf("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date %s", dir), nil
	default:
		column, ok := sortColumns[sortBy]
		if !ok {
			return "", apperrors.NewInvalidSortField(sortBy)
		}
		return fmt.Sprintf("%s %s", column, dir), nil
	}
}

// Update persists changes to a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// Count returns the total number of tasks
func (r *GormTaskRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of tasks per status
func (r *GormTaskRepository) CountByStatus() (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}
	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CountByPriority returns the number of tasks per priority
func (r *GormTaskRepository) CountByPriority() (map[models.TaskPriority]int64, error) {
	var rows []struct {
		Priority models.TaskPriority
		Count    int64
	}
	err := r.db.Model(&models.Task{}).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.TaskPriority]int64, len(rows))
	for _, row := range rows {
		counts[row.Priority] = row.Count
	}
	return counts, nil
}

// Transaction runs fn against a repository bound to one transaction.
func (r *GormTaskRepository) Transaction(fn func(TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}
