package models

import (
	"time"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// AllStatuses lists every status in declaration order.
var AllStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

// statusTransitions is the explicit transition table. Completed tasks can be
// reopened and cancelled tasks reactivated.
var statusTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusCompleted, TaskStatusCancelled, TaskStatusPending},
	TaskStatusCompleted:  {TaskStatusInProgress},
	TaskStatusCancelled:  {TaskStatusPending, TaskStatusInProgress},
}

// CanTransitionTo reports whether a status change is permitted. Setting the
// same status again is a no-op and always allowed.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// AllPriorities lists every priority in ascending rank order.
var AllPriorities = []TaskPriority{
	TaskPriorityLow,
	TaskPriorityMedium,
	TaskPriorityHigh,
	TaskPriorityUrgent,
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Rank returns the semantic ordering of a priority. Sorting must use this
// rank: lexical order would put "high" before "low".
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityLow:
		return 1
	case TaskPriorityMedium:
		return 2
	case TaskPriorityHigh:
		return 3
	case TaskPriorityUrgent:
		return 4
	}
	return 0
}

type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"size:200;not null" json:"title"`
	Description *string      `gorm:"size:1000" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	DueDate     *time.Time   `json:"due_date"`
	AssignedTo  *string      `gorm:"size:100" json:"assigned_to"`
}

func (Task) TableName() string {
	return "tasks"
}
