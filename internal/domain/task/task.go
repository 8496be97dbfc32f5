package task

import (
	"errors"
	"time"
)

// Priority levels a task can carry.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Lifecycle states. Every task starts out pending.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

const DefaultCategory = "General"

var ErrNotFound = errors.New("task not found")

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	UserID      string     `json:"userId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// with pointers if optional, it will be nil
type ListFilter struct {
	Status   *string
	Priority *string
	Category *string
	Limit    int
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    string     `json:"category" binding:"omitempty,max=80"`
	DueDate     *time.Time `json:"dueDate"`
}

// Partial update payload. Nil fields are left untouched; id and userId
// are not part of the payload and can never change.
type UpdateTaskRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1"`
	Description *string    `json:"description" binding:"omitempty,min=1"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      *string    `json:"status" binding:"omitempty,oneof=pending in-progress completed"`
	Category    *string    `json:"category" binding:"omitempty,max=80"`
	DueDate     *time.Time `json:"dueDate"`
}

type PriorityCounts struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Stats is the per-user aggregate. Recomputed from the owner's tasks on
// every call; nothing here is cached.
type Stats struct {
	Total          int            `json:"total"`
	Completed      int            `json:"completed"`
	Pending        int            `json:"pending"`
	InProgress     int            `json:"inProgress"`
	Overdue        int            `json:"overdue"`
	CompletionRate int            `json:"completionRate"`
	Categories     []string       `json:"categories"`
	Priorities     PriorityCounts `json:"priorities"`
}
