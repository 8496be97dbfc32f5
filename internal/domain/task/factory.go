package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewFromCreateRequest builds a fresh task owned by userID. Ownership
// always comes from the authenticated caller, never from the payload,
// and the status is always pending no matter what the client sent.
func NewFromCreateRequest(userID string, req CreateTaskRequest) Task {
	now := time.Now().UTC()

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = DefaultCategory
	}

	return Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Status:      StatusPending,
		Category:    category,
		DueDate:     req.DueDate,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ApplyUpdate merges the non-nil fields of req over t and refreshes
// UpdatedAt. ID, UserID and CreatedAt are untouchable.
func ApplyUpdate(t Task, req UpdateTaskRequest) Task {
	if req.Title != nil {
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = strings.TrimSpace(*req.Description)
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Category != nil {
		t.Category = strings.TrimSpace(*req.Category)
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}
	t.UpdatedAt = time.Now().UTC()

	return t
}

// Matches reports whether t satisfies every filter predicate that is set.
func (t Task) Matches(f ListFilter) bool {
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	return true
}
