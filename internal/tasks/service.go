package tasks

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/domain/task"
)

var ErrMissingFields = errors.New("title and description are required")

// Keep this small interface so tests can fake it easily; satisfied by
// both the memory and postgres task stores. Every method is ownership
// scoped: an id owned by another user behaves exactly like a missing id.
type TaskStore interface {
	Insert(ctx context.Context, t task.Task) error
	GetForUser(ctx context.Context, userID, id string) (task.Task, error)
	ListForUser(ctx context.Context, userID string, f task.ListFilter) ([]task.Task, error)
	UpdateForUser(ctx context.Context, userID, id string, req task.UpdateTaskRequest) (task.Task, error)
	DeleteForUser(ctx context.Context, userID, id string) error
}

// Service performs ownership-scoped CRUD and aggregation over the task
// store. The authenticated identity is an explicit parameter on every
// operation.
type Service struct {
	store TaskStore
}

func NewService(store TaskStore) *Service {
	return &Service{store: store}
}

// List returns the caller's tasks, newest first. Filters are equality
// predicates ANDed together; the limit truncates after filtering and
// sorting.
func (s *Service) List(ctx context.Context, id auth.Identity, f task.ListFilter) ([]task.Task, error) {
	return s.store.ListForUser(ctx, id.UserID, f)
}

// Create stores a new task owned by the caller. Client-supplied
// ownership or status is ignored; see task.NewFromCreateRequest.
func (s *Service) Create(ctx context.Context, id auth.Identity, req task.CreateTaskRequest) (task.Task, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
		return task.Task{}, ErrMissingFields
	}

	t := task.NewFromCreateRequest(id.UserID, req)

	if err := s.store.Insert(ctx, t); err != nil {
		return task.Task{}, err
	}

	return t, nil
}

func (s *Service) Get(ctx context.Context, id auth.Identity, taskID string) (task.Task, error) {
	return s.store.GetForUser(ctx, id.UserID, taskID)
}

// Update merges the supplied fields over the existing record and
// refreshes updatedAt. A task owned by someone else is a not-found.
func (s *Service) Update(ctx context.Context, id auth.Identity, taskID string, req task.UpdateTaskRequest) (task.Task, error) {
	return s.store.UpdateForUser(ctx, id.UserID, taskID, req)
}

func (s *Service) Delete(ctx context.Context, id auth.Identity, taskID string) error {
	return s.store.DeleteForUser(ctx, id.UserID, taskID)
}

// Stats recomputes the caller's aggregate on every call.
func (s *Service) Stats(ctx context.Context, id auth.Identity) (task.Stats, error) {
	all, err := s.store.ListForUser(ctx, id.UserID, task.ListFilter{})

	if err != nil {
		return task.Stats{}, err
	}

	now := time.Now().UTC()
	stats := task.Stats{
		Total:      len(all),
		Categories: []string{},
	}

	seen := make(map[string]struct{})

	for _, t := range all {
		switch t.Status {
		case task.StatusCompleted:
			stats.Completed++
		case task.StatusPending:
			stats.Pending++
		case task.StatusInProgress:
			stats.InProgress++
		}

		if t.DueDate != nil && t.DueDate.Before(now) && t.Status != task.StatusCompleted {
			stats.Overdue++
		}

		switch t.Priority {
		case task.PriorityHigh:
			stats.Priorities.High++
		case task.PriorityMedium:
			stats.Priorities.Medium++
		case task.PriorityLow:
			stats.Priorities.Low++
		}

		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			stats.Categories = append(stats.Categories, t.Category)
		}
	}

	if stats.Total > 0 {
		stats.CompletionRate = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}

	return stats, nil
}
