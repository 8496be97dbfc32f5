package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/taskhub/api/internal/domain/task"
)

// TasksRepo is the in-memory task store. Every lookup is scoped to the
// owning user id, so a task owned by someone else is indistinguishable
// from a missing one.
type TasksRepo struct {
	mu    sync.RWMutex
	items map[string]task.Task
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		items: make(map[string]task.Task),
	}
}

func (r *TasksRepo) Insert(ctx context.Context, t task.Task) error {
	r.mu.Lock()
	r.items[t.ID] = t
	r.mu.Unlock()

	return nil
}

func (r *TasksRepo) GetForUser(ctx context.Context, userID, id string) (task.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.items[id]

	if !ok || t.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}

	return t, nil
}

// ListForUser returns the user's tasks newest-first. The limit is
// applied after filtering and sorting, not before.
func (r *TasksRepo) ListForUser(ctx context.Context, userID string, f task.ListFilter) ([]task.Task, error) {
	r.mu.RLock()

	matched := make([]task.Task, 0)

	for _, t := range r.items {
		if t.UserID != userID {
			continue
		}
		if !t.Matches(f) {
			continue
		}
		matched = append(matched, t)
	}

	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if f.Limit > 0 && len(matched) > f.Limit {
		matched = matched[:f.Limit]
	}

	return matched, nil
}

func (r *TasksRepo) UpdateForUser(ctx context.Context, userID, id string, req task.UpdateTaskRequest) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]

	if !ok || t.UserID != userID {
		return task.Task{}, task.ErrNotFound
	}

	updated := task.ApplyUpdate(t, req)
	r.items[id] = updated

	return updated, nil
}

func (r *TasksRepo) DeleteForUser(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]

	if !ok || t.UserID != userID {
		return task.ErrNotFound
	}

	delete(r.items, id)

	return nil
}
