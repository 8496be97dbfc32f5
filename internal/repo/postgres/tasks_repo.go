package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/taskhub/api/internal/domain/task"
)

type TasksRepo struct {
	pool *pgxpool.Pool
}

func NewTasksRepo(pool *pgxpool.Pool) *TasksRepo {
	return &TasksRepo{pool: pool}
}

const taskColumns = `id, title, description, priority, status, category, due_date, user_id, created_at, updated_at`

func (r *TasksRepo) Insert(ctx context.Context, t task.Task) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tasks(`+taskColumns+`)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.Title, t.Description, t.Priority, t.Status, t.Category, t.DueDate, t.UserID, t.CreatedAt, t.UpdatedAt,
	)

	return err
}

func (r *TasksRepo) GetForUser(ctx context.Context, userID, id string) (task.Task, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskColumns+`
         FROM tasks
         WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	return scanTask(row)
}

func (r *TasksRepo) ListForUser(ctx context.Context, userID string, f task.ListFilter) ([]task.Task, error) {
	conds := []string{`user_id = $1`}
	args := []interface{}{userID}
	pos := 2

	// filtered conditional checks
	if f.Status != nil {
		conds = append(conds, fmt.Sprintf(`status = $%d`, pos))
		args = append(args, *f.Status)
		pos++
	}
	if f.Priority != nil {
		conds = append(conds, fmt.Sprintf(`priority = $%d`, pos))
		args = append(args, *f.Priority)
		pos++
	}
	if f.Category != nil {
		conds = append(conds, fmt.Sprintf(`category = $%d`, pos))
		args = append(args, *f.Category)
		pos++
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC`

	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, pos)
		args = append(args, f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]task.Task, 0)

	for rows.Next() {
		t, err := scanTaskRow(rows)

		if err != nil {
			return nil, err
		}

		out = append(out, t)
	}

	return out, rows.Err()
}

func (r *TasksRepo) UpdateForUser(ctx context.Context, userID, id string, req task.UpdateTaskRequest) (task.Task, error) {
	sets := []string{`updated_at = $3`}
	args := []interface{}{id, userID, time.Now().UTC()}
	pos := 4

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf(`%s = $%d`, column, pos))
		args = append(args, value)
		pos++
	}

	if req.Title != nil {
		set("title", strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		set("description", strings.TrimSpace(*req.Description))
	}
	if req.Priority != nil {
		set("priority", *req.Priority)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}
	if req.Category != nil {
		set("category", strings.TrimSpace(*req.Category))
	}
	if req.DueDate != nil {
		set("due_date", *req.DueDate)
	}

	row := r.pool.QueryRow(ctx,
		`UPDATE tasks SET `+strings.Join(sets, ", ")+`
         WHERE id = $1 AND user_id = $2
         RETURNING `+taskColumns,
		args...,
	)

	return scanTask(row)
}

func (r *TasksRepo) DeleteForUser(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`,
		id, userID,
	)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return task.ErrNotFound
	}

	return nil
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task

	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.Category,
		&t.DueDate,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrNotFound
		}

		return task.Task{}, err
	}

	return t, nil
}

func scanTaskRow(rows pgx.Rows) (task.Task, error) {
	var t task.Task

	err := rows.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.Category,
		&t.DueDate,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)

	return t, err
}
