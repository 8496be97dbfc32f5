package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/domain/task"
	"github.com/taskhub/api/internal/http/middlewares"
	"github.com/taskhub/api/internal/observability"
	"github.com/taskhub/api/internal/tasks"
)

// Keep this small interface so tests can fake it easily.
type TaskService interface {
	List(ctx context.Context, id auth.Identity, f task.ListFilter) ([]task.Task, error)
	Create(ctx context.Context, id auth.Identity, req task.CreateTaskRequest) (task.Task, error)
	Get(ctx context.Context, id auth.Identity, taskID string) (task.Task, error)
	Update(ctx context.Context, id auth.Identity, taskID string, req task.UpdateTaskRequest) (task.Task, error)
	Delete(ctx context.Context, id auth.Identity, taskID string) error
	Stats(ctx context.Context, id auth.Identity) (task.Stats, error)
}

type TasksHandler struct {
	svc     TaskService
	log     *slog.Logger
	metrics *observability.Prom
}

func NewTasksHandler(svc TaskService, log *slog.Logger, metrics *observability.Prom) *TasksHandler {
	return &TasksHandler{
		svc:     svc,
		log:     log,
		metrics: metrics,
	}
}

func (h *TasksHandler) ListTasks(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	var f task.ListFilter

	filters := gin.H{}

	if v := ctx.Query("status"); v != "" {
		f.Status = &v
		filters["status"] = v
	}
	if v := ctx.Query("priority"); v != "" {
		f.Priority = &v
		filters["priority"] = v
	}
	if v := ctx.Query("category"); v != "" {
		f.Category = &v
		filters["category"] = v
	}
	if v := ctx.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)

		if err != nil || limit < 0 {
			RespondBadRequest(ctx, "limit must be a non-negative number", nil)
			return
		}

		f.Limit = limit
	}

	items, err := h.svc.List(ctx.Request.Context(), id, f)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "list tasks failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"tasks":   items,
		"total":   len(items),
		"filters": filters,
	})
}

func (h *TasksHandler) CreateTask(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	var req task.CreateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.svc.Create(ctx.Request.Context(), id, req)

	if err != nil {
		if errors.Is(err, tasks.ErrMissingFields) {
			RespondBadRequest(ctx, "Title and description are required", nil)
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "create task failed", "err", err)
		RespondInternal(ctx)
		return
	}

	h.metrics.TasksCreated.Inc()

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task created successfully",
		"task":    t,
	})
}

func (h *TasksHandler) GetTask(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	t, err := h.svc.Get(ctx.Request.Context(), id, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "get task failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"task":    t,
	})
}

func (h *TasksHandler) UpdateTask(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	var req task.UpdateTaskRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.svc.Update(ctx.Request.Context(), id, ctx.Param("id"), req)

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "update task failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"task":    t,
	})
}

func (h *TasksHandler) DeleteTask(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	err := h.svc.Delete(ctx.Request.Context(), id, ctx.Param("id"))

	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			RespondNotFound(ctx, "Task not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "delete task failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task deleted successfully",
	})
}

func (h *TasksHandler) Stats(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	stats, err := h.svc.Stats(ctx.Request.Context(), id)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "stats failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   stats,
	})
}
