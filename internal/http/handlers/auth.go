package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/api/internal/auth"
	"github.com/taskhub/api/internal/domain/user"
	"github.com/taskhub/api/internal/http/middlewares"
	"github.com/taskhub/api/internal/observability"
)

// Keep this small interface so tests can fake it easily.
type AuthService interface {
	Register(ctx context.Context, username, email, name, password string) (user.User, string, error)
	Login(ctx context.Context, identifier, password string) (user.User, string, error)
	Refresh(ctx context.Context, id auth.Identity) (user.User, string, error)
}

type AuthHandler struct {
	svc     AuthService
	log     *slog.Logger
	metrics *observability.Prom
}

func NewAuthHandler(svc AuthService, log *slog.Logger, metrics *observability.Prom) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		log:     log,
		metrics: metrics,
	}
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// The username field carries either a username or an email; the store
// matches both.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if !BindJSON(ctx, &req) {
		h.metrics.AuthAttempts.WithLabelValues("register", "rejected").Inc()
		return
	}

	u, token, err := h.svc.Register(ctx.Request.Context(), req.Username, req.Email, req.Name, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			h.metrics.AuthAttempts.WithLabelValues("register", "rejected").Inc()
			RespondBadRequest(ctx, "All fields are required", nil)
		case errors.Is(err, user.ErrDuplicate):
			h.metrics.AuthAttempts.WithLabelValues("register", "rejected").Inc()
			RespondBadRequest(ctx, "Username or email already exists", nil)
		default:
			h.metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
			h.log.ErrorContext(ctx.Request.Context(), "register failed", "err", err)
			RespondInternal(ctx)
		}
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful",
		"user":    u,
		"token":   token,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		h.metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
		return
	}

	u, token, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)

	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			h.metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
			RespondBadRequest(ctx, "Username and password are required", nil)
		case errors.Is(err, user.ErrNotFound), errors.Is(err, auth.ErrInvalidCredentials):
			// same response either way: no existence leakage
			h.metrics.AuthAttempts.WithLabelValues("login", "rejected").Inc()
			RespondUnauthorized(ctx, "Invalid credentials")
		default:
			h.metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
			h.log.ErrorContext(ctx.Request.Context(), "login failed", "err", err)
			RespondInternal(ctx)
		}
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    u,
		"token":   token,
	})
}

func (h *AuthHandler) Refresh(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	u, token, err := h.svc.Refresh(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "token refresh failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    u,
		"token":   token,
	})
}
