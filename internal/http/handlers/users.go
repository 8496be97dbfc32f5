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
)

type ProfileService interface {
	Profile(ctx context.Context, id auth.Identity) (user.User, error)
	UpdateProfile(ctx context.Context, id auth.Identity, upd user.ProfileUpdate) (user.User, error)
}

type UsersHandler struct {
	svc ProfileService
	log *slog.Logger
}

func NewUsersHandler(svc ProfileService, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		svc: svc,
		log: log,
	}
}

type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,email"`
}

func (h *UsersHandler) GetProfile(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	u, err := h.svc.Profile(ctx.Request.Context(), id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}

		h.log.ErrorContext(ctx.Request.Context(), "get profile failed", "err", err)
		RespondInternal(ctx)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    u,
	})
}

func (h *UsersHandler) UpdateProfile(ctx *gin.Context) {
	id, ok := middlewares.IdentityFromContext(ctx)

	if !ok {
		RespondUnauthorized(ctx, "Access token required")
		return
	}

	var req UpdateProfileRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.svc.UpdateProfile(ctx.Request.Context(), id, user.ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
	})

	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			RespondNotFound(ctx, "User not found")
		case errors.Is(err, user.ErrDuplicate):
			RespondBadRequest(ctx, "Email already in use", nil)
		default:
			h.log.ErrorContext(ctx.Request.Context(), "update profile failed", "err", err)
			RespondInternal(ctx)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"user":    u,
	})
}
