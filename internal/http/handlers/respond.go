package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// All failure responses share the {"success": false, "message": ...}
// envelope the client expects; validation failures may carry field
// details alongside.

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	body := gin.H{
		"success": false,
		"message": message,
	}

	if details != nil {
		body["details"] = details
	}

	ctx.JSON(http.StatusBadRequest, body)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

// Internal faults are reported generically; the detail stays in the
// server-side log only.
func RespondInternal(ctx *gin.Context) {
	RespondError(ctx, http.StatusInternalServerError, "Internal server error")
}
