package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	started time.Time
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		started: time.Now(),
		version: version,
	}
}

func (h *HealthHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    int(time.Since(h.started).Seconds()),
		"version":   h.version,
	})
}
