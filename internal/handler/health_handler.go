package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/trivia-backend/internal/response"
)

// HealthChecker is satisfied by *database.HealthChecker.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	checker HealthChecker
}

func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	deps, ok := h.checker.Check(c.Request.Context())
	status := http.StatusOK
	state := "ok"
	if !ok {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	response.Success(c, status, gin.H{"status": state, "dependencies": deps})
}
