package handlers

import (
	"context"
	"net/http"
	"time"

	"hireflow_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Pinger - *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health", h.Health)
}

// Health проверяет только доступность БД
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.CtxWithError(ctx, "Health check failed", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "up"})
}
