package handler

import (
	"context"
	"net/http"
	"time"

	"salesdesk/internal/service"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the backing store answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthHandler struct {
	strategy service.Strategy
	store    Pinger
}

// NewHealthHandler builds the liveness handler. store may be nil when the
// deployment scans a file instead of querying a database.
func NewHealthHandler(strategy service.Strategy, store Pinger) *HealthHandler {
	return &HealthHandler{strategy: strategy, store: store}
}

func (h *HealthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.Health)
}

// @Summary      Health check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "strategy": h.strategy})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "strategy": h.strategy})
}
