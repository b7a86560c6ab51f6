package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/AkaOko/react-trpo/pkg/ctx"
	"github.com/AkaOko/react-trpo/pkg/logger"
)

// Pinger checks a dependency. database.Ping bound to the pool satisfies it.
type Pinger func(ctx context.Context) error

type HealthController struct {
	ping Pinger
}

func NewHealthController(ping Pinger) *HealthController {
	return &HealthController{ping: ping}
}

func (h *HealthController) Root(c *ctx.Context) {
	c.Message("Jewelry shop API is running")
}

// Health reports 503 when the database does not answer within two seconds.
func (h *HealthController) Health(c *ctx.Context) {
	pctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(pctx); err != nil {
		logger.WithCtx(c.Context()).Warn("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, map[string]any{
			"status":   http.StatusServiceUnavailable,
			"message":  "database unavailable",
			"database": "down",
		})
		return
	}
	c.Success(map[string]string{"database": "up"})
}
