package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// HealthHandler responde el healthcheck del servicio.
type HealthHandler struct {
	pool *pgxpool.Pool
}

func NewHealthHandler(pool *pgxpool.Pool) *HealthHandler {
	return &HealthHandler{pool: pool}
}

// Healthcheck maneja GET /healthcheck.
func (h *HealthHandler) Healthcheck(c *gin.Context) {
	if h.pool != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pool.Ping(ctx); err != nil {
			respondError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	respond(c, http.StatusOK, gin.H{"status": "ok"}, "Service is healthy")
}
