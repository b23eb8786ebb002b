package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database liveness.
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler constructs a HealthHandler. db may be nil.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check handles GET /healthz requests.
func (h *HealthHandler) Check(c echo.Context) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return Error(c, http.StatusServiceUnavailable, "database unavailable")
		}
	}
	return Success(c, http.StatusOK, "ok", nil)
}
