package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dukerupert/fiscal/internal/handler"
	"github.com/dukerupert/fiscal/internal/middleware"
)

// Pinger reports whether a dependency is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /healthz.
type HealthHandler struct {
	db Pinger // nil when running on fixtures
}

// NewHealthHandler creates the health handler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health answers 200 when the store is reachable and 503 otherwise.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			middleware.GetLogger(r.Context()).Error("Health check failed", "error", err)
			handler.WriteJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}

	handler.WriteJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
