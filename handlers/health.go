package handlers

import (
	"context"
	"net/http"
	"time"

	"cinevault/internal/database"
)

type dbPinger interface {
	Ping(ctx context.Context) error
	Path() string
}

var _ dbPinger = (*database.DB)(nil)

type HealthHandler struct {
	DB dbPinger
}

func NewHealthHandler(db dbPinger) *HealthHandler {
	return &HealthHandler{DB: db}
}

// Check reports service and database health along with the ping duration.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := h.DB.Ping(r.Context())
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":      "error",
			"db":          "unavailable",
			"error":       err.Error(),
			"duration_ms": durationMS,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"db":          "ok",
		"db_name":     h.DB.Path(),
		"duration_ms": durationMS,
	})
}
