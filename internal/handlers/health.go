package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"
)

// HealthHandler provides the health check endpoint
type HealthHandler struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *sql.DB, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		logger: logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServeHTTP handles health check requests, reporting degraded when the
// database is unreachable
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Error("database ping failed", "error", err)
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "degraded",
			Timestamp: time.Now().UTC(),
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	}, h.logger)
}
