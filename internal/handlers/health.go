package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// SessionCounter reports how many browser sessions are held in memory.
type SessionCounter interface {
	Len() int
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	sessions SessionCounter
	logger   *slog.Logger
}

func NewHealthHandler(sessions SessionCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Sessions  int       `json:"sessions"`
}

// ServeHTTP handles health check requests. The upstream API is not probed.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
		Sessions:  h.sessions.Len(),
	}, h.logger)
}
