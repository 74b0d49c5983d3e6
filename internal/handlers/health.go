package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"order-management-api/internal/models"
)

// BackendProbe is the subset of the backend API the health check depends on
type BackendProbe interface {
	HealthCheck(ctx context.Context) (*models.HealthResponse, error)
}

// HealthHandler handles health check requests
type HealthHandler struct {
	backend     BackendProbe
	serviceName string
	version     string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(backend BackendProbe, serviceName, version string) *HealthHandler {
	return &HealthHandler{
		backend:     backend,
		serviceName: serviceName,
		version:     version,
	}
}

// Health handles GET /health. The service reports unhealthy when the hosted
// backend is unreachable, since every write ultimately lands there.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	slog.Debug("Health check requested", "remote_addr", r.RemoteAddr)

	status := "healthy"
	statusCode := http.StatusOK

	if _, err := h.backend.HealthCheck(r.Context()); err != nil {
		slog.Error("Backend health check failed", "error", err)
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSONResponse(w, statusCode, models.HealthResponse{
		Status:    status,
		Service:   h.serviceName,
		Version:   h.version,
		Timestamp: time.Now(),
	})
}
