package handlers

import (
	"log/slog"
	"net/http"
	"time"

	derrors "github.com/humanagencyprotocol/hapsite/internal/foundation/errors"
	"github.com/humanagencyprotocol/hapsite/internal/server/responses"
	"github.com/humanagencyprotocol/hapsite/internal/version"
)

// MonitoringHandlers contains health endpoints.
type MonitoringHandlers struct {
	start          time.Time
	contentVersion string
	profiles       []string
	errorAdapter   *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates monitoring handlers reporting the served
// content version and profile names.
func NewMonitoringHandlers(contentVersion string, profiles []string, logger *slog.Logger) *MonitoringHandlers {
	return &MonitoringHandlers{
		start:          time.Now(),
		contentVersion: contentVersion,
		profiles:       profiles,
		errorAdapter:   derrors.NewHTTPErrorAdapter(logger),
	}
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !allowReadOnly(w, r) {
		return
	}
	health := &responses.HealthResponse{
		Status:         "healthy",
		Timestamp:      time.Now().UTC(),
		Version:        version.Version,
		ContentVersion: h.contentVersion,
		Uptime:         time.Since(h.start).Seconds(),
		Profiles:       h.profiles,
	}
	if err := writeJSON(w, http.StatusOK, health); err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, derrors.WrapError(err, derrors.CategoryInternal, "failed to write health response").Build())
	}
}
