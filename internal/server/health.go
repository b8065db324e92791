package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/zynor/internal/health"
)

// StatusSource reports the last observed API status.
type StatusSource interface {
	Status() health.Status
}

// HealthChecker serves the probe status as JSON.
type HealthChecker struct {
	log    *slog.Logger
	source StatusSource
	apiURL string
}

// NewHealthChecker creates a handler reporting source. apiURL is echoed in
// the response body.
func NewHealthChecker(log *slog.Logger, source StatusSource, apiURL string) *HealthChecker {
	return &HealthChecker{
		log:    log,
		source: source,
		apiURL: apiURL,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	current := h.source.Status()

	status := map[string]string{
		"api":     string(current),
		"api_url": h.apiURL,
	}

	overallStatus := http.StatusOK
	if current != health.StatusUp {
		overallStatus = http.StatusServiceUnavailable
		h.log.DebugContext(req.Context(), "Health check reports API not up", "status", current)
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(req.Context(), "Failed to write health check response", "error", err)
	}
}
