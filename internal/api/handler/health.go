// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"net/http"

	"github.com/remiblancher/device-registry/internal/api/dto"
	"github.com/remiblancher/device-registry/pkg/device"
)

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	version string
	catalog *device.Catalog
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, catalog *device.Catalog) *HealthHandler {
	return &HealthHandler{
		version: version,
		catalog: catalog,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
		Devices: h.catalog.Len(),
	})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"server":  true,
		"catalog": h.catalog != nil && h.catalog.Len() > 0,
	}

	allReady := true
	for _, ready := range checks {
		if !ready {
			allReady = false
			break
		}
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}

	respond(w, r, status, dto.ReadyResponse{
		Ready:  allReady,
		Checks: checks,
	})
}
