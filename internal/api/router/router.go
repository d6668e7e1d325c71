// Package router provides HTTP routing configuration using Chi.
package router

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/device-registry/internal/api/handler"
	"github.com/remiblancher/device-registry/internal/api/middleware"
	"github.com/remiblancher/device-registry/internal/api/service"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Config holds router configuration.
type Config struct {
	Version string
	Service *service.DeviceService
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Service.Catalog())
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Get("/api/openapi.yaml", serveOpenAPISpec)

	deviceHandler := handler.NewDeviceHandler(cfg.Service)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", deviceHandler.List)
			r.Get("/{index}", deviceHandler.Get)
		})

		r.Route("/hsms/{index}", func(r chi.Router) {
			r.Get("/", deviceHandler.GetHSM)
			r.Get("/slots/{slot}", deviceHandler.Slot)
			r.Post("/slots/{slot}/key", deviceHandler.GenerateKey)
			r.Post("/slots/{slot}/sign", deviceHandler.Sign)
		})
	})

	return r
}

// serveOpenAPISpec serves the OpenAPI specification file.
func serveOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiSpec)
}
