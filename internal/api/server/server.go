package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/remiblancher/device-registry/internal/api/router"
	"github.com/remiblancher/device-registry/internal/api/service"
)

// Server represents the HTTP server.
type Server struct {
	cfg     *Config
	version string
	svc     *service.DeviceService
	srv     *http.Server
}

// New creates a new Server.
func New(cfg *Config, version string, svc *service.DeviceService) *Server {
	s := &Server{
		cfg:     cfg,
		version: version,
		svc:     svc,
	}
	s.srv = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return router.New(&router.Config{
		Version: s.version,
		Service: s.svc,
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errChan := make(chan error, 1)
	go func() {
		if s.cfg.TLSEnabled() {
			errChan <- s.srv.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- s.srv.Serve(ln)
		}
	}()

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Printf("Shutting down...")
		return s.shutdown()
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Println("Server stopped gracefully")
	return nil
}

// PrintStartupInfo prints server startup information.
func (s *Server) PrintStartupInfo(w io.Writer) {
	scheme := "http"
	if s.cfg.TLSEnabled() {
		scheme = "https"
	}
	fleet := s.cfg.FleetPath
	if fleet == "" {
		fleet = "(reference fleet)"
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Device Registry API Server")
	fmt.Fprintln(w, "==========================")
	fmt.Fprintf(w, "  Version:  %s\n", s.version)
	fmt.Fprintf(w, "  Address:  %s://%s\n", scheme, s.cfg.Address())
	fmt.Fprintf(w, "  Fleet:    %s (%d devices)\n", fleet, s.svc.Catalog().Len())
	if s.cfg.AuditLog != "" {
		fmt.Fprintf(w, "  Audit:    %s\n", s.cfg.AuditLog)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Endpoints:")
	fmt.Fprintln(w, "  GET  /health                               - Health check")
	fmt.Fprintln(w, "  GET  /ready                                - Readiness check")
	fmt.Fprintln(w, "  GET  /api/openapi.yaml                     - OpenAPI specification")
	fmt.Fprintln(w, "  GET  /api/v1/devices                       - List devices")
	fmt.Fprintln(w, "  GET  /api/v1/devices/{index}               - Get device")
	fmt.Fprintln(w, "  GET  /api/v1/hsms/{index}                  - Get HSM and slots")
	fmt.Fprintln(w, "  GET  /api/v1/hsms/{index}/slots/{slot}     - Slot state")
	fmt.Fprintln(w, "  POST /api/v1/hsms/{index}/slots/{slot}/key - Generate key")
	fmt.Fprintln(w, "  POST /api/v1/hsms/{index}/slots/{slot}/sign - Sign")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Use Ctrl+C to stop")
	fmt.Fprintln(w)
}
