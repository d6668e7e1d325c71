// Package server provides HTTP server configuration and lifecycle management.
package server

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server configuration.
type Config struct {
	// Port is the HTTP port.
	Port int

	// Host is the address to bind to (default: "").
	Host string

	// FleetPath is the fleet inventory file; empty uses the reference fleet.
	FleetPath string

	// AuditLog is the audit log file; empty disables auditing.
	AuditLog string

	// TLS configuration (optional)
	TLSCert string
	TLSKey  string

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            8080,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// ApplyEnv fills unset fields from DEVREG_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv("DEVREG_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DEVREG_PORT %q: %w", v, err)
		}
		c.Port = p
	}
	if c.Host == "" {
		c.Host = getenv("DEVREG_HOST")
	}
	if c.FleetPath == "" {
		c.FleetPath = getenv("DEVREG_FLEET")
	}
	if c.AuditLog == "" {
		c.AuditLog = getenv("DEVREG_AUDIT_LOG")
	}
	if c.TLSCert == "" {
		c.TLSCert = getenv("DEVREG_TLS_CERT")
	}
	if c.TLSKey == "" {
		c.TLSKey = getenv("DEVREG_TLS_KEY")
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return fmt.Errorf("both TLS certificate and key are required to enable TLS")
	}
	return nil
}

// Address returns the full listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// TLSEnabled reports whether the server terminates TLS.
func (c *Config) TLSEnabled() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
