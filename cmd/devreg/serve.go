package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/remiblancher/device-registry/internal/api/server"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveTLSCert string
	serveTLSKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the device registry REST API",
	Long: `Start the device registry REST API.

Responses are JSON, or CBOR when the client sends "Accept: application/cbor".

Environment variables:
  DEVREG_PORT       Port to listen on
  DEVREG_HOST       Host to bind to
  DEVREG_FLEET      Fleet inventory file
  DEVREG_AUDIT_LOG  Audit log file
  DEVREG_TLS_CERT   TLS certificate file
  DEVREG_TLS_KEY    TLS private key file

Flags take precedence over environment variables.

Examples:
  devreg serve --port 8080
  devreg serve --fleet fleet.yaml --audit-log audit.jsonl
  devreg serve --port 8443 --tls-cert server.crt --tls-key server.key`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := serveConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}

	srv := server.New(cfg, version, registry)
	srv.PrintStartupInfo(cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

// serveConfig merges defaults, environment and explicitly set flags.
func serveConfig(cmd *cobra.Command, getenv func(string) string) (*server.Config, error) {
	cfg := server.DefaultConfig()
	cfg.FleetPath = fleetPath
	cfg.AuditLog = auditLogPath
	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("host") {
		cfg.Host = serveHost
	}
	if flags.Changed("tls-cert") {
		cfg.TLSCert = serveTLSCert
	}
	if flags.Changed("tls-key") {
		cfg.TLSKey = serveTLSKey
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
