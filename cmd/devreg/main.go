// Command devreg manages a fleet of HSM and FIDO devices and the key slots
// of its HSMs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apierrors "github.com/remiblancher/device-registry/internal/api/errors"
	"github.com/remiblancher/device-registry/internal/api/service"
	"github.com/remiblancher/device-registry/internal/audit"
	"github.com/remiblancher/device-registry/internal/fleet"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	fleetPath    string
	auditLogPath string
)

// Per-invocation state, built in PersistentPreRunE.
var (
	registry    *service.DeviceService
	auditLogger *audit.Logger
)

func main() {
	err := rootCmd.Execute()
	closeRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devreg",
	Short: "Device registry - HSM and FIDO fleet catalog with key-slot lifecycle",
	Long: `devreg keeps an ordered catalog of HSM and FIDO devices and manages the
key slots of its HSMs.

HSM variants:
  usb     2 slots, RSA keys
  server  5 slots, secp256k1 keys

FIDO variants: one, two (no key slots)

The catalog lives for one process. Use --fleet to load an inventory, and its
"provisioned" lists (or --provision on hsm sign) to start with keys in place.

Examples:
  # List the reference fleet
  devreg devices list

  # Provision slot 1 of HSM 0 and sign with it
  devreg hsm sign 0 1 --provision 1

  # Run the REST API
  devreg serve --port 8080 --audit-log ./audit.jsonl`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		resolveGlobalPaths()
		return openRegistry()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeRegistry()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&fleetPath, "fleet", "",
		"Path to fleet inventory file (or set DEVREG_FLEET env var)")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set DEVREG_AUDIT_LOG env var)")

	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(hsmCmd)
	rootCmd.AddCommand(fleetCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(serveCmd)
}

// resolveGlobalPaths falls back to the environment for paths not set via flag.
func resolveGlobalPaths() {
	if fleetPath == "" {
		fleetPath = os.Getenv("DEVREG_FLEET")
	}
	if auditLogPath == "" {
		auditLogPath = os.Getenv("DEVREG_AUDIT_LOG")
	}
}

// withoutRegistry replaces the root pre-run for commands that only read
// files. The audit log is not opened for writing, so a damaged log can
// still be inspected.
func withoutRegistry(cmd *cobra.Command, args []string) error {
	resolveGlobalPaths()
	return nil
}

// openRegistry builds the catalog and audit logger for this invocation.
func openRegistry() error {
	catalog, err := fleet.OpenCatalog(fleetPath)
	if err != nil {
		return err
	}

	logger, err := audit.Open(auditLogPath)
	if err != nil {
		return fmt.Errorf("failed to initialize audit log: %w", err)
	}

	auditLogger = logger
	registry = service.NewDeviceService(catalog, logger.WithActor(cliActor()))
	return nil
}

func closeRegistry() error {
	if auditLogger == nil {
		return nil
	}
	err := auditLogger.Close()
	auditLogger = nil
	return err
}

func cliActor() audit.Actor {
	actor := audit.Actor{Type: "user", ID: os.Getenv("USER")}
	if actor.ID == "" {
		actor.ID = "unknown"
	}
	if host, err := os.Hostname(); err == nil {
		actor.Host = host
	}
	return actor
}

// formatError renders device errors with their code tag.
func formatError(err error) string {
	if apierrors.Code(err) != apierrors.CodeInternal {
		return apierrors.Tag(err)
	}
	return "Error: " + err.Error()
}
