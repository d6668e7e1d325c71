package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"

	"github.com/remiblancher/device-registry/pkg/device"
)

func TestU_FormatError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "device error is tagged",
			err:  &device.DeviceError{Op: "sign", Index: 0, Slot: 3, Err: device.ErrInvalidSlot},
			want: "[INVALID_SLOT] device sign [0/slot 3]: invalid slot",
		},
		{
			name: "wrapped sentinel is tagged",
			err:  fmt.Errorf("lookup: %w", device.ErrNotFound),
			want: "[NOT_FOUND] lookup: device not found",
		},
		{
			name: "other errors are untagged",
			err:  errors.New(`unknown command "frob" for "devreg"`),
			want: `Error: unknown command "frob" for "devreg"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatError(tt.err); got != tt.want {
				t.Errorf("formatError() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestF_Root_Version(t *testing.T) {
	newTestContext(t)

	out, err := executeCommand(rootCmd, "--version")
	assertNoError(t, err)
	assertContains(t, out, "devreg version dev")
}

// newServeTestCmd returns a command carrying the serve flags with fresh
// Changed state.
func newServeTestCmd(args ...string) (*cobra.Command, error) {
	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().IntVar(&servePort, "port", 8080, "")
	cmd.Flags().StringVar(&serveHost, "host", "", "")
	cmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "")
	cmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "")
	return cmd, cmd.Flags().Parse(args)
}

func TestU_ServeConfig(t *testing.T) {
	env := map[string]string{
		"DEVREG_PORT": "9000",
		"DEVREG_HOST": "10.0.0.1",
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		name     string
		args     []string
		wantAddr string
		wantErr  bool
	}{
		{"env only", nil, "10.0.0.1:9000", false},
		{"flag overrides env", []string{"--port", "7000"}, "10.0.0.1:7000", false},
		{"host flag", []string{"--host", "127.0.0.1"}, "127.0.0.1:9000", false},
		{"tls cert without key", []string{"--tls-cert", "server.crt"}, "", true},
		{"port out of range", []string{"--port", "70000"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			cmd, err := newServeTestCmd(tt.args...)
			assertNoError(t, err)

			cfg, err := serveConfig(cmd, getenv)
			if (err != nil) != tt.wantErr {
				t.Fatalf("serveConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Address() != tt.wantAddr {
				t.Errorf("Address() = %s, want %s", cfg.Address(), tt.wantAddr)
			}
		})
	}
}

func TestU_ServeConfig_GlobalPaths(t *testing.T) {
	resetFlags()
	fleetPath = "fleet.yaml"
	auditLogPath = "audit.jsonl"
	t.Cleanup(resetFlags)

	cmd, err := newServeTestCmd()
	assertNoError(t, err)

	cfg, err := serveConfig(cmd, func(string) string { return "" })
	assertNoError(t, err)
	if cfg.FleetPath != "fleet.yaml" || cfg.AuditLog != "audit.jsonl" || cfg.Port != 8080 {
		t.Errorf("config = %+v", cfg)
	}
}
