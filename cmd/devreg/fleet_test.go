package main

import (
	"testing"

	"github.com/remiblancher/device-registry/internal/fleet"
)

func TestF_Fleet_ShowDefault(t *testing.T) {
	newTestContext(t)

	out, err := executeCommand(rootCmd, "fleet", "show")
	assertNoError(t, err)

	cfg, err := fleet.Parse([]byte(out))
	assertNoError(t, err)
	if len(cfg.Devices) != 6 || cfg.Devices[3].Name != "Fido the Second" {
		t.Errorf("fleet = %+v", cfg.Devices)
	}
}

func TestF_Fleet_ShowLoaded(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("fleet.yaml", "devices:\n  - category: hsm\n    variant: server\n    os: windoof\n    name: rack-7\n")

	out, err := executeCommand(rootCmd, "--fleet", path, "fleet", "show")
	assertNoError(t, err)
	assertContains(t, out, "rack-7", "windoof")
}

func TestF_Fleet_Validate(t *testing.T) {
	tc := newTestContext(t)
	path := tc.writeFile("fleet.yaml", `devices:
  - category: hsm
    variant: usb
    os: bare-metal
    provisioned: [1, 2]
  - category: fido
    variant: two
    os: linux
`)

	out, err := executeCommand(rootCmd, "fleet", "validate", path)
	assertNoError(t, err)
	assertContains(t, out, "OK (2 devices, 2 provisioned slots)")
}

func TestF_Fleet_ValidateInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "devices: []\n"},
		{"unknown variant", "devices:\n  - category: hsm\n    variant: pci\n    os: linux\n"},
		{"fido provisioned", "devices:\n  - category: fido\n    variant: one\n    os: linux\n    provisioned: [1]\n"},
		{"not yaml", "devices: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestContext(t)
			path := tc.writeFile("fleet.yaml", tt.content)
			_, err := executeCommand(rootCmd, "fleet", "validate", path)
			assertError(t, err)
		})
	}
}

func TestF_Fleet_Validate_WithDamagedGlobalLog(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.writeFile("audit.jsonl", "garbage\n")
	inventory := tc.writeFile("fleet.yaml", "devices:\n  - category: fido\n    variant: one\n    os: linux\n")

	out, err := executeCommand(rootCmd, "--audit-log", logPath, "fleet", "validate", inventory)
	assertNoError(t, err)
	assertContains(t, out, "OK (1 devices, 0 provisioned slots)")
}
