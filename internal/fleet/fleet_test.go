package fleet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/remiblancher/device-registry/pkg/device"
)

const sampleFleet = `
devices:
  - category: hsm
    variant: usb
    os: bare-metal
    provisioned: [2]
  - category: HSM
    variant: Server
    os: linux
    name: TUX
  - category: fido
    variant: two
    os: linux
    name: Fido the Second
`

func TestU_Parse_Valid(t *testing.T) {
	cfg, err := Parse([]byte(sampleFleet))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(cfg.Devices) != 3 {
		t.Fatalf("Devices len = %d, want 3", len(cfg.Devices))
	}

	c, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	usb, err := c.GetHSM(0)
	if err != nil {
		t.Fatalf("GetHSM(0) error = %v", err)
	}
	if usb.HasKey(1) || !usb.HasKey(2) {
		t.Errorf("usb slots = %+v, want slot 2 provisioned", usb.Slots())
	}

	server, _ := c.Get(1)
	if server.Name() != "TUX" || server.Variant() != "server" {
		t.Errorf("device 1 = %s", server)
	}

	if _, err := c.GetHSM(2); !errors.Is(err, device.ErrTypeMismatch) {
		t.Errorf("GetHSM(2) error = %v, want ErrTypeMismatch", err)
	}
}

func TestU_Parse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg string
	}{
		{"empty", "devices: []", "at least one device"},
		{"bad category", "devices:\n  - category: tpm\n    variant: one\n    os: linux", "unknown device category"},
		{"bad os", "devices:\n  - category: hsm\n    variant: usb\n    os: beos", "unknown device OS"},
		{"bad hsm variant", "devices:\n  - category: hsm\n    variant: one\n    os: linux", "unknown HSM variant"},
		{"bad fido variant", "devices:\n  - category: fido\n    variant: usb\n    os: linux", "unknown FIDO variant"},
		{"slot out of range", "devices:\n  - category: hsm\n    variant: usb\n    os: linux\n    provisioned: [3]", "out of range"},
		{"fido provisioned", "devices:\n  - category: fido\n    variant: one\n    os: linux\n    provisioned: [1]", "only valid for hsm"},
		{"not yaml", "devices: [", "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Parse() error = %v, want containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestU_Load_FileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestU_OpenCatalog(t *testing.T) {
	c, err := OpenCatalog("")
	if err != nil {
		t.Fatalf("OpenCatalog(\"\") error = %v", err)
	}
	if c.Len() != 6 {
		t.Errorf("default catalog Len() = %d, want 6", c.Len())
	}

	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(sampleFleet), 0644); err != nil {
		t.Fatal(err)
	}
	c, err = OpenCatalog(path)
	if err != nil {
		t.Fatalf("OpenCatalog(path) error = %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("file catalog Len() = %d, want 3", c.Len())
	}
}

func TestU_Default_RoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Default) error = %v", err)
	}
	c, err := cfg.Catalog()
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	ref := device.NewDefaultCatalog()
	for i, d := range ref.List() {
		got, _ := c.Get(i)
		if got.String() != d.String() {
			t.Errorf("device %d = %s, want %s", i, got, d)
		}
	}
}
