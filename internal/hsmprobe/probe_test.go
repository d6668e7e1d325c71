package hsmprobe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestU_MaskSerial(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty string", "", ""},
		{"Short serial (4 chars)", "ABCD", "ABCD"},
		{"5 char serial - minimal masking", "ABCDE", "ABC*E"},
		{"8 char serial", "12345678", "123****8"},
		{"16 char serial (typical HSM)", "1234567890ABCDEF", "123************F"},
		{"Serial with spaces (trimmed)", "  ABCDEF  ", "ABC**F"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskSerial(tt.input); got != tt.expected {
				t.Errorf("MaskSerial(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestU_ModuleInfo_Tokens(t *testing.T) {
	info := &ModuleInfo{
		ModulePath: "/usr/lib/softhsm/libsofthsm2.so",
		Slots: []SlotInfo{
			{ID: 0, HasToken: true, TokenLabel: "devreg-usb                      "},
			{ID: 1},
			{ID: 7, HasToken: true, TokenLabel: "TUX"},
		},
	}

	if got := info.Tokens(); got != 2 {
		t.Errorf("Tokens() = %d, want 2", got)
	}

	slot, ok := info.FindToken("devreg-usb")
	if !ok || slot.ID != 0 {
		t.Errorf("FindToken(devreg-usb) = %+v, %v", slot, ok)
	}
	if _, ok := info.FindToken("missing"); ok {
		t.Error("FindToken(missing) should not match")
	}
}

func TestU_ListSlots_ModulePathRequired(t *testing.T) {
	_, err := ListSlots("")
	if !errors.Is(err, ErrModulePathRequired) {
		t.Errorf("ListSlots(\"\") error = %v, want ErrModulePathRequired", err)
	}
}

func TestU_ListSlots_NotAModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-module.so")
	if err := os.WriteFile(path, []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ListSlots(path); err == nil {
		t.Error("ListSlots() should fail on a file that is not a PKCS#11 module")
	}
}
