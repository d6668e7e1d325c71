// Package hsmprobe discovers the slots and tokens exposed by a PKCS#11
// module. Discovery needs no PIN and no session; it is used to check that a
// physical HSM is reachable before it is added to a fleet file.
package hsmprobe

import (
	"errors"
	"strings"
)

// ErrModulePathRequired is returned when no PKCS#11 module is given.
var ErrModulePathRequired = errors.New("PKCS#11 module path is required")

// ModuleInfo lists the slots of one PKCS#11 module.
type ModuleInfo struct {
	ModulePath string
	Slots      []SlotInfo
}

// SlotInfo describes a PKCS#11 slot and, when present, its token.
type SlotInfo struct {
	ID           uint
	Description  string
	TokenLabel   string
	TokenSerial  string
	Manufacturer string
	HasToken     bool
}

// Tokens returns the number of slots holding a token.
func (m *ModuleInfo) Tokens() int {
	n := 0
	for _, s := range m.Slots {
		if s.HasToken {
			n++
		}
	}
	return n
}

// FindToken returns the slot whose token label matches label.
func (m *ModuleInfo) FindToken(label string) (SlotInfo, bool) {
	for _, s := range m.Slots {
		if s.HasToken && strings.TrimSpace(s.TokenLabel) == label {
			return s, true
		}
	}
	return SlotInfo{}, false
}

// MaskSerial partially masks a token serial number for display.
func MaskSerial(serial string) string {
	serial = strings.TrimSpace(serial)
	if len(serial) <= 4 {
		return serial
	}
	return serial[:3] + strings.Repeat("*", len(serial)-4) + serial[len(serial)-1:]
}
