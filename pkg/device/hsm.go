package device

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// HSMVariant is the concrete model of a hardware security module.
type HSMVariant uint8

const (
	HSMUSB HSMVariant = iota
	HSMServer
)

// String returns the text form of the variant.
func (v HSMVariant) String() string {
	switch v {
	case HSMUSB:
		return "usb"
	case HSMServer:
		return "server"
	}
	return fmt.Sprintf("hsm(%d)", uint8(v))
}

// MaxSlots returns the number of key slots the variant provides.
func (v HSMVariant) MaxSlots() int {
	switch v {
	case HSMUSB:
		return 2
	case HSMServer:
		return 5
	}
	return 0
}

// KeyAlgorithm returns the name of the key type the variant provisions.
func (v HSMVariant) KeyAlgorithm() string {
	switch v {
	case HSMUSB:
		return "rsa"
	case HSMServer:
		return "secp256k1"
	}
	return ""
}

// ParseHSMVariant parses an HSM variant name (case-insensitive).
func ParseHSMVariant(s string) (HSMVariant, error) {
	switch strings.ToLower(s) {
	case "usb":
		return HSMUSB, nil
	case "server":
		return HSMServer, nil
	}
	return 0, fmt.Errorf("unknown HSM variant: %q", s)
}

// SlotState is a point-in-time view of one key slot.
type SlotState struct {
	Slot   int
	HasKey bool
}

// HSM is the slot/key capability of an HSM device. Each slot flag is an
// independent atomic, so operations on different slots never contend and a
// reader never observes a partial write.
type HSM struct {
	variant HSMVariant
	keys    []atomic.Bool // index 0 is slot 1
}

func newHSM(variant HSMVariant) *HSM {
	return &HSM{
		variant: variant,
		keys:    make([]atomic.Bool, variant.MaxSlots()),
	}
}

// Variant returns the HSM variant.
func (h *HSM) Variant() HSMVariant { return h.variant }

// MaxSlots returns the number of slots, 2 for USB and 5 for SERVER.
func (h *HSM) MaxSlots() int { return len(h.keys) }

// KeyAlgorithm returns the key type provisioned in this HSM's slots.
func (h *HSM) KeyAlgorithm() string { return h.variant.KeyAlgorithm() }

func (h *HSM) validSlot(slot int) bool {
	return slot >= 1 && slot <= len(h.keys)
}

// GenerateKey provisions a key in slot. Generating into a slot that
// already holds a key is a no-op.
func (h *HSM) GenerateKey(slot int) error {
	if !h.validSlot(slot) {
		return newSlotError("generate-key", slot, ErrInvalidSlot)
	}
	h.keys[slot-1].Store(true)
	return nil
}

// HasKey reports whether slot holds a key. Out-of-range slots report false.
func (h *HSM) HasKey(slot int) bool {
	if !h.validSlot(slot) {
		return false
	}
	return h.keys[slot-1].Load()
}

// Slots returns the state of every slot in ascending order.
func (h *HSM) Slots() []SlotState {
	states := make([]SlotState, len(h.keys))
	for i := range h.keys {
		states[i] = SlotState{Slot: i + 1, HasKey: h.keys[i].Load()}
	}
	return states
}

// Provisioned returns the number of slots holding a key.
func (h *HSM) Provisioned() int {
	n := 0
	for i := range h.keys {
		if h.keys[i].Load() {
			n++
		}
	}
	return n
}
