package device

// Placeholder signature patterns. They stand in for real signatures and are
// kept byte-exact because callers use them as test oracles.
var (
	usbPatternA = []byte{1, 2, 3, 4, 5, 6, 7, 8}
	usbPatternB = []byte{8, 7, 6, 5, 4, 3, 2, 1}

	serverPatternOdd = []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	serverPatternEven = []byte{
		9, 10, 11, 12, 13, 14, 15, 16,
		1, 2, 3, 4, 5, 6, 7, 8,
	}
)

// Sign returns the placeholder signature for slot.
//
// It fails with ErrInvalidSlot when slot is outside [1, MaxSlots] and with
// ErrKeyNotProvisioned when no key was generated in the slot. The returned
// slice is a fresh copy.
func (h *HSM) Sign(slot int) ([]byte, error) {
	if !h.validSlot(slot) {
		return nil, newSlotError("sign", slot, ErrInvalidSlot)
	}
	if !h.keys[slot-1].Load() {
		return nil, newSlotError("sign", slot, ErrKeyNotProvisioned)
	}

	pattern := placeholder(h.variant, slot)
	sig := make([]byte, len(pattern))
	copy(sig, pattern)
	return sig, nil
}

func placeholder(v HSMVariant, slot int) []byte {
	switch v {
	case HSMUSB:
		if slot == 1 {
			return usbPatternA
		}
		return usbPatternB
	case HSMServer:
		if slot%2 == 1 {
			return serverPatternOdd
		}
		return serverPatternEven
	}
	return nil
}
