package device

import (
	"errors"
	"fmt"
)

// DeviceError represents an error that occurred during a device operation.
type DeviceError struct {
	Op    string // Operation: "get", "get-hsm", "generate-key", "sign"
	Index int    // Catalog index, -1 if not applicable
	Slot  int    // Slot number, 0 if not applicable
	Err   error  // Underlying error
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	switch {
	case e.Index >= 0 && e.Slot != 0:
		return fmt.Sprintf("device %s [%d/slot %d]: %v", e.Op, e.Index, e.Slot, e.Err)
	case e.Index >= 0:
		return fmt.Sprintf("device %s [%d]: %v", e.Op, e.Index, e.Err)
	case e.Slot != 0:
		return fmt.Sprintf("device %s [slot %d]: %v", e.Op, e.Slot, e.Err)
	}
	return fmt.Sprintf("device %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DeviceError) Unwrap() error { return e.Err }

func newIndexError(op string, index int, err error) *DeviceError {
	return &DeviceError{Op: op, Index: index, Err: err}
}

func newSlotError(op string, slot int, err error) *DeviceError {
	return &DeviceError{Op: op, Index: -1, Slot: slot, Err: err}
}

// Sentinel errors for device operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrNotFound indicates the catalog has no entry at the requested index.
	ErrNotFound = errors.New("device not found")

	// ErrTypeMismatch indicates the device lacks the requested capability,
	// e.g. HSM operations on a FIDO authenticator.
	ErrTypeMismatch = errors.New("device type mismatch")

	// ErrInvalidSlot indicates a slot outside [1, MaxSlots].
	ErrInvalidSlot = errors.New("invalid slot")

	// ErrKeyNotProvisioned indicates no key has been generated in the slot.
	ErrKeyNotProvisioned = errors.New("key not provisioned")

	// ErrWrongOS indicates the device runs a different operating system
	// than the caller required.
	ErrWrongOS = errors.New("device has wrong OS")

	// ErrInvalidSpec indicates a device description outside the closed
	// category, variant and OS sets.
	ErrInvalidSpec = errors.New("invalid device spec")
)
