package device

import (
	"errors"
	"testing"
)

func TestU_DeviceError_Message(t *testing.T) {
	tests := []struct {
		err  *DeviceError
		want string
	}{
		{&DeviceError{Op: "get", Index: 7, Err: ErrNotFound}, "device get [7]: device not found"},
		{&DeviceError{Op: "sign", Index: -1, Slot: 3, Err: ErrInvalidSlot}, "device sign [slot 3]: invalid slot"},
		{&DeviceError{Op: "sign", Index: 1, Slot: 2, Err: ErrKeyNotProvisioned}, "device sign [1/slot 2]: key not provisioned"},
		{&DeviceError{Op: "list", Index: -1, Err: errors.New("boom")}, "device list: boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestU_DeviceError_KindsAreDistinct(t *testing.T) {
	kinds := []error{ErrNotFound, ErrTypeMismatch, ErrInvalidSlot, ErrKeyNotProvisioned, ErrWrongOS}
	for i, a := range kinds {
		wrapped := &DeviceError{Op: "test", Index: -1, Err: a}
		for j, b := range kinds {
			if got := errors.Is(wrapped, b); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", a, b, got)
			}
		}
	}
}
