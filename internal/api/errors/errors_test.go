package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/remiblancher/device-registry/pkg/device"
)

func TestU_MapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", &device.DeviceError{Op: "get", Index: 9, Err: device.ErrNotFound}, http.StatusNotFound, CodeNotFound},
		{"type mismatch", &device.DeviceError{Op: "get-hsm", Index: 3, Err: device.ErrTypeMismatch}, http.StatusConflict, CodeTypeMismatch},
		{"wrong os", fmt.Errorf("%w: linux instead of windoof", device.ErrWrongOS), http.StatusConflict, CodeWrongOS},
		{"invalid slot", &device.DeviceError{Op: "sign", Index: 0, Slot: 3, Err: device.ErrInvalidSlot}, http.StatusUnprocessableEntity, CodeInvalidSlot},
		{"key not provisioned", &device.DeviceError{Op: "sign", Index: 0, Slot: 1, Err: device.ErrKeyNotProvisioned}, http.StatusPreconditionFailed, CodeKeyNotProvisioned},
		{"other", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, apiErr := MapError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", apiErr.Code, tt.wantCode)
			}
		})
	}

	if status, apiErr := MapError(nil); status != http.StatusOK || apiErr != nil {
		t.Errorf("MapError(nil) = %d, %v", status, apiErr)
	}
}

func TestU_MapError_Details(t *testing.T) {
	_, apiErr := MapError(&device.DeviceError{Op: "sign", Index: 2, Slot: 4, Err: device.ErrKeyNotProvisioned})
	if apiErr.Details["operation"] != "sign" || apiErr.Details["index"] != "2" || apiErr.Details["slot"] != "4" {
		t.Errorf("Details = %v", apiErr.Details)
	}

	_, apiErr = MapError(errors.New("secret internals"))
	if apiErr.Message != "An internal error occurred" {
		t.Errorf("internal error message leaked: %q", apiErr.Message)
	}
}

func TestU_Tag(t *testing.T) {
	err := &device.DeviceError{Op: "sign", Index: 0, Slot: 3, Err: device.ErrInvalidSlot}
	want := "[INVALID_SLOT] device sign [0/slot 3]: invalid slot"
	if got := Tag(err); got != want {
		t.Errorf("Tag() = %q, want %q", got, want)
	}
	if got := Tag(errors.New("boom")); got != "[INTERNAL_ERROR] boom" {
		t.Errorf("Tag() = %q", got)
	}
	if Tag(nil) != "" {
		t.Error("Tag(nil) should be empty")
	}
}
