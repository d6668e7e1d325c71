// Package errors provides error handling and HTTP status code mapping.
package errors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/remiblancher/device-registry/internal/api/dto"
	"github.com/remiblancher/device-registry/pkg/device"
)

// Error codes for API responses.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeTypeMismatch      = "TYPE_MISMATCH"
	CodeWrongOS           = "WRONG_OS"
	CodeInvalidSlot       = "INVALID_SLOT"
	CodeKeyNotProvisioned = "KEY_NOT_PROVISIONED"
	CodeNotAcceptable     = "NOT_ACCEPTABLE"
	CodeInternal          = "INTERNAL_ERROR"
)

// kinds maps each device error kind to its status and code. Order matters
// only for errors wrapping more than one kind, which the core never
// produces.
var kinds = []struct {
	err    error
	status int
	code   string
}{
	{device.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{device.ErrTypeMismatch, http.StatusConflict, CodeTypeMismatch},
	{device.ErrWrongOS, http.StatusConflict, CodeWrongOS},
	{device.ErrInvalidSlot, http.StatusUnprocessableEntity, CodeInvalidSlot},
	{device.ErrKeyNotProvisioned, http.StatusPreconditionFailed, CodeKeyNotProvisioned},
}

// Code returns the machine-readable code of err, CodeInternal for errors
// outside the device taxonomy.
func Code(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.code
		}
	}
	return CodeInternal
}

// Tag renders err as a single line prefixed by its code, e.g.
// "[INVALID_SLOT] device sign [0/slot 3]: invalid slot".
func Tag(err error) string {
	if err == nil {
		return ""
	}
	return "[" + Code(err) + "] " + err.Error()
}

// MapError maps an internal error to an HTTP status code and APIError.
func MapError(err error) (int, *dto.APIError) {
	if err == nil {
		return http.StatusOK, nil
	}

	for _, k := range kinds {
		if !errors.Is(err, k.err) {
			continue
		}
		apiErr := &dto.APIError{
			Code:    k.code,
			Message: err.Error(),
		}
		var devErr *device.DeviceError
		if errors.As(err, &devErr) {
			apiErr.Details = map[string]string{"operation": devErr.Op}
			if devErr.Index >= 0 {
				apiErr.Details["index"] = strconv.Itoa(devErr.Index)
			}
			if devErr.Slot != 0 {
				apiErr.Details["slot"] = strconv.Itoa(devErr.Slot)
			}
		}
		return k.status, apiErr
	}

	return http.StatusInternalServerError, &dto.APIError{
		Code:    CodeInternal,
		Message: "An internal error occurred",
	}
}

// NewBadRequest creates a bad request error.
func NewBadRequest(message string, details map[string]string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeInvalidRequest,
		Message: message,
		Details: details,
	}
}

// NewNotAcceptable creates an error for unsupported Accept headers.
func NewNotAcceptable(accept string) *dto.APIError {
	return &dto.APIError{
		Code:    CodeNotAcceptable,
		Message: "unsupported media type requested",
		Details: map[string]string{"accept": accept},
	}
}
