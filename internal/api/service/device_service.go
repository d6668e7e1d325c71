// Package service provides the operations exposed by the API and CLI.
package service

import (
	"errors"

	"github.com/remiblancher/device-registry/internal/audit"
	"github.com/remiblancher/device-registry/pkg/device"
)

// DeviceService exposes catalog lookups and HSM slot operations, and
// records key generation and signing attempts to the audit log.
type DeviceService struct {
	catalog *device.Catalog
	audit   *audit.Logger
}

// NewDeviceService creates a DeviceService over catalog. A nil logger
// disables auditing.
func NewDeviceService(catalog *device.Catalog, logger *audit.Logger) *DeviceService {
	return &DeviceService{catalog: catalog, audit: logger}
}

// Catalog returns the underlying catalog.
func (s *DeviceService) Catalog() *device.Catalog {
	return s.catalog
}

// WithActor returns a service sharing the same catalog whose audit events
// are attributed to actor.
func (s *DeviceService) WithActor(actor audit.Actor) *DeviceService {
	return &DeviceService{catalog: s.catalog, audit: s.audit.WithActor(actor)}
}

// List returns every device in catalog order.
func (s *DeviceService) List() []*device.Device {
	return s.catalog.List()
}

// Get returns the device at index. When os is non-nil the device must run
// that OS.
func (s *DeviceService) Get(index int, os *device.OS) (*device.Device, error) {
	if os != nil {
		return s.catalog.GetOnOS(index, *os)
	}
	return s.catalog.Get(index)
}

// GetHSM returns the HSM at index.
func (s *DeviceService) GetHSM(index int) (*device.HSM, error) {
	hsm, err := s.catalog.GetHSM(index)
	if err != nil && errors.Is(err, device.ErrTypeMismatch) {
		d, _ := s.catalog.Get(index)
		if auditErr := s.audit.LogAccessDenied(index, d, device.ErrTypeMismatch.Error()); auditErr != nil {
			return nil, auditErr
		}
	}
	return hsm, err
}

// GenerateKey provisions a key in slot of the HSM at index and returns the
// resulting slot state.
func (s *DeviceService) GenerateKey(index, slot int) (device.SlotState, error) {
	hsm, err := s.GetHSM(index)
	if err != nil {
		return device.SlotState{}, err
	}

	opErr := hsm.GenerateKey(slot)
	if err := s.audit.LogKeyGenerated(index, hsm, slot, opErr); err != nil {
		return device.SlotState{}, err
	}
	if opErr != nil {
		return device.SlotState{}, withIndex(opErr, index)
	}
	return device.SlotState{Slot: slot, HasKey: true}, nil
}

// Slot returns the state of one slot of the HSM at index.
func (s *DeviceService) Slot(index, slot int) (device.SlotState, error) {
	hsm, err := s.catalog.GetHSM(index)
	if err != nil {
		return device.SlotState{}, err
	}
	if slot < 1 || slot > hsm.MaxSlots() {
		return device.SlotState{}, &device.DeviceError{Op: "slot", Index: index, Slot: slot, Err: device.ErrInvalidSlot}
	}
	return device.SlotState{Slot: slot, HasKey: hsm.HasKey(slot)}, nil
}

// Sign returns the placeholder signature of slot on the HSM at index.
func (s *DeviceService) Sign(index, slot int) (*device.HSM, []byte, error) {
	hsm, err := s.GetHSM(index)
	if err != nil {
		return nil, nil, err
	}

	sig, opErr := hsm.Sign(slot)
	if err := s.audit.LogSign(index, hsm, slot, opErr); err != nil {
		return nil, nil, err
	}
	if opErr != nil {
		return hsm, nil, withIndex(opErr, index)
	}
	return hsm, sig, nil
}

// withIndex attaches the catalog index to a slot error raised by an HSM.
func withIndex(err error, index int) error {
	var devErr *device.DeviceError
	if errors.As(err, &devErr) {
		e := *devErr
		e.Index = index
		return &e
	}
	return err
}
