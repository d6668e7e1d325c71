package dto

import (
	"encoding/hex"

	"github.com/remiblancher/device-registry/pkg/device"
)

// DeviceResponse describes one catalog entry.
type DeviceResponse struct {
	// Index is the position in the catalog.
	Index int `json:"index" cbor:"index"`

	// Category is "hsm" or "fido".
	Category string `json:"category" cbor:"category"`

	// Variant is "usb", "server", "one" or "two".
	Variant string `json:"variant" cbor:"variant"`

	// OS is "bare-metal", "linux" or "windoof".
	OS string `json:"os" cbor:"os"`

	// Name is the optional display name.
	Name string `json:"name,omitempty" cbor:"name,omitempty"`
}

// DeviceListResponse lists the catalog.
type DeviceListResponse struct {
	Devices []DeviceResponse `json:"devices" cbor:"devices"`
	Total   int              `json:"total" cbor:"total"`
}

// SlotResponse describes the key state of one HSM slot.
type SlotResponse struct {
	Slot   int  `json:"slot" cbor:"slot"`
	HasKey bool `json:"has_key" cbor:"has_key"`
}

// HSMResponse describes an HSM and its slots.
type HSMResponse struct {
	DeviceResponse

	// MaxSlots is 2 for USB and 5 for SERVER HSMs.
	MaxSlots int `json:"max_slots" cbor:"max_slots"`

	// KeyAlgorithm is the key type provisioned in the slots.
	KeyAlgorithm string `json:"key_algorithm" cbor:"key_algorithm"`

	Slots []SlotResponse `json:"slots" cbor:"slots"`
}

// SignResponse carries a placeholder signature.
type SignResponse struct {
	Index   int    `json:"index" cbor:"index"`
	Slot    int    `json:"slot" cbor:"slot"`
	Variant string `json:"variant" cbor:"variant"`

	// Signature is base64 in JSON and a byte string in CBOR.
	Signature []byte `json:"signature" cbor:"signature"`

	// SignatureHex is the lowercase hex form of Signature.
	SignatureHex string `json:"signature_hex" cbor:"signature_hex"`
}

// NewDeviceResponse converts a catalog entry.
func NewDeviceResponse(index int, d *device.Device) DeviceResponse {
	id := d.Identity()
	return DeviceResponse{
		Index:    index,
		Category: id.Category.String(),
		Variant:  d.Variant(),
		OS:       id.OS.String(),
		Name:     id.Name,
	}
}

// NewHSMResponse converts an HSM catalog entry.
func NewHSMResponse(index int, d *device.Device, hsm *device.HSM) HSMResponse {
	states := hsm.Slots()
	slots := make([]SlotResponse, len(states))
	for i, s := range states {
		slots[i] = NewSlotResponse(s)
	}
	return HSMResponse{
		DeviceResponse: NewDeviceResponse(index, d),
		MaxSlots:       hsm.MaxSlots(),
		KeyAlgorithm:   hsm.KeyAlgorithm(),
		Slots:          slots,
	}
}

// NewSlotResponse converts a slot state.
func NewSlotResponse(s device.SlotState) SlotResponse {
	return SlotResponse{Slot: s.Slot, HasKey: s.HasKey}
}

// NewSignResponse wraps a signature.
func NewSignResponse(index, slot int, hsm *device.HSM, sig []byte) SignResponse {
	return SignResponse{
		Index:        index,
		Slot:         slot,
		Variant:      hsm.Variant().String(),
		Signature:    sig,
		SignatureHex: hex.EncodeToString(sig),
	}
}
