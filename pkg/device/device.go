// Package device models a fleet of hardware-backed cryptographic devices.
//
// Devices are classified by a closed two-level taxonomy:
//
//	HSM  -> USB, SERVER   (slot-indexed keys, signing)
//	FIDO -> ONE, TWO      (classification only)
//
// HSM devices hold one key-present flag per slot. Signing a slot requires
// that a key was generated there first. Signatures are fixed placeholder
// byte sequences, not cryptography.
package device

import (
	"fmt"
	"strings"
)

// Category is the top-level device classification.
type Category uint8

const (
	CategoryHSM Category = iota
	CategoryFIDO
)

var categoryNames = map[Category]string{
	CategoryHSM:  "hsm",
	CategoryFIDO: "fido",
}

// String returns the text form of the category.
func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", uint8(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("unknown device category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown device category: %q", s)
}

// OS is the operating system a device runs. It is descriptive only.
type OS uint8

const (
	OSBareMetal OS = iota
	OSLinux
	OSWinDoof
)

var osNames = map[OS]string{
	OSBareMetal: "bare-metal",
	OSLinux:     "linux",
	OSWinDoof:   "windoof",
}

// String returns the text form of the OS.
func (o OS) String() string {
	if s, ok := osNames[o]; ok {
		return s
	}
	return fmt.Sprintf("os(%d)", uint8(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o OS) MarshalText() ([]byte, error) {
	if _, ok := osNames[o]; !ok {
		return nil, fmt.Errorf("unknown device OS %d", uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OS) UnmarshalText(text []byte) error {
	v, err := ParseOS(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOS parses an OS name (case-insensitive). "baremetal" is accepted as
// an alias of "bare-metal".
func ParseOS(s string) (OS, error) {
	if strings.EqualFold(s, "baremetal") {
		return OSBareMetal, nil
	}
	for o, name := range osNames {
		if strings.EqualFold(s, name) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown device OS: %q", s)
}

// FIDOVariant is the concrete model of a FIDO authenticator.
type FIDOVariant uint8

const (
	FIDOOne FIDOVariant = iota
	FIDOTwo
)

// String returns the text form of the variant.
func (v FIDOVariant) String() string {
	switch v {
	case FIDOOne:
		return "one"
	case FIDOTwo:
		return "two"
	}
	return fmt.Sprintf("fido(%d)", uint8(v))
}

// ParseFIDOVariant parses a FIDO variant name (case-insensitive).
func ParseFIDOVariant(s string) (FIDOVariant, error) {
	switch strings.ToLower(s) {
	case "one":
		return FIDOOne, nil
	case "two":
		return FIDOTwo, nil
	}
	return 0, fmt.Errorf("unknown FIDO variant: %q", s)
}

// Identity is the immutable description of a device.
type Identity struct {
	Category Category
	OS       OS
	Name     string // optional display name
}

// Device is one entry of the fleet. Exactly one of hsm or fido is
// meaningful, selected by the identity's category.
type Device struct {
	identity Identity
	hsm      *HSM
	fido     FIDOVariant
}

// NewHSMDevice creates an HSM device with all slots unprovisioned.
func NewHSMDevice(variant HSMVariant, os OS, name string) *Device {
	return &Device{
		identity: Identity{Category: CategoryHSM, OS: os, Name: name},
		hsm:      newHSM(variant),
	}
}

// NewFIDODevice creates a FIDO authenticator.
func NewFIDODevice(variant FIDOVariant, os OS, name string) *Device {
	return &Device{
		identity: Identity{Category: CategoryFIDO, OS: os, Name: name},
		fido:     variant,
	}
}

// Identity returns the device identity.
func (d *Device) Identity() Identity { return d.identity }

// Category returns the device category.
func (d *Device) Category() Category { return d.identity.Category }

// OS returns the device operating system.
func (d *Device) OS() OS { return d.identity.OS }

// Name returns the display name, possibly empty.
func (d *Device) Name() string { return d.identity.Name }

// Variant returns the text form of the concrete variant ("usb", "server",
// "one", "two").
func (d *Device) Variant() string {
	switch d.identity.Category {
	case CategoryHSM:
		return d.hsm.variant.String()
	case CategoryFIDO:
		return d.fido.String()
	}
	return ""
}

// HSM returns the HSM capability of the device. ok is false for FIDO
// devices.
func (d *Device) HSM() (hsm *HSM, ok bool) {
	switch d.identity.Category {
	case CategoryHSM:
		return d.hsm, true
	default:
		return nil, false
	}
}

// FIDO returns the FIDO variant of the device. ok is false for HSMs.
func (d *Device) FIDO() (variant FIDOVariant, ok bool) {
	switch d.identity.Category {
	case CategoryFIDO:
		return d.fido, true
	default:
		return 0, false
	}
}

// String returns a short human-readable description.
func (d *Device) String() string {
	s := fmt.Sprintf("%s/%s on %s", d.identity.Category, d.Variant(), d.identity.OS)
	if d.identity.Name != "" {
		s += fmt.Sprintf(" (%s)", d.identity.Name)
	}
	return s
}
