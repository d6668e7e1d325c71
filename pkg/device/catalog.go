package device

import "fmt"

// Spec describes one device to build into a catalog.
type Spec struct {
	Category    Category
	HSMVariant  HSMVariant  // used when Category is CategoryHSM
	FIDOVariant FIDOVariant // used when Category is CategoryFIDO
	OS          OS
	Name        string

	// Provisioned lists HSM slots that already hold a key at construction.
	Provisioned []int
}

// Build creates the device described by the spec.
func (s Spec) Build() (*Device, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Category == CategoryFIDO {
		if len(s.Provisioned) > 0 {
			return nil, fmt.Errorf("FIDO device cannot have provisioned slots: %w", ErrTypeMismatch)
		}
		return NewFIDODevice(s.FIDOVariant, s.OS, s.Name), nil
	}

	d := NewHSMDevice(s.HSMVariant, s.OS, s.Name)
	for _, slot := range s.Provisioned {
		if err := d.hsm.GenerateKey(slot); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Validate checks that category, variant and OS are known values.
func (s Spec) Validate() error {
	if _, ok := osNames[s.OS]; !ok {
		return fmt.Errorf("unknown device OS %d: %w", uint8(s.OS), ErrInvalidSpec)
	}
	switch s.Category {
	case CategoryHSM:
		if s.HSMVariant.MaxSlots() == 0 {
			return fmt.Errorf("unknown HSM variant %d: %w", uint8(s.HSMVariant), ErrInvalidSpec)
		}
	case CategoryFIDO:
		if s.FIDOVariant != FIDOOne && s.FIDOVariant != FIDOTwo {
			return fmt.Errorf("unknown FIDO variant %d: %w", uint8(s.FIDOVariant), ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("unknown device category %d: %w", uint8(s.Category), ErrInvalidSpec)
	}
	return nil
}

// DefaultSpecs returns the reference fleet:
//
//	0  USB HSM     bare-metal
//	1  SERVER HSM  linux       "TUX"
//	2  SERVER HSM  windoof
//	3  FIDO TWO    linux       "Fido the Second"
//	4  FIDO ONE    windoof
//	5  FIDO ONE    bare-metal
func DefaultSpecs() []Spec {
	return []Spec{
		{Category: CategoryHSM, HSMVariant: HSMUSB, OS: OSBareMetal},
		{Category: CategoryHSM, HSMVariant: HSMServer, OS: OSLinux, Name: "TUX"},
		{Category: CategoryHSM, HSMVariant: HSMServer, OS: OSWinDoof},
		{Category: CategoryFIDO, FIDOVariant: FIDOTwo, OS: OSLinux, Name: "Fido the Second"},
		{Category: CategoryFIDO, FIDOVariant: FIDOOne, OS: OSWinDoof},
		{Category: CategoryFIDO, FIDOVariant: FIDOOne, OS: OSBareMetal},
	}
}

// Catalog is an ordered, fixed-size fleet of devices. The device list is
// immutable after construction and safe for concurrent reads; per-slot key
// state lives in each HSM and is shared by every lookup of the same index.
type Catalog struct {
	devices []*Device
}

// NewCatalog builds a catalog holding one device per spec, in order.
func NewCatalog(specs ...Spec) (*Catalog, error) {
	devices := make([]*Device, 0, len(specs))
	for i, s := range specs {
		d, err := s.Build()
		if err != nil {
			return nil, fmt.Errorf("device %d: %w", i, err)
		}
		devices = append(devices, d)
	}
	return &Catalog{devices: devices}, nil
}

// NewDefaultCatalog builds a catalog holding the reference fleet.
func NewDefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultSpecs()...)
	if err != nil {
		panic(err) // the reference fleet is static
	}
	return c
}

// Len returns the number of devices.
func (c *Catalog) Len() int { return len(c.devices) }

// List returns the devices in construction order. The slice is fresh; the
// devices are shared with the catalog.
func (c *Catalog) List() []*Device {
	out := make([]*Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// Get returns the device at index.
func (c *Catalog) Get(index int) (*Device, error) {
	if index < 0 || index >= len(c.devices) {
		return nil, newIndexError("get", index, ErrNotFound)
	}
	return c.devices[index], nil
}

// GetHSM returns the HSM capability of the device at index. It fails with
// ErrTypeMismatch when that device is not an HSM.
func (c *Catalog) GetHSM(index int) (*HSM, error) {
	if index < 0 || index >= len(c.devices) {
		return nil, newIndexError("get-hsm", index, ErrNotFound)
	}
	hsm, ok := c.devices[index].HSM()
	if !ok {
		return nil, newIndexError("get-hsm", index, ErrTypeMismatch)
	}
	return hsm, nil
}

// GetOnOS returns the device at index only if it runs os.
func (c *Catalog) GetOnOS(index int, os OS) (*Device, error) {
	d, err := c.Get(index)
	if err != nil {
		return nil, err
	}
	if d.OS() != os {
		return nil, newIndexError("get", index,
			fmt.Errorf("%w: %s instead of %s", ErrWrongOS, d.OS(), os))
	}
	return d, nil
}
