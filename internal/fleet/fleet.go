// Package fleet loads fleet inventories from YAML.
//
// A fleet file lists devices in catalog order:
//
//	devices:
//	  - category: hsm
//	    variant: usb
//	    os: bare-metal
//	    provisioned: [1]
//	  - category: fido
//	    variant: two
//	    os: linux
//	    name: Fido the Second
package fleet

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/device-registry/pkg/device"
)

// Config represents the YAML fleet inventory.
type Config struct {
	Devices []Entry `yaml:"devices"`
}

// Entry is one device of the inventory.
type Entry struct {
	Category    string `yaml:"category"`
	Variant     string `yaml:"variant"`
	OS          string `yaml:"os"`
	Name        string `yaml:"name,omitempty"`
	Provisioned []int  `yaml:"provisioned,omitempty"`
}

// Load reads and validates a fleet file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fleet file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates fleet YAML.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fleet file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fleet file: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every entry names a known device.
func (c *Config) Validate() error {
	if len(c.Devices) == 0 {
		return fmt.Errorf("devices: at least one device is required")
	}
	for i, e := range c.Devices {
		if _, err := e.Spec(); err != nil {
			return fmt.Errorf("devices[%d]: %w", i, err)
		}
	}
	return nil
}

// Spec converts the entry into a device spec.
func (e Entry) Spec() (device.Spec, error) {
	category, err := device.ParseCategory(e.Category)
	if err != nil {
		return device.Spec{}, err
	}
	osv, err := device.ParseOS(e.OS)
	if err != nil {
		return device.Spec{}, err
	}

	spec := device.Spec{
		Category:    category,
		OS:          osv,
		Name:        e.Name,
		Provisioned: e.Provisioned,
	}

	switch category {
	case device.CategoryHSM:
		v, err := device.ParseHSMVariant(e.Variant)
		if err != nil {
			return device.Spec{}, err
		}
		spec.HSMVariant = v
		for _, slot := range e.Provisioned {
			if slot < 1 || slot > v.MaxSlots() {
				return device.Spec{}, fmt.Errorf("provisioned slot %d out of range [1, %d]", slot, v.MaxSlots())
			}
		}
	case device.CategoryFIDO:
		v, err := device.ParseFIDOVariant(e.Variant)
		if err != nil {
			return device.Spec{}, err
		}
		spec.FIDOVariant = v
		if len(e.Provisioned) > 0 {
			return device.Spec{}, fmt.Errorf("provisioned slots are only valid for hsm devices")
		}
	}

	return spec, nil
}

// Specs returns the device specs in inventory order.
func (c *Config) Specs() ([]device.Spec, error) {
	specs := make([]device.Spec, 0, len(c.Devices))
	for i, e := range c.Devices {
		s, err := e.Spec()
		if err != nil {
			return nil, fmt.Errorf("devices[%d]: %w", i, err)
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// Catalog builds a catalog from the inventory.
func (c *Config) Catalog() (*device.Catalog, error) {
	specs, err := c.Specs()
	if err != nil {
		return nil, err
	}
	return device.NewCatalog(specs...)
}

// OpenCatalog builds a catalog from the fleet file at path, or the
// reference fleet when path is empty.
func OpenCatalog(path string) (*device.Catalog, error) {
	if path == "" {
		return device.NewDefaultCatalog(), nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return cfg.Catalog()
}

// Default returns the reference fleet as an inventory.
func Default() *Config {
	specs := device.DefaultSpecs()
	cfg := &Config{Devices: make([]Entry, 0, len(specs))}
	for _, s := range specs {
		e := Entry{
			Category:    s.Category.String(),
			OS:          s.OS.String(),
			Name:        s.Name,
			Provisioned: s.Provisioned,
		}
		switch s.Category {
		case device.CategoryHSM:
			e.Variant = s.HSMVariant.String()
		case device.CategoryFIDO:
			e.Variant = s.FIDOVariant.String()
		}
		cfg.Devices = append(cfg.Devices, e)
	}
	return cfg
}

// Marshal encodes the inventory as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
