//go:build cgo

package hsmprobe

import (
	"fmt"

	"github.com/miekg/pkcs11"
)

// ListSlots lists the slots of the PKCS#11 module at modulePath.
func ListSlots(modulePath string) (*ModuleInfo, error) {
	if modulePath == "" {
		return nil, ErrModulePathRequired
	}

	ctx := pkcs11.New(modulePath)
	if ctx == nil {
		return nil, fmt.Errorf("failed to load PKCS#11 module: %s", modulePath)
	}
	defer ctx.Destroy()

	if err := ctx.Initialize(); err != nil {
		if p11err, ok := err.(pkcs11.Error); !ok || p11err != pkcs11.CKR_CRYPTOKI_ALREADY_INITIALIZED {
			return nil, fmt.Errorf("failed to initialize: %w", err)
		}
	}
	// Finalize is process-wide; other users of the module may still hold sessions.

	slots, err := ctx.GetSlotList(false)
	if err != nil {
		return nil, fmt.Errorf("failed to get slot list: %w", err)
	}

	info := &ModuleInfo{
		ModulePath: modulePath,
		Slots:      make([]SlotInfo, 0, len(slots)),
	}
	for _, slot := range slots {
		slotInfo, err := ctx.GetSlotInfo(slot)
		if err != nil {
			continue
		}

		si := SlotInfo{
			ID:          slot,
			Description: slotInfo.SlotDescription,
			HasToken:    slotInfo.Flags&pkcs11.CKF_TOKEN_PRESENT != 0,
		}
		if si.HasToken {
			if tokenInfo, err := ctx.GetTokenInfo(slot); err == nil {
				si.TokenLabel = tokenInfo.Label
				si.TokenSerial = tokenInfo.SerialNumber
				si.Manufacturer = tokenInfo.ManufacturerID
			}
		}
		info.Slots = append(info.Slots, si)
	}

	return info, nil
}
