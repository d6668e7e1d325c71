//go:build !cgo

package hsmprobe

import "fmt"

// errNoCGO is returned when PKCS#11 discovery is attempted without CGO.
var errNoCGO = fmt.Errorf("HSM support requires CGO (build with CGO_ENABLED=1)")

// ListSlots lists the slots of the PKCS#11 module at modulePath.
// This stub returns an error when CGO is not available.
func ListSlots(modulePath string) (*ModuleInfo, error) {
	if modulePath == "" {
		return nil, ErrModulePathRequired
	}
	return nil, errNoCGO
}
