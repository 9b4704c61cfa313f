//go:build windows

package secure

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mlock locks data's pages via VirtualLock. Best-effort, matching the
// unix implementation's "never fail the caller" contract.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	return windows.VirtualLock(addr, uintptr(len(data))) == nil
}

func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	_ = windows.VirtualUnlock(addr, uintptr(len(data)))
}
