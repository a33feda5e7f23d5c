//go:build windows

package wallet

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mlock pins data in the working set. It returns false when VirtualLock
// refuses, for example when the working set quota is exhausted.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data))) == nil
}

func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}
