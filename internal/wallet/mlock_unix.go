//go:build !windows

package wallet

import (
	"golang.org/x/sys/unix"
)

// mlock pins data in RAM. It returns false when the call is refused, which
// is common under a low RLIMIT_MEMLOCK.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return unix.Mlock(data) == nil
}

func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Munlock(data)
}
