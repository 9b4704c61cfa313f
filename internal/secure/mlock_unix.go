//go:build !windows

package secure

import "golang.org/x/sys/unix"

// mlock attempts to lock data's pages into physical memory, preventing
// the secret from reaching swap. Best-effort: returns false rather than
// an error if the OS denies the request.
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
