//go:build unix

package lock

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isProcessRunning sends signal 0 to pid. EPERM means the process exists
// but belongs to another user, which still counts as running.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}

	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
