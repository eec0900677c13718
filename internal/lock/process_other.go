//go:build !unix

package lock

import "os"

// isProcessRunning is only reachable on platforms New already rejects.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	_, err := os.FindProcess(pid)
	return err == nil
}
