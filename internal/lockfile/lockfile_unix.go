//go:build !windows

package lockfile

import (
	"errors"
	"os"
	"syscall"
)

// isProcessRunning probes pid with signal 0.
func isProcessRunning(pid int) (bool, string) {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false, "owner not found"
	}

	err = process.Signal(syscall.Signal(0))
	switch {
	case err == nil:
		return true, ""
	case errors.Is(err, syscall.EPERM):
		// exists, owned by someone else
		return true, ""
	case errors.Is(err, os.ErrProcessDone):
		return false, "owner has exited"
	default:
		return false, "owner cannot be signalled"
	}
}
