//go:build unix

package proc

import "syscall"

// detachAttr places the child in its own process group so daemon signals
// do not propagate to in-flight transcriptions.
func detachAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}
