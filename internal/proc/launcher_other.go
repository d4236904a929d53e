//go:build !unix

package proc

import "syscall"

func detachAttr() *syscall.SysProcAttr {
	return nil
}
