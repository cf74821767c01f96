package cmd

import "syscall"

// newSysProcAttr detaches the forked server from the launching terminal's
// process group, so a later SIGHUP to the shell doesn't also kill it.
func newSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
