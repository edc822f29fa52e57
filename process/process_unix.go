//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate places cmd in its own process group so Kill can also reach
// any grandchildren the server spawns (npx wrappers, shells).
func Isolate(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

func killGroup(pid int) {
	// ESRCH just means the group is already gone.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || err == syscall.EPERM
}
