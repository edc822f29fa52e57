//go:build windows

package process

import (
	"os"
	"os/exec"
)

// Isolate is a no-op on Windows; Kill only reaches the direct child.
func Isolate(cmd *exec.Cmd) {}

func killGroup(pid int) {}

func alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	p.Release()
	return true
}
