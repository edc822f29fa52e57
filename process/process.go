// Package process provides helpers for tearing down child processes.
package process

import (
	"errors"
	"os"
)

// Kill forcibly stops p and everything in its process group. It touches no
// exec.Cmd state, so it may run while another goroutine is in cmd.Wait.
// Killing a process that already exited, or a nil process, is not an error.
// The caller must know p has not been reaped yet: the group kill goes by pid.
func Kill(p *os.Process) error {
	if p == nil {
		return nil
	}

	killGroup(p.Pid)

	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Alive reports whether a process with the given pid exists. A process that
// has exited but not been reaped by its parent still counts as alive.
func Alive(pid int) bool {
	if pid <= 0 {
		return false
	}
	return alive(pid)
}
