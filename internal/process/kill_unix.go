//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// SetProcessGroup places the command in its own process group so that
// KillProcessGroup can terminate it together with any children it spawns.
func SetProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort cleanup; the caller's Wait reports the outcome
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
