//go:build unix

package wm

import (
	"os"
	"syscall"
)

// spawnDetached forks and execs path with argv in a new session, with
// stdin, stdout and stderr inherited, and signal mask reset so
// the child does not inherit the compositor's dispositions.
func spawnDetached(path string, argv []string) (int, error) {
	attr := &syscall.ProcAttr{
		Env:   os.Environ(),
		Files: []uintptr{0, 1, 2},
		Sys: &syscall.SysProcAttr{
			Setsid: true,
		},
	}
	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		return 0, err
	}
	return pid, nil
}

// ReapChildren non-blockingly waits for any exited children. Call this
// from the event loop's SIGCHLD handler.
func ReapChildren() {
	for {
		var status syscall.WaitStatus
		pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
	}
}
