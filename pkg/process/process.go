// Package process provides process inspection utilities
package process

import (
	"os"
	"syscall"
	"time"
)

// Info represents information about a running process
type Info struct {
	PID       int
	IsRunning bool
	CheckedAt time.Time
}

// IsAlive reports whether a process with the given pid exists and
// accepts signals.
func IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// GetInfo returns liveness information about a process
func GetInfo(pid int) *Info {
	return &Info{
		PID:       pid,
		IsRunning: IsAlive(pid),
		CheckedAt: time.Now(),
	}
}

// Terminate stops a process, trying graceful shutdown before force kill
func Terminate(pid int, grace time.Duration) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	// Try graceful shutdown first
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		// Force kill if graceful fails
		return proc.Kill()
	}

	// Wait a bit for graceful shutdown
	time.Sleep(grace)

	// Check if still running
	if err := proc.Signal(syscall.Signal(0)); err == nil {
		// Still running, force kill
		return proc.Kill()
	}

	return nil
}
