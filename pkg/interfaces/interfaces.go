// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"context"
	"time"

	"github.com/spectral/spectral/pkg/types"
)

// SessionDriver abstracts the process/session driver that spawns the
// application under test and owns its automation command channel.
type SessionDriver interface {
	// Start spawns the target process and opens the command channel.
	Start(ctx context.Context) (CommandClient, error)

	// Stop terminates the spawned process and closes the channel.
	Stop(ctx context.Context) error

	// IsRunning reports whether the spawned process is alive.
	IsRunning() bool

	// Pid returns the spawned process id, or 0 before Start.
	Pid() int

	// Settings returns the configured driver-subsystem log paths.
	Settings() types.SessionSettings
}

// DriverFactory builds a driver bound to a session configuration.
type DriverFactory func(cfg types.SessionConfig) SessionDriver

// Predicate is a condition checked by CommandClient.WaitUntil.
type Predicate func(ctx context.Context) (bool, error)

// CommandClient is the automation command channel attached once a
// session has started. Wait-style commands fail with
// *types.TimeoutError when their deadline elapses.
type CommandClient interface {
	WaitForExist(ctx context.Context, selector string, timeout time.Duration, reverse bool) error
	WaitForVisible(ctx context.Context, selector string, timeout time.Duration, reverse bool) error
	WaitUntilWindowLoaded(ctx context.Context, timeout time.Duration) error
	WaitUntil(ctx context.Context, pred Predicate, timeout time.Duration) error

	WindowHandles(ctx context.Context) ([]string, error)
	FocusWindow(ctx context.Context, index int) error
	IsWindowVisible(ctx context.Context) (bool, error)

	MainProcessLogs(ctx context.Context) ([]string, error)
	RenderProcessLogs(ctx context.Context) ([]string, error)
	SaveScreenshot(ctx context.Context, path string) error
}

// ClientSetup lets callers register extra behavior against the command
// client at launch time, before any readiness check runs.
type ClientSetup func(client CommandClient) error

// LaunchNotifier handles desktop notifications for session events
type LaunchNotifier interface {
	NotifyLaunchSuccess(sessionID string, duration time.Duration)
	NotifyLaunchFailure(sessionID string, err error)
	NotifyDiagnosticsWritten(sessionID string, path string)
}

// FileSystem provides the file operations diagnostics depends on
type FileSystem interface {
	Exists(path string) bool
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	RemoveFile(path string) error
	ReadAndRemove(path string) ([]byte, error)
}
