// Package types provides core types and configurations for Spectral
package types

import (
	"fmt"
	"time"
)

// SessionState represents the lifecycle state of an application session
type SessionState string

const (
	SessionStateCreated   SessionState = "created"
	SessionStateLaunching SessionState = "launching"
	SessionStateReady     SessionState = "ready"
	SessionStateQuitting  SessionState = "quitting"
	SessionStateQuit      SessionState = "quit"
	SessionStateFailed    SessionState = "failed"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

const (
	// DefaultTimeout is the short per-attempt wait budget used by
	// element polling when no explicit timeout is given.
	DefaultTimeout = 1 * time.Second

	// LongTimeout is the fixed budget for window-readiness checks
	// (window visible, window loaded) during launch.
	LongTimeout = 30 * time.Second
)

// Schedule is an ordered, fixed sequence of per-attempt timeouts used
// by the progressive wait engine. It must be non-empty and
// monotonically non-decreasing; the final element is both the maximum
// single-attempt timeout and the last-attempt signal.
type Schedule []time.Duration

// Validate checks the schedule invariants.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule must have at least one entry")
	}
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return fmt.Errorf("schedule must be non-decreasing: entry %d (%s) < entry %d (%s)",
				i, s[i], i-1, s[i-1])
		}
	}
	return nil
}

// Terminal returns the schedule's final timeout.
func (s Schedule) Terminal() time.Duration {
	return s[len(s)-1]
}

// SessionConfig describes how the automation session spawns the
// application under test. It is assembled by the harness and handed
// to the driver; the driver never re-derives any of these values.
type SessionConfig struct {
	// BinaryPath is the GUI runtime executable (the Electron binary).
	BinaryPath string `json:"binaryPath" yaml:"binaryPath"`

	// Args are the launch arguments; the first entry is the
	// application root directory.
	Args []string `json:"args" yaml:"args"`

	// Env is the full environment for the spawned process.
	Env []string `json:"-" yaml:"-"`

	// WorkingDir is the working directory of the spawned process.
	WorkingDir string `json:"workingDir" yaml:"workingDir"`

	Settings SessionSettings `json:"settings" yaml:"settings"`
}

// SessionSettings carries the log-file paths of the two driver
// subsystems. They are written by the driver and consumed (read then
// removed) by diagnostic reporting.
type SessionSettings struct {
	ChromeDriverLogPath string `json:"chromeDriverLogPath" yaml:"chromeDriverLogPath"`
	WebDriverLogPath    string `json:"webDriverLogPath" yaml:"webDriverLogPath"`
}

// TimeoutKind distinguishes which wait primitive timed out.
type TimeoutKind string

const (
	// TimeoutKindWaitFor marks element waits (exist, visible).
	TimeoutKindWaitFor TimeoutKind = "wait-for"
	// TimeoutKindWaitUntil marks generic predicate waits.
	TimeoutKindWaitUntil TimeoutKind = "wait-until"
)

// TimeoutError is the typed failure returned when a wait-style
// command's deadline elapses without the condition becoming true. It
// is the only failure cause the progressive wait engine retries.
type TimeoutError struct {
	Kind    TimeoutKind
	Detail  string
	Timeout time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s timed out after %s", e.Kind, e.Timeout)
	}
	return fmt.Sprintf("%s timed out after %s: %s", e.Kind, e.Timeout, e.Detail)
}

// NewTimeoutError creates a timeout failure for a wait command.
func NewTimeoutError(kind TimeoutKind, detail string, timeout time.Duration) *TimeoutError {
	return &TimeoutError{Kind: kind, Detail: detail, Timeout: timeout}
}
