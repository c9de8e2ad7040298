// Package mocks provides mock implementations of interfaces for testing.
// These follow Go best practices for test doubles.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spectral/spectral/pkg/interfaces"
	"github.com/spectral/spectral/pkg/types"
)

// MockCommandClient is a mock implementation of CommandClient for testing
type MockCommandClient struct {
	mu sync.Mutex

	// Behavior knobs
	ExistErr         error
	VisibleErr       error
	LoadedErr        error
	WindowHandlesVal []string
	WindowHandlesErr error
	FocusErr         error
	VisibleAfter     int // WaitUntil polls before IsWindowVisible turns true
	ScreenshotErr    error
	MainLogs         []string
	MainLogsErr      error
	RenderLogs       []string
	RenderLogsErr    error

	// Per-attempt scripting: consumed front-to-back by element waits.
	// nil entries mean success.
	ExistScript   []error
	VisibleScript []error

	// Recorded calls
	ExistCalls   []WaitCall
	VisibleCalls []WaitCall
	FocusCalls   []int
	Screenshots  []string
	visiblePolls int
}

// WaitCall records one element-wait invocation
type WaitCall struct {
	Selector string
	Timeout  time.Duration
	Reverse  bool
}

// NewMockCommandClient creates a new mock command client
func NewMockCommandClient() *MockCommandClient {
	return &MockCommandClient{
		WindowHandlesVal: []string{"window-0"},
	}
}

// WaitForExist waits for an element to exist
func (m *MockCommandClient) WaitForExist(ctx context.Context, selector string, timeout time.Duration, reverse bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistCalls = append(m.ExistCalls, WaitCall{selector, timeout, reverse})
	if len(m.ExistScript) > 0 {
		err := m.ExistScript[0]
		m.ExistScript = m.ExistScript[1:]
		return err
	}
	return m.ExistErr
}

// WaitForVisible waits for an element to become visible
func (m *MockCommandClient) WaitForVisible(ctx context.Context, selector string, timeout time.Duration, reverse bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VisibleCalls = append(m.VisibleCalls, WaitCall{selector, timeout, reverse})
	if len(m.VisibleScript) > 0 {
		err := m.VisibleScript[0]
		m.VisibleScript = m.VisibleScript[1:]
		return err
	}
	return m.VisibleErr
}

// WaitUntilWindowLoaded waits for the window content to finish loading
func (m *MockCommandClient) WaitUntilWindowLoaded(ctx context.Context, timeout time.Duration) error {
	return m.LoadedErr
}

// WaitUntil polls pred until it returns true or timeout elapses.
// The mock polls without real delays; "timeout" means the predicate
// never turned true within a bounded number of polls.
func (m *MockCommandClient) WaitUntil(ctx context.Context, pred interfaces.Predicate, timeout time.Duration) error {
	const maxPolls = 100
	for i := 0; i < maxPolls; i++ {
		ok, err := pred(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return types.NewTimeoutError(types.TimeoutKindWaitUntil, "predicate never satisfied", timeout)
}

// WindowHandles returns the ordered window handles
func (m *MockCommandClient) WindowHandles(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.WindowHandlesVal, m.WindowHandlesErr
}

// FocusWindow switches focus to the window at index
func (m *MockCommandClient) FocusWindow(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FocusErr != nil {
		return m.FocusErr
	}
	if index < 0 || index >= len(m.WindowHandlesVal) {
		return fmt.Errorf("no window at index %d", index)
	}
	m.FocusCalls = append(m.FocusCalls, index)
	return nil
}

// IsWindowVisible reports whether the focused window is visible
func (m *MockCommandClient) IsWindowVisible(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.visiblePolls++
	return m.visiblePolls > m.VisibleAfter, nil
}

// MainProcessLogs returns main process log entries
func (m *MockCommandClient) MainProcessLogs(ctx context.Context) ([]string, error) {
	return m.MainLogs, m.MainLogsErr
}

// RenderProcessLogs returns renderer process log entries
func (m *MockCommandClient) RenderProcessLogs(ctx context.Context) ([]string, error) {
	return m.RenderLogs, m.RenderLogsErr
}

// SaveScreenshot captures a screenshot to path
func (m *MockCommandClient) SaveScreenshot(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ScreenshotErr != nil {
		return m.ScreenshotErr
	}
	m.Screenshots = append(m.Screenshots, path)
	return nil
}

// MockSessionDriver is a mock implementation of SessionDriver for testing
type MockSessionDriver struct {
	mu sync.Mutex

	Client   *MockCommandClient
	StartErr error
	StopErr  error
	// StayRunning keeps IsRunning true after Stop, for invariant tests
	StayRunning bool
	PidVal      int
	SettingsVal types.SessionSettings

	running    bool
	StartCalls int
	StopCalls  int
}

// NewMockSessionDriver creates a mock driver wrapping client
func NewMockSessionDriver(client *MockCommandClient) *MockSessionDriver {
	return &MockSessionDriver{
		Client: client,
		PidVal: 4242,
	}
}

// Start spawns the fake session
func (m *MockSessionDriver) Start(ctx context.Context) (interfaces.CommandClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StartCalls++
	if m.StartErr != nil {
		return nil, m.StartErr
	}
	m.running = true
	return m.Client, nil
}

// Stop terminates the fake session
func (m *MockSessionDriver) Stop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCalls++
	if m.StopErr != nil {
		return m.StopErr
	}
	if !m.StayRunning {
		m.running = false
	}
	return nil
}

// IsRunning reports whether the fake session runs
func (m *MockSessionDriver) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Pid returns the fake process id
func (m *MockSessionDriver) Pid() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return 0
	}
	return m.PidVal
}

// Settings returns the configured log paths
func (m *MockSessionDriver) Settings() types.SessionSettings {
	return m.SettingsVal
}

// MockNotifier records notifications for testing
type MockNotifier struct {
	mu sync.Mutex

	Successes   []string
	Failures    []string
	Diagnostics []string
}

// NewMockNotifier creates a new mock notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// NotifyLaunchSuccess records a launch success
func (m *MockNotifier) NotifyLaunchSuccess(sessionID string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Successes = append(m.Successes, sessionID)
}

// NotifyLaunchFailure records a launch failure
func (m *MockNotifier) NotifyLaunchFailure(sessionID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures = append(m.Failures, sessionID)
}

// NotifyDiagnosticsWritten records a diagnostics notice
func (m *MockNotifier) NotifyDiagnosticsWritten(sessionID string, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Diagnostics = append(m.Diagnostics, path)
}
