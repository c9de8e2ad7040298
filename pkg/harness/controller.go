// Package harness owns the lifecycle of an application under test
package harness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spectral/spectral/pkg/diagnostics"
	"github.com/spectral/spectral/pkg/interfaces"
	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/types"
	"github.com/spectral/spectral/pkg/utils"
	"github.com/spectral/spectral/pkg/wait"
	"github.com/spectral/spectral/pkg/watchdog"
)

// stateDirName holds per-session artifacts under the filesystem root.
const stateDirName = ".spectral"

// Controller owns one automation session: it launches the application
// under the driver, waits for the main window to become interactive,
// and tears the session down again. One controller per session; two
// controllers share no state.
type Controller struct {
	sessionID string
	rootDir   string
	appRoot   string

	electronPath  string
	driverFactory interfaces.DriverFactory

	driver interfaces.SessionDriver
	client interfaces.CommandClient
	waiter *wait.Waiter

	schedule    types.Schedule
	longTimeout time.Duration

	log      logger.Logger
	notifier interfaces.LaunchNotifier
	fs       interfaces.FileSystem

	followLogs bool
	followers  []*diagnostics.LogFollower

	state types.SessionState
	mu    sync.Mutex
}

// Option configures a Controller
type Option func(*Controller)

// WithAppRoot sets the application root directory (defaults to the
// filesystem root).
func WithAppRoot(dir string) Option {
	return func(c *Controller) { c.appRoot = dir }
}

// WithDriverFactory sets the factory that binds the session driver to
// the controller's session configuration.
func WithDriverFactory(factory interfaces.DriverFactory) Option {
	return func(c *Controller) { c.driverFactory = factory }
}

// WithElectronPath overrides GUI runtime executable resolution.
func WithElectronPath(path string) Option {
	return func(c *Controller) { c.electronPath = path }
}

// WithLogger sets the controller's logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithNotifier enables desktop notifications for session events.
func WithNotifier(n interfaces.LaunchNotifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithSchedule overrides the progressive wait schedule.
func WithSchedule(schedule types.Schedule) Option {
	return func(c *Controller) { c.schedule = schedule }
}

// WithLongTimeout overrides the window-readiness budget.
func WithLongTimeout(d time.Duration) Option {
	return func(c *Controller) { c.longTimeout = d }
}

// WithFileSystem overrides file access (for testing).
func WithFileSystem(fs interfaces.FileSystem) Option {
	return func(c *Controller) { c.fs = fs }
}

// WithLogStreaming streams driver log lines to the session logger
// while the session runs.
func WithLogStreaming() Option {
	return func(c *Controller) { c.followLogs = true }
}

// New creates a controller rooted at rootDir. The session is
// configured but not started; call Launch to spawn the application.
func New(rootDir string, opts ...Option) *Controller {
	c := &Controller{
		sessionID:   fmt.Sprintf("%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8]),
		rootDir:     rootDir,
		schedule:    wait.DefaultSchedule,
		longTimeout: types.LongTimeout,
		fs:          utils.NewFileSystemUtils(),
		state:       types.SessionStateCreated,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.appRoot == "" {
		c.appRoot = rootDir
	}
	if c.log == nil {
		c.log = logger.CreateLogger("", "info").WithSession(c.sessionID)
	}
	if c.driverFactory != nil {
		c.driver = c.driverFactory(c.SessionConfig())
	}
	return c
}

// SessionID returns the controller's unique session identifier.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// State returns the current lifecycle state.
func (c *Controller) State() types.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Client returns the attached command client, or nil before launch.
func (c *Controller) Client() interfaces.CommandClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Waiter returns the readiness waiter, or nil before launch.
func (c *Controller) Waiter() *wait.Waiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waiter
}

// SessionConfig builds the session configuration the driver is bound
// to: the GUI runtime executable, launch arguments naming the app
// root, the inherited environment, the app root as working directory,
// and the two per-session driver log paths.
func (c *Controller) SessionConfig() types.SessionConfig {
	stateDir := filepath.Join(c.rootDir, stateDirName)
	return types.SessionConfig{
		BinaryPath: c.resolveElectron(),
		Args:       []string{c.appRoot},
		Env:        os.Environ(),
		WorkingDir: c.appRoot,
		Settings: types.SessionSettings{
			ChromeDriverLogPath: filepath.Join(stateDir, fmt.Sprintf("chromedriver_%s.log", c.sessionID)),
			WebDriverLogPath:    filepath.Join(stateDir, fmt.Sprintf("webdriver_%s.log", c.sessionID)),
		},
	}
}

// resolveElectron locates the GUI runtime executable: an explicit
// override first, then node_modules/.bin/electron under the app root,
// then $PATH.
func (c *Controller) resolveElectron() string {
	if c.electronPath != "" {
		return c.electronPath
	}
	appRoot := c.appRoot
	if appRoot == "" {
		appRoot = c.rootDir
	}
	local := filepath.Join(appRoot, "node_modules", ".bin", "electron")
	if _, err := os.Stat(local); err == nil {
		return local
	}
	if path, err := exec.LookPath("electron"); err == nil {
		return path
	}
	return "electron"
}

// Launch starts the automation session, selects the content window,
// and waits for it to be visible and fully loaded. It returns the
// controller itself once the application is interactive. Any failure
// is logged and re-raised unchanged.
func (c *Controller) Launch(ctx context.Context, setups ...interfaces.ClientSetup) (*Controller, error) {
	started := time.Now()
	c.setState(types.SessionStateLaunching)

	if c.driver == nil {
		return nil, c.fail("configure session", types.ErrNoDriver)
	}

	client, err := c.driver.Start(ctx)
	if err != nil {
		return nil, c.fail("start session", err)
	}

	c.mu.Lock()
	c.client = client
	c.waiter = wait.NewWaiter(client,
		wait.WithSchedule(c.schedule),
		wait.WithLogger(c.log))
	c.mu.Unlock()

	if c.followLogs {
		c.startFollowers(ctx)
	}

	for _, setup := range setups {
		if setup == nil {
			continue
		}
		if err := setup(client); err != nil {
			return nil, c.fail("install custom commands", err)
		}
	}

	// Logic-error guard, not a recoverable condition.
	if c.Client() == nil {
		return nil, c.fail("attach command client", types.ErrNoCommandClient)
	}

	handles, err := client.WindowHandles(ctx)
	if err != nil {
		return nil, c.fail("enumerate windows", err)
	}

	// With a second handle the first window is a splash/loading
	// screen; the real content loads hidden behind it at index 1.
	focusIndex := 0
	if len(handles) > 1 {
		focusIndex = 1
	}
	c.log.Debug("Selecting content window",
		logger.WithField("handles", len(handles)),
		logger.WithField("index", focusIndex))
	if err := client.FocusWindow(ctx, focusIndex); err != nil {
		return nil, c.fail("focus content window", err)
	}

	if err := c.waiter.WaitUntilWindowVisible(ctx, c.longTimeout); err != nil {
		return nil, c.fail("wait for window visible", err)
	}

	if err := c.waiter.WaitUntilWindowLoaded(ctx, c.longTimeout); err != nil {
		return nil, c.fail("wait for window loaded", err)
	}

	c.setState(types.SessionStateReady)
	c.log.Success("Application ready",
		logger.WithField("duration", time.Since(started).String()))
	if c.notifier != nil {
		c.notifier.NotifyLaunchSuccess(c.sessionID, time.Since(started))
	}
	return c, nil
}

// LaunchGuarded runs Launch under a hang watchdog: if the application
// is still not interactive after hangTimeout, a diagnostic report is
// generated while the launch continues to its own outcome.
func (c *Controller) LaunchGuarded(ctx context.Context, hangTimeout time.Duration, setups ...interfaces.ClientSetup) (*Controller, error) {
	wd := watchdog.New(hangTimeout, func(ctx context.Context) {
		c.GenerateDiagnosticReport(ctx)
	}, c.log)

	err := wd.Watch(ctx, func(ctx context.Context) error {
		_, err := c.Launch(ctx, setups...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Quit stops the automation session and terminates the application.
// It is an idempotent no-op returning false when no session is
// running; it returns true once the session is verifiably stopped.
func (c *Controller) Quit(ctx context.Context) (bool, error) {
	if c.driver == nil || !c.driver.IsRunning() {
		return false, nil
	}

	c.setState(types.SessionStateQuitting)
	c.stopFollowers()

	if err := c.driver.Stop(ctx); err != nil {
		return false, c.fail("stop session", err)
	}

	// Post-stop invariant; a surviving process is an environment
	// defect, never silently ignored.
	if c.driver.IsRunning() {
		return false, c.fail("verify stop", types.ErrStillRunning)
	}

	c.mu.Lock()
	c.client = nil
	c.waiter = nil
	c.state = types.SessionStateQuit
	c.mu.Unlock()

	c.log.Info("Application quit")
	return true, nil
}

// GenerateDiagnosticReport collects, best-effort, a screenshot,
// driver-subsystem log contents and main/renderer process logs,
// renders them as Markdown, and writes the report to the current
// working directory. It never propagates a failure; diagnostics must
// not mask the original error being diagnosed.
func (c *Controller) GenerateDiagnosticReport(ctx context.Context) string {
	builder := diagnostics.NewBuilder(c.sessionID, c.rootDir, c.fs, c.log)

	settings := c.SessionConfig().Settings
	pid := 0
	var client interfaces.CommandClient
	if c.driver != nil {
		settings = c.driver.Settings()
		pid = c.driver.Pid()
		if c.driver.IsRunning() {
			client = c.Client()
		}
	}

	report := builder.Collect(ctx, client, settings, pid)
	text := builder.Write(report, ".")

	if c.notifier != nil {
		c.notifier.NotifyDiagnosticsWritten(c.sessionID,
			fmt.Sprintf("%s_%s_diagnostics.md", diagnostics.FilePrefix, c.sessionID))
	}
	return text
}

// setState transitions the lifecycle state.
func (c *Controller) setState(state types.SessionState) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// fail logs err to the debug channel and the process error stream,
// marks the session failed, and returns err unchanged.
func (c *Controller) fail(step string, err error) error {
	wasLaunching := c.State() == types.SessionStateLaunching
	c.setState(types.SessionStateFailed)
	c.log.Error("Session operation failed",
		logger.WithField("step", step),
		logger.WithField("error", err.Error()))
	fmt.Fprintf(os.Stderr, "spectral: %s: %v\n", step, err)
	if c.notifier != nil && wasLaunching {
		c.notifier.NotifyLaunchFailure(c.sessionID, err)
	}
	return err
}

func (c *Controller) startFollowers(ctx context.Context) {
	settings := c.driver.Settings()
	specs := []struct{ path, label string }{
		{settings.ChromeDriverLogPath, "chromedriver"},
		{settings.WebDriverLogPath, "webdriver"},
	}
	for _, spec := range specs {
		if spec.path == "" {
			continue
		}
		follower, err := diagnostics.NewLogFollower(spec.path, spec.label, c.log)
		if err != nil {
			c.log.Warn("Failed to create log follower",
				logger.WithField("path", spec.path),
				logger.WithField("error", err.Error()))
			continue
		}
		if err := follower.Start(ctx); err != nil {
			c.log.Warn("Failed to start log follower",
				logger.WithField("path", spec.path),
				logger.WithField("error", err.Error()))
			continue
		}
		c.followers = append(c.followers, follower)
	}
}

func (c *Controller) stopFollowers() {
	for _, follower := range c.followers {
		if err := follower.Stop(); err != nil {
			c.log.Debug("Log follower stop error",
				logger.WithField("error", err.Error()))
		}
	}
	c.followers = nil
}
