// Package notifier provides desktop notifications for session events
package notifier

import (
	"fmt"
	"runtime"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/spectral/spectral/pkg/logger"
)

// SessionNotifier handles session notifications
type SessionNotifier struct {
	enabled      bool
	successSound string
	failureSound string
	logger       logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	SuccessSound string `json:"successSound,omitempty" yaml:"successSound,omitempty"`
	FailureSound string `json:"failureSound,omitempty" yaml:"failureSound,omitempty"`
}

// New creates a new session notifier
func New(config Config, log logger.Logger) *SessionNotifier {
	return &SessionNotifier{
		enabled:      config.Enabled,
		successSound: config.SuccessSound,
		failureSound: config.FailureSound,
		logger:       log,
	}
}

// NotifyLaunchSuccess notifies that the application became ready
func (n *SessionNotifier) NotifyLaunchSuccess(sessionID string, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ App Ready"
	message := fmt.Sprintf("Session %s ready in %s", sessionID, formatDuration(duration))

	n.sendNotification(title, message, n.successSound)
}

// NotifyLaunchFailure notifies that a launch failed
func (n *SessionNotifier) NotifyLaunchFailure(sessionID string, err error) {
	if !n.enabled {
		return
	}

	title := "❌ Launch Failed"
	message := fmt.Sprintf("Session %s: %v", sessionID, err)

	n.sendNotification(title, message, n.failureSound)
}

// NotifyDiagnosticsWritten notifies that a diagnostic report was written
func (n *SessionNotifier) NotifyDiagnosticsWritten(sessionID string, path string) {
	if !n.enabled {
		return
	}

	title := "🔮 Diagnostics Written"
	message := fmt.Sprintf("Session %s report: %s", sessionID, path)

	n.sendNotification(title, message, "")
}

// sendNotification sends a desktop notification
func (n *SessionNotifier) sendNotification(title, message, sound string) {
	err := beeep.Notify(title, message, "")
	if err != nil && n.logger != nil {
		n.logger.Debug("Failed to send notification",
			logger.WithField("error", err.Error()))
	}

	// Play sound on macOS if specified
	if sound != "" && runtime.GOOS == "darwin" {
		playSound(sound)
	}
}

// playSound plays a notification sound on macOS
func playSound(sound string) {
	// beeep handles the default beep; named system sounds are not
	// portable, so anything else falls back to the default.
	_ = beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
