// Package diagnostics assembles failure reports for hung or broken sessions
package diagnostics

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spectral/spectral/pkg/interfaces"
	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/process"
	"github.com/spectral/spectral/pkg/types"
)

const (
	// FilePrefix names the report file: <prefix>_<sessionID>_diagnostics.md
	FilePrefix = "spectral"

	emptyFilePlaceholder  = "<empty file>"
	notRunningPlaceholder = "> App not running."
)

// Report holds the collected artifacts of one diagnostic run. Missing
// artifacts stay empty; the renderer substitutes placeholders.
type Report struct {
	SessionID        string
	GeneratedAt      time.Time
	ScreenshotPath   string
	ChromeDriverLog  string
	WebDriverLog     string
	MainProcessLogs  []string
	RenderProcessLog []string
	ProcessInfo      *process.Info
	AppRunning       bool
}

// Builder collects diagnostic artifacts from a session, best-effort.
// No collection failure ever escapes the builder; everything is
// logged and the report falls back to placeholder text.
type Builder struct {
	sessionID string
	rootDir   string
	fs        interfaces.FileSystem
	logger    logger.Logger
}

// NewBuilder creates a diagnostics builder for one session.
func NewBuilder(sessionID, rootDir string, fs interfaces.FileSystem, log logger.Logger) *Builder {
	return &Builder{
		sessionID: sessionID,
		rootDir:   rootDir,
		fs:        fs,
		logger:    log,
	}
}

// Collect gathers all artifacts. client may be nil (app never started
// or already gone); settings carries the driver log paths.
func (b *Builder) Collect(ctx context.Context, client interfaces.CommandClient, settings types.SessionSettings, pid int) *Report {
	report := &Report{
		SessionID:   b.sessionID,
		GeneratedAt: time.Now(),
		AppRunning:  client != nil,
	}

	if pid > 0 {
		report.ProcessInfo = process.GetInfo(pid)
	}

	report.ChromeDriverLog = b.consumeLogFile(settings.ChromeDriverLogPath)
	report.WebDriverLog = b.consumeLogFile(settings.WebDriverLogPath)

	if client == nil {
		return report
	}

	screenshotPath := filepath.Join(b.rootDir, fmt.Sprintf("%s_diagnostics.png", b.sessionID))
	if err := client.SaveScreenshot(ctx, screenshotPath); err != nil {
		b.logFailure("screenshot", err)
	} else {
		report.ScreenshotPath = screenshotPath
	}

	if logs, err := client.MainProcessLogs(ctx); err != nil {
		b.logFailure("main process logs", err)
	} else {
		report.MainProcessLogs = logs
	}

	if logs, err := client.RenderProcessLogs(ctx); err != nil {
		b.logFailure("renderer process logs", err)
	} else {
		report.RenderProcessLog = logs
	}

	return report
}

// consumeLogFile reads a driver log file and deletes the source, so a
// later run cannot report stale output from this session.
func (b *Builder) consumeLogFile(path string) string {
	if path == "" || !b.fs.Exists(path) {
		return ""
	}
	data, err := b.fs.ReadAndRemove(path)
	if err != nil {
		b.logFailure("driver log "+path, err)
	}
	return string(data)
}

// Write renders the report and writes it to dir as
// spectral_<sessionID>_diagnostics.md, returning the report text.
// Write failures are logged, never propagated.
func (b *Builder) Write(report *Report, dir string) string {
	text := Render(report)
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_diagnostics.md", FilePrefix, report.SessionID))
	if err := b.fs.WriteFile(path, []byte(text)); err != nil {
		b.logFailure("report file "+path, err)
	} else if b.logger != nil {
		b.logger.Info("Diagnostic report written",
			logger.WithField("path", path))
	}
	return text
}

func (b *Builder) logFailure(artifact string, err error) {
	if b.logger == nil {
		return
	}
	b.logger.Warn("Failed to collect diagnostic artifact",
		logger.WithField("artifact", artifact),
		logger.WithField("error", err.Error()))
}

// Render produces the fixed-format Markdown report text.
func Render(r *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Diagnostic Report — session %s\n\n", r.SessionID)
	fmt.Fprintf(&sb, "Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Process\n\n")
	if r.ProcessInfo != nil {
		fmt.Fprintf(&sb, "- PID: %d\n- Running: %v\n\n", r.ProcessInfo.PID, r.ProcessInfo.IsRunning)
	} else {
		sb.WriteString(notRunningPlaceholder + "\n\n")
	}

	sb.WriteString("## Screenshot\n\n")
	if r.AppRunning && r.ScreenshotPath != "" {
		fmt.Fprintf(&sb, "![window](%s)\n\n", r.ScreenshotPath)
	} else {
		sb.WriteString(notRunningPlaceholder + "\n\n")
	}

	writeLogSection(&sb, "ChromeDriver Log", r.ChromeDriverLog)
	writeLogSection(&sb, "WebDriver Log", r.WebDriverLog)
	writeProcessLogSection(&sb, "Main Process Logs", r.MainProcessLogs, r.AppRunning)
	writeProcessLogSection(&sb, "Renderer Process Logs", r.RenderProcessLog, r.AppRunning)

	return sb.String()
}

func writeLogSection(sb *strings.Builder, title, content string) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if strings.TrimSpace(content) == "" {
		sb.WriteString(emptyFilePlaceholder + "\n\n")
		return
	}
	fmt.Fprintf(sb, "```\n%s\n```\n\n", strings.TrimRight(content, "\n"))
}

func writeProcessLogSection(sb *strings.Builder, title string, lines []string, running bool) {
	fmt.Fprintf(sb, "## %s\n\n", title)
	if !running {
		sb.WriteString(notRunningPlaceholder + "\n\n")
		return
	}
	if len(lines) == 0 {
		sb.WriteString(emptyFilePlaceholder + "\n\n")
		return
	}
	fmt.Fprintf(sb, "```\n%s\n```\n\n", strings.Join(lines, "\n"))
}
