package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spectral/spectral/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestCreateLogger_InvalidLevelFallsBack(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "extremely-loud", &buf)

	log.Info("still works")
	if !strings.Contains(buf.String(), "still works") {
		t.Error("expected info output with fallback level")
	}
}

func TestCreateLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		message string
	}{
		{"debug", "debug message"},
		{"info", "info message"},
		{"warn", "warning message"},
		{"error", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.CreateLoggerWithOutput("", tt.level, &buf)

			// Log at different levels - just verify routing doesn't panic
			log.Debug(tt.message)
			log.Info(tt.message)
			log.Warn(tt.message)
			log.Error(tt.message)
		})
	}
}

func TestLogger_DebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Debug("hidden detail")
	if strings.Contains(buf.String(), "hidden detail") {
		t.Error("debug output must be suppressed at info level")
	}
}

func TestLogger_WithSession(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	sessionLog := log.WithSession("1700000000000_abcd1234")
	sessionLog.Info("window became visible")

	output := buf.String()
	if !strings.Contains(output, "1700000000000_abcd1234") {
		t.Error("expected session id in log output")
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Info("focusing window",
		logger.WithField("index", 1),
		logger.WithField("handles", 2))

	output := buf.String()
	if !strings.Contains(output, "index=1") {
		t.Errorf("expected structured field in output, got: %s", output)
	}
}

func TestLogger_Success(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Success("application ready")
	if !strings.Contains(buf.String(), "application ready") {
		t.Error("expected success message in output")
	}
}
