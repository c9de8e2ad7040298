// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spectral/spectral/pkg/notifier"
	"github.com/spectral/spectral/pkg/types"
	"gopkg.in/yaml.v3"
)

// HarnessConfig is the on-disk configuration of the launch harness
type HarnessConfig struct {
	Version string `json:"version" yaml:"version"`

	// ElectronPath is the GUI runtime executable. Empty means resolve
	// node_modules/.bin/electron under the app root, then $PATH.
	ElectronPath string `json:"electronPath,omitempty" yaml:"electronPath,omitempty"`

	// AppRoot is the application root directory handed to the runtime.
	AppRoot string `json:"appRoot,omitempty" yaml:"appRoot,omitempty"`

	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	Timeouts      TimeoutConfig   `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Notifications notifier.Config `json:"notifications,omitempty" yaml:"notifications,omitempty"`
}

// TimeoutConfig carries timeout overrides in milliseconds
type TimeoutConfig struct {
	DefaultMs  int   `json:"defaultMs,omitempty" yaml:"defaultMs,omitempty"`
	LongMs     int   `json:"longMs,omitempty" yaml:"longMs,omitempty"`
	ScheduleMs []int `json:"scheduleMs,omitempty" yaml:"scheduleMs,omitempty"`
}

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *HarnessConfig {
	return &HarnessConfig{
		Version:  "1.0",
		LogLevel: string(types.LogLevelInfo),
	}
}

// LoadConfig loads configuration from a file
func (m *Manager) LoadConfig(path string) (*HarnessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg HarnessConfig

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	// Try YAML
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(cfg *HarnessConfig) error {
	_, err := m.validateConfig(cfg)
	return err
}

func (m *Manager) validateConfig(cfg *HarnessConfig) (*HarnessConfig, error) {
	// Check version
	if cfg.Version != "1.0" {
		return nil, fmt.Errorf("unsupported config version: %s", cfg.Version)
	}

	if cfg.LogLevel != "" {
		validLevels := map[types.LogLevel]bool{
			types.LogLevelDebug: true,
			types.LogLevelInfo:  true,
			types.LogLevelWarn:  true,
			types.LogLevelError: true,
		}
		if !validLevels[types.LogLevel(cfg.LogLevel)] {
			return nil, fmt.Errorf("invalid log level: %s", cfg.LogLevel)
		}
	}

	if cfg.Timeouts.DefaultMs < 0 || cfg.Timeouts.LongMs < 0 {
		return nil, fmt.Errorf("timeouts must not be negative")
	}

	if len(cfg.Timeouts.ScheduleMs) > 0 {
		if err := cfg.Schedule().Validate(); err != nil {
			return nil, fmt.Errorf("invalid retry schedule: %w", err)
		}
	}

	if cfg.ElectronPath != "" {
		if _, err := os.Stat(cfg.ElectronPath); err != nil {
			return nil, fmt.Errorf("electron path not found: %s", cfg.ElectronPath)
		}
	}

	return cfg, nil
}

// Schedule converts the configured schedule override to a types.Schedule.
// Returns nil when no override is configured.
func (c *HarnessConfig) Schedule() types.Schedule {
	if len(c.Timeouts.ScheduleMs) == 0 {
		return nil
	}
	schedule := make(types.Schedule, len(c.Timeouts.ScheduleMs))
	for i, ms := range c.Timeouts.ScheduleMs {
		schedule[i] = time.Duration(ms) * time.Millisecond
	}
	return schedule
}

// LongTimeout returns the configured long wait budget, or the default
func (c *HarnessConfig) LongTimeout() time.Duration {
	if c.Timeouts.LongMs > 0 {
		return time.Duration(c.Timeouts.LongMs) * time.Millisecond
	}
	return types.LongTimeout
}

// DefaultTimeout returns the configured short wait budget, or the default
func (c *HarnessConfig) DefaultTimeout() time.Duration {
	if c.Timeouts.DefaultMs > 0 {
		return time.Duration(c.Timeouts.DefaultMs) * time.Millisecond
	}
	return types.DefaultTimeout
}
