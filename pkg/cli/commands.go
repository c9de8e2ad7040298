package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spectral/spectral/pkg/config"
	"github.com/spectral/spectral/pkg/diagnostics"
	"github.com/spectral/spectral/pkg/logger"
	"github.com/spectral/spectral/pkg/types"
	"github.com/spectral/spectral/pkg/utils"
	"github.com/spectral/spectral/pkg/wait"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check that the configuration file is valid: runtime path, log level, timeouts and retry schedule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func newReportCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Assemble a diagnostic report from driver logs on disk",
		Long: `Assemble a diagnostic report for a past session from the driver log
files left on disk. The report is written to the current directory; the
source log files are removed after reading. Driver-side artifacts
(screenshot, process logs) require a live session and fall back to
placeholder text here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(sessionID)
		},
	}

	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to report on (required)")
	cmd.MarkFlagRequired("session")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Spectral",
		Long:  `Print the version number of Spectral`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🔮 Spectral v%s\n", version)
		},
	}
}

// runValidate validates the effective configuration
func runValidate() error {
	path := configPath()
	if path == "" {
		path = filepath.Join(projectRoot, "spectral.config.json")
	}

	if _, err := os.Stat(path); err != nil {
		printInfo(fmt.Sprintf("No config file at %s; defaults apply", path))
		printInfo(fmt.Sprintf("Default schedule: %v", wait.DefaultSchedule))
		printInfo(fmt.Sprintf("Readiness budget: %s", types.LongTimeout))
		return nil
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(path)
	if err != nil {
		printError(fmt.Sprintf("Configuration invalid: %v", err))
		return err
	}

	printSuccess(fmt.Sprintf("Configuration valid: %s", path))
	if schedule := cfg.Schedule(); schedule != nil {
		printInfo(fmt.Sprintf("Retry schedule: %v", schedule))
	}
	printInfo(fmt.Sprintf("Readiness budget: %s", cfg.LongTimeout()))
	return nil
}

// runReport builds an offline diagnostic report for a session id
func runReport(sessionID string) error {
	log := logger.CreateLogger("", verbosity).WithSession(sessionID)
	fs := utils.NewFileSystemUtils()

	stateDir := filepath.Join(projectRoot, ".spectral")
	settings := types.SessionSettings{
		ChromeDriverLogPath: filepath.Join(stateDir, fmt.Sprintf("chromedriver_%s.log", sessionID)),
		WebDriverLogPath:    filepath.Join(stateDir, fmt.Sprintf("webdriver_%s.log", sessionID)),
	}

	builder := diagnostics.NewBuilder(sessionID, projectRoot, fs, log)
	report := builder.Collect(context.Background(), nil, settings, 0)
	builder.Write(report, ".")

	path := fmt.Sprintf("%s_%s_diagnostics.md", diagnostics.FilePrefix, sessionID)
	printSuccess(fmt.Sprintf("Report written: %s", path))
	return nil
}
