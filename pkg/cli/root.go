// Package cli provides the command-line interface for Spectral
package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	projectRoot string
	verbosity   string
	version     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spectral",
	Short: "Launch harness for Electron apps under automation",
	Long: `🔮 Spectral - Launch and control Electron apps for end-to-end UI testing

Spectral spawns the application under a browser-automation driver, detects
when the main window is actually interactive (including splash-screen
startups), and writes diagnostic reports when a launch hangs or fails.`,

	Run: func(cmd *cobra.Command, args []string) {
		// Check if version flag is set
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("🔮 Spectral v%s\n", version)
			return
		}
		// If no subcommand, show help
		cmd.Help()
	},
}

// Execute runs the CLI
func Execute(v string) error {
	version = v

	// Initialize the root command explicitly (avoiding init())
	initializeRootCommand()

	return rootCmd.Execute()
}

// initializeRootCommand sets up the root command and its flags.
// This replaces the init() function to make initialization explicit and testable.
func initializeRootCommand() {
	// Set up config initialization
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: spectral.config.json)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", ".", "filesystem root directory for session artifacts")
	rootCmd.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "info", "log level (debug, info, warn, error)")

	// Add version flag
	rootCmd.Flags().Bool("version", false, "Print version information and quit")

	// Add subcommands
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func initConfig() {
	if cfgFile != "" {
		// Use config file from flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in project root
		viper.AddConfigPath(projectRoot)
		viper.SetConfigName("spectral.config")
		viper.SetConfigType("json")
	}

	// Read in environment variables
	viper.SetEnvPrefix("SPECTRAL")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		if verbosity == "debug" {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// Helper functions

func printSuccess(message string) {
	crystal := "🔮"
	fmt.Printf("%s %s %s\n", crystal, color.GreenString("[Spectral]"), message)
}

func printError(message string) {
	crystal := "🔮"
	fmt.Fprintf(os.Stderr, "%s %s %s\n", crystal, color.RedString("[Spectral]"), message)
}

func printInfo(message string) {
	crystal := "🔮"
	fmt.Printf("%s %s %s\n", crystal, color.CyanString("[Spectral]"), message)
}

// configPath returns the effective config file path
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return ""
}
