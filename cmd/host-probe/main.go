package main

import (
	"fmt"
	"os"

	"github.com/open-edge-platform/host-probe/internal/config"
	"github.com/open-edge-platform/host-probe/internal/utils/logger"
	"github.com/open-edge-platform/host-probe/internal/utils/security"
	"github.com/spf13/cobra"
)

// Command-line flags that can override config file settings
var (
	configFile string = "" // Path to config file
	logLevel   string = "" // Empty means use config file value
	logFile    string = "" // Empty means use config file value
)

func main() {
	// Initialize global configuration first
	configFilePath := configFile
	if configFilePath == "" {
		configFilePath = config.FindConfigFile()
	}

	globalConfig, err := config.LoadGlobalConfig(configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Set global config singleton
	config.SetGlobal(globalConfig)

	// Setup logger with configured level and optional file tee
	_, cleanup, err := logger.InitWithConfig(logger.Config{
		Level:    globalConfig.Logging.Level,
		FilePath: globalConfig.Logging.File,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create and execute root command. AttachRecursive chains any existing
	// PersistentPreRunE, so the log override hook must be installed first.
	rootCmd := createRootCommand()
	rootCmd.PersistentPreRunE = logOverridePreRun(globalConfig)
	security.AttachRecursive(rootCmd, security.DefaultLimits())

	// Log configuration info using global config functions
	log := logger.Logger()
	if configFilePath != "" {
		log.Infof("Using configuration from: %s", configFilePath)
	}
	log.Debugf("Config: timeout=%s, output=%s, log_level=%s",
		config.Timeout(), config.Output(), config.LogLevel())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logOverridePreRun applies the --log-level and --log-file overrides after
// flag parsing, updating both the config singleton and the live logger.
func logOverridePreRun(globalConfig *config.GlobalConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if logLevel != "" {
			// Update both the local config and the global singleton
			globalConfig.Logging.Level = logLevel
			config.SetGlobal(globalConfig) // Update singleton with new log level
			logger.SetLogLevel(logLevel)
		}
		if logFile != "" {
			globalConfig.Logging.File = logFile
			config.SetGlobal(globalConfig)
		}
		return nil
	}
}

// createRootCommand creates and configures the root cobra command with all subcommands
func createRootCommand() *cobra.Command {
	// Subcommands carry their own flag-validation PersistentPreRunE; without
	// hook traversal the nearest one would shadow the root's override hook.
	cobra.EnableTraverseRunHooks = true

	rootCmd := &cobra.Command{
		Use:   "host-probe",
		Short: "Linux host compatibility probe",
		Long: `Host Probe inspects the local Linux host and reports the facts a
package-management toolchain needs before it can run: the C library family
and version, the dynamic linker in use, an ldd-equivalent invocation recipe,
the distribution identity, the native package manager, and whether the
process is confined inside a Snap or Flatpak sandbox.

The report is a single JSON or YAML document on stdout. Hosts that are not
Linux still produce a report, marked unsupported, with the platform-specific
sections omitted.

Use 'host-probe --help' to see available commands.
Use 'host-probe <command> --help' for more information about a command.`,
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"Log file path to tee logs (overrides configuration file)")

	// Add all subcommands
	rootCmd.AddCommand(createProbeCommand())
	rootCmd.AddCommand(createVersionCommand())
	rootCmd.AddCommand(createConfigCommand())
	rootCmd.AddCommand(createInstallCompletionCommand())

	return rootCmd
}
