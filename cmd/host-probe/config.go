package main

import (
	"fmt"

	"github.com/open-edge-platform/host-probe/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// createConfigCommand creates the config subcommand
func createConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long: `Manage global configuration for the Host Probe.

Available commands:
  show    Display the effective configuration
  init    Initialize a new configuration file with default values`,
	}

	configCmd.AddCommand(createConfigShowCommand())
	configCmd.AddCommand(createConfigInitCommand())

	return configCmd
}

// createConfigShowCommand creates the config show subcommand
func createConfigShowCommand() *cobra.Command {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging defaults, the
discovered configuration file, and any command-line overrides.`,
		Args: cobra.NoArgs,
		RunE: executeConfigShow,
	}

	return showCmd
}

// executeConfigShow handles the config show command logic
func executeConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(config.Global())
	if err != nil {
		return fmt.Errorf("marshaling configuration: %v", err)
	}

	if path := config.FindConfigFile(); path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# Configuration file: %s\n", path)
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration file found; showing defaults")
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	return nil
}

// createConfigInitCommand creates the config init subcommand
func createConfigInitCommand() *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init [config-file]",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new configuration file with default values.

If no path is specified, the config will be created in the current directory as host-probe.yml

Examples:
  # Create config in current directory
  host-probe config init

  # Create config at specific location
  host-probe config init /etc/host-probe/config.yml

  # Create config in user's home directory
  host-probe config init ~/.host-probe/config.yml`,
		Args: cobra.MaximumNArgs(1),
		RunE: executeConfigInit,
	}

	return initCmd
}

// executeConfigInit handles the config init command logic
func executeConfigInit(cmd *cobra.Command, args []string) error {
	configPath := "host-probe.yml"
	if len(args) > 0 {
		configPath = args[0]
	}

	// Create default config
	defaultConfig := config.DefaultGlobalConfig()

	// Save to file with descriptive comments
	if err := defaultConfig.SaveGlobalConfigWithComments(configPath); err != nil {
		return fmt.Errorf("failed to save config file: %v", err)
	}

	fmt.Printf("Configuration file created at: %s\n", configPath)
	fmt.Printf("\nDefault configuration settings:\n")
	fmt.Printf("  Timeout: %d seconds\n", defaultConfig.TimeoutSeconds)
	fmt.Printf("  Output: %s\n", defaultConfig.Output)
	fmt.Printf("  Log Level: %s\n", defaultConfig.Logging.Level)
	fmt.Printf("\nEdit the configuration file to customize these settings.\n")

	return nil
}
