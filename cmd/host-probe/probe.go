package main

import (
	"encoding/json"
	"fmt"

	"github.com/open-edge-platform/host-probe/internal/config"
	"github.com/open-edge-platform/host-probe/internal/probe"
	"github.com/open-edge-platform/host-probe/internal/probe/libc"
	"github.com/open-edge-platform/host-probe/internal/utils/logger"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

// Probe command flags
var (
	outputFormat string = "" // Empty means use config file value
	timeoutSecs  int    = -1 // -1 means use config file value
	compact      bool   = false
)

// collectReport builds the host report, swappable in tests.
var collectReport = probe.Collect

// createProbeCommand creates the probe subcommand
func createProbeCommand() *cobra.Command {
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Probe the host and print a compatibility report",
		Long: `Probe the host and print a compatibility report on stdout.

The report covers the C library family and version, the selected dynamic
linker, an ldd-equivalent invocation recipe, the distribution identity, the
native package manager, and Snap/Flatpak confinement. A non-Linux host
produces a report marked unsupported; that is a successful run, not an
error.`,
		Args: cobra.NoArgs,
		RunE: executeProbe,
	}

	// Add flags
	probeCmd.Flags().StringVarP(&outputFormat, "output", "o", "",
		"Report format (json, yaml)")
	probeCmd.Flags().IntVarP(&timeoutSecs, "timeout", "t", -1,
		"Per-command timeout for linker invocations in seconds")
	probeCmd.Flags().BoolVar(&compact, "compact", false,
		"Emit compact JSON instead of indented output")

	return probeCmd
}

// executeProbe handles the probe command execution logic
func executeProbe(cmd *cobra.Command, args []string) error {
	// Parse command-line flags and override global config
	// Note: We update the global singleton with any overrides
	if cmd.Flags().Changed("output") {
		currentConfig := config.Global()
		currentConfig.Output = outputFormat
		config.SetGlobal(currentConfig)
	}
	if cmd.Flags().Changed("timeout") {
		currentConfig := config.Global()
		currentConfig.TimeoutSeconds = timeoutSecs
		config.SetGlobal(currentConfig)
	}
	if err := config.Global().Validate(); err != nil {
		return fmt.Errorf("invalid probe options: %v", err)
	}

	libc.InvokeTimeout = config.Timeout()

	log := logger.Logger()
	log.Debugf("Starting host probe with timeout %s", config.Timeout())

	report, err := collectReport(cmd.Context())
	if err != nil {
		return fmt.Errorf("probing host: %v", err)
	}

	var data []byte
	switch config.Output() {
	case "yaml":
		data, err = yaml.Marshal(report)
	default:
		if compact {
			data, err = json.Marshal(report)
		} else {
			data, err = json.MarshalIndent(report, "", "  ")
		}
	}
	if err != nil {
		return fmt.Errorf("serializing report: %v", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
