// internal/config/global.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/open-edge-platform/host-probe/internal/config/validate"
	"github.com/open-edge-platform/host-probe/internal/utils/logger"
	"github.com/open-edge-platform/host-probe/internal/utils/security"
	"github.com/open-edge-platform/host-probe/internal/utils/slice"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

var log = logger.Logger()

// GlobalConfig holds essential tool-level configuration parameters
type GlobalConfig struct {
	// Core tool settings
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"` // Per-command timeout for linker/ldd invocations in seconds (1-300, default: 5)
	Output         string `yaml:"output" json:"output"`                   // Default report serialization format: json (default) or yaml

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"` // Logging behavior settings
}

// LoggingConfig controls basic logging behavior
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`                   // Log verbosity level: debug (most verbose), info (default), warn (warnings only), error (errors only)
	File  string `yaml:"file,omitempty" json:"file,omitempty"` // Optional log file path for teeing output to disk
}

// Global singleton variables
var (
	globalInstance *GlobalConfig
	globalMutex    sync.RWMutex
	once           sync.Once
)

// SetGlobal sets the global config instance (call once at startup in main.go)
func SetGlobal(config *GlobalConfig) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalInstance = config
}

// Global returns the global config instance
func Global() *GlobalConfig {
	once.Do(func() {
		globalMutex.Lock()
		defer globalMutex.Unlock()
		if globalInstance == nil {
			globalInstance = DefaultGlobalConfig()
		}
	})

	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalInstance
}

// DefaultGlobalConfig returns a GlobalConfig with sensible defaults
func DefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		TimeoutSeconds: 5,
		Output:         "json",

		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadGlobalConfig loads configuration from the specified path
func LoadGlobalConfig(configPath string) (*GlobalConfig, error) {
	// Start with defaults
	config := DefaultGlobalConfig()

	// If no config file specified or doesn't exist, return defaults
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return config, nil // Return defaults if file doesn't exist
		}
		if errors.Is(err, os.ErrPermission) {
			log.Warnf("Config file %s is not accessible (%v); using defaults", configPath, err)
			return config, nil
		}
		log.Errorf("Error accessing config file %s: %v", configPath, err)
		return nil, fmt.Errorf("accessing config file %s: %w", configPath, err)
	}

	// Load and merge config file values with symlink protection
	data, err := security.SafeReadFile(configPath, security.RejectSymlinks)
	if err != nil {
		log.Errorf("Error reading config file %s: %v", configPath, err)
		return nil, fmt.Errorf("reading config file %s: %w", configPath, err)
	}

	// Determine format by extension
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		// Validate the raw document before decoding into the struct, so the
		// schema sees unknown keys instead of a re-marshal that drops them.
		jsonData, err := sigsyaml.YAMLToJSON(data)
		if err != nil {
			log.Errorf("Error parsing YAML config: %v", err)
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}

		// An empty file converts to JSON null; treat it as "all defaults".
		if string(jsonData) != "null" {
			if err := validate.ValidateConfigJSON(jsonData); err != nil {
				log.Errorf("Schema validation failed: %v", err)
				return nil, fmt.Errorf("schema validation failed: %w", err)
			}
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			log.Errorf("Error parsing YAML config: %v", err)
			return nil, fmt.Errorf("parsing YAML config: %w", err)
		}

	default:
		log.Errorf("Unsupported config file format: %s", ext)
		return nil, fmt.Errorf("unsupported config file format: %s (supported: .yaml, .yml)", ext)
	}

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		log.Errorf("Config validation failed: %v", err)
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// SaveGlobalConfig saves the configuration to the specified path
func (gc *GlobalConfig) SaveGlobalConfig(configPath string) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Errorf("Failed to create config directory: %v", err)
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	// Convert to JSON for schema validation before saving
	jsonData, err := json.Marshal(gc)
	if err != nil {
		log.Errorf("Error converting config to JSON for validation: %v", err)
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	if err := validate.ValidateConfigJSON(jsonData); err != nil {
		log.Errorf("Config validation failed before save: %v", err)
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	// Marshal to YAML
	data, err := yaml.Marshal(gc)
	if err != nil {
		log.Errorf("Error marshaling config to YAML: %v", err)
		return fmt.Errorf("marshaling config to YAML: %w", err)
	}

	// Use safe write to prevent symlink attacks
	if err := security.SafeWriteFile(configPath, data, 0600, security.RejectSymlinks); err != nil {
		log.Errorf("Error writing config file: %v", err)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// SaveGlobalConfigWithComments saves the configuration with descriptive
// comments. Primarily used by the CLI config init command to create a
// user-friendly starting file.
func (gc *GlobalConfig) SaveGlobalConfigWithComments(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is empty")
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			log.Errorf("Failed to create config directory: %v", err)
			return fmt.Errorf("creating config directory: %w", err)
		}
	}

	jsonData, err := json.Marshal(gc)
	if err != nil {
		log.Errorf("Error converting config to JSON for validation: %v", err)
		return fmt.Errorf("converting config to JSON for validation: %w", err)
	}

	if err := validate.ValidateConfigJSON(jsonData); err != nil {
		log.Errorf("Config validation failed before save: %v", err)
		return fmt.Errorf("config validation failed before save: %w", err)
	}

	commented := gc.renderCommentedYAML()

	if err := security.SafeWriteFile(configPath, []byte(commented), 0600, security.RejectSymlinks); err != nil {
		log.Errorf("Error writing config file: %v", err)
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// renderCommentedYAML builds a YAML representation of the config with rich comments.
func (gc *GlobalConfig) renderCommentedYAML() string {
	var b strings.Builder

	b.WriteString("# Host Probe - Global Configuration\n")
	b.WriteString("# This file contains tool-level settings that apply to every probe run.\n\n")

	b.WriteString("# Core tool settings\n")
	fmt.Fprintf(&b, "timeout_seconds: %d\n", gc.TimeoutSeconds)
	b.WriteString("# Per-command timeout for linker and ldd invocations in seconds (1-300, default: 5)\n")
	b.WriteString("# Commands that exceed this budget are reported as timed out, not as errors\n\n")

	fmt.Fprintf(&b, "output: %q\n", gc.Output)
	b.WriteString("# Default report serialization format (default: json)\n")
	b.WriteString("# - json: pretty-printed JSON on stdout\n")
	b.WriteString("# - yaml: YAML on stdout, same field names as the JSON form\n\n")

	b.WriteString("# Logging configuration\n")
	b.WriteString("logging:\n")
	fmt.Fprintf(&b, "  level: %q\n", gc.Logging.Level)
	b.WriteString("  # Log verbosity level (default: info)\n")
	b.WriteString("  # - debug: Most verbose, shows all operations and data structures\n")
	b.WriteString("  # - info:  Normal output, shows progress and important events\n")
	b.WriteString("  # - warn:  Only warnings and errors, minimal output\n")
	b.WriteString("  # - error: Only errors, very quiet operation\n")
	if gc.Logging.File != "" {
		fmt.Fprintf(&b, "  file: %q\n", gc.Logging.File)
		b.WriteString("  # Tee logs to this file in addition to stderr (overwritten on each run)\n")
	}

	return b.String()
}

// Validate checks the configuration for consistency and applies constraints
// Note: This should NOT set defaults - that's done in DefaultGlobalConfig()
func (gc *GlobalConfig) Validate() error {
	if gc.TimeoutSeconds <= 0 {
		log.Errorf("TimeoutSeconds must be greater than 0, got %d", gc.TimeoutSeconds)
		return fmt.Errorf("timeout_seconds must be greater than 0, got %d", gc.TimeoutSeconds)
	}
	if gc.TimeoutSeconds > 300 {
		log.Errorf("TimeoutSeconds cannot exceed 300, got %d", gc.TimeoutSeconds)
		return fmt.Errorf("timeout_seconds cannot exceed 300, got %d", gc.TimeoutSeconds)
	}

	validOutputs := []string{"json", "yaml"}
	if !slice.Contains(validOutputs, gc.Output) {
		return fmt.Errorf("invalid output format %q, must be one of: %s",
			gc.Output, strings.Join(validOutputs, ", "))
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slice.Contains(validLevels, gc.Logging.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s",
			gc.Logging.Level, strings.Join(validLevels, ", "))
	}

	gc.Logging.File = strings.TrimSpace(gc.Logging.File)

	return nil
}

// GetConfigPaths returns the standard configuration file paths to check
func GetConfigPaths() []string {
	homeDir, _ := os.UserHomeDir()

	paths := []string{
		"host-probe.yml",   // Primary config location (root directory)
		".host-probe.yml",  // Hidden file in current directory
		"host-probe.yaml",  // Alternative extension
		".host-probe.yaml", // Hidden file alternative
	}

	if homeDir != "" {
		paths = append(paths,
			filepath.Join(homeDir, ".host-probe", "config.yml"),
			filepath.Join(homeDir, ".host-probe", "config.yaml"),
			filepath.Join(homeDir, ".config", "host-probe", "config.yml"),
			filepath.Join(homeDir, ".config", "host-probe", "config.yaml"),
		)
	}

	// System-wide config paths
	paths = append(paths,
		"/etc/host-probe/config.yml",
		"/etc/host-probe/config.yaml",
	)

	return paths
}

// FindConfigFile searches for a configuration file in standard locations
func FindConfigFile() string {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Convenience functions that can be used anywhere in the codebase
func Timeout() time.Duration {
	return time.Duration(Global().TimeoutSeconds) * time.Second
}

func Output() string {
	return Global().Output
}

func LogLevel() string {
	return Global().Logging.Level
}

func IsDebugMode() bool {
	return Global().Logging.Level == "debug"
}
