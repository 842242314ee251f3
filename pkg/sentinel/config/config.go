// Package config loads and persists the sentinel configuration.
// Configuration lives in a YAML file under the XDG config directory and can
// be overridden through SENTINEL_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// TierPolicy configures one memory pressure tier.
type TierPolicy struct {
	// ThresholdGB is the upper bound (exclusive) of available memory for
	// this tier, in gigabytes. The normal tier has no threshold.
	ThresholdGB float64 `mapstructure:"threshold_gb"`

	// MaxWorkers caps the executor pool while this tier is active.
	MaxWorkers int `mapstructure:"max_workers"`

	// ProcessPriority is the requested process priority
	// (low, below_normal, normal, above_normal, high).
	ProcessPriority string `mapstructure:"process_priority"`

	// ClearCache requests a system cache clear while this tier is active.
	ClearCache bool `mapstructure:"clear_cache"`
}

// MemoryConfig configures the memory policy engine.
type MemoryConfig struct {
	Critical TierPolicy `mapstructure:"critical"`
	Warning  TierPolicy `mapstructure:"warning"`
	Normal   TierPolicy `mapstructure:"normal"`
}

// CleanupConfig configures the temp file cleanup action.
type CleanupConfig struct {
	CriticalDiskUsagePercent float64  `mapstructure:"critical_disk_usage_percent"`
	HighDiskUsagePercent     float64  `mapstructure:"high_disk_usage_percent"`
	CriticalAgeDays          int      `mapstructure:"critical_age_days"`
	HighAgeDays              int      `mapstructure:"high_age_days"`
	NormalAgeDays            int      `mapstructure:"normal_age_days"`
	Patterns                 []string `mapstructure:"patterns"`
	SkipPrefixes             []string `mapstructure:"skip_prefixes"`

	// ExtraDirs are additional directories to clean beyond the system
	// temp directories.
	ExtraDirs []string `mapstructure:"extra_dirs"`
}

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
}

// HistoryConfig configures the run history store.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	// DefaultProfile is used when Run is called without a profile name.
	DefaultProfile string `mapstructure:"default_profile"`

	// MaxWorkers is the configured cap on the executor pool. The memory
	// tier policy may size the pool lower, never higher.
	MaxWorkers int `mapstructure:"max_workers"`

	// Profiles maps profile names to per-task override strings.
	Profiles map[string]map[string]string `mapstructure:"profiles"`

	Memory  MemoryConfig  `mapstructure:"memory"`
	Cleanup CleanupConfig `mapstructure:"cleanup"`
	Logging LoggingConfig `mapstructure:"logging"`
	History HistoryConfig `mapstructure:"history"`
}

// Profile returns the named profile's overrides and whether it exists.
func (c *Config) Profile(name string) (map[string]string, bool) {
	overrides, ok := c.Profiles[name]
	return overrides, ok
}

// setDefaults registers every configuration default on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_profile", DefaultProfile)
	v.SetDefault("max_workers", DefaultMaxWorkers)
	v.SetDefault("profiles", DefaultProfiles)

	v.SetDefault("memory.critical.threshold_gb", DefaultCriticalThresholdGB)
	v.SetDefault("memory.critical.max_workers", DefaultCriticalMaxWorkers)
	v.SetDefault("memory.critical.process_priority", DefaultCriticalPriority)
	v.SetDefault("memory.critical.clear_cache", true)

	v.SetDefault("memory.warning.threshold_gb", DefaultWarningThresholdGB)
	v.SetDefault("memory.warning.max_workers", DefaultWarningMaxWorkers)
	v.SetDefault("memory.warning.process_priority", DefaultWarningPriority)
	v.SetDefault("memory.warning.clear_cache", true)

	v.SetDefault("memory.normal.threshold_gb", 0.0)
	v.SetDefault("memory.normal.max_workers", DefaultNormalMaxWorkers)
	v.SetDefault("memory.normal.process_priority", DefaultNormalPriority)
	v.SetDefault("memory.normal.clear_cache", false)

	v.SetDefault("cleanup.critical_disk_usage_percent", DefaultCriticalDiskUsagePercent)
	v.SetDefault("cleanup.high_disk_usage_percent", DefaultHighDiskUsagePercent)
	v.SetDefault("cleanup.critical_age_days", DefaultCriticalAgeDays)
	v.SetDefault("cleanup.high_age_days", DefaultHighAgeDays)
	v.SetDefault("cleanup.normal_age_days", DefaultNormalAgeDays)
	v.SetDefault("cleanup.patterns", DefaultCleanupPatterns)
	v.SetDefault("cleanup.skip_prefixes", DefaultSkipPrefixes)
	v.SetDefault("cleanup.extra_dirs", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "") // Empty means use the default log path
	v.SetDefault("logging.components", map[string]string{
		"optimizer": "info",
		"executor":  "info",
		"resolver":  "info",
		"actions":   "info",
	})

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", "") // Empty means use DefaultHistoryPath
	v.SetDefault("history.retention_days", DefaultRetentionDays)
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/sentinel/config.yaml
//   - $HOME/.config/sentinel/config.yaml
//
// Environment variables are prefixed with SENTINEL_ (e.g., SENTINEL_MAX_WORKERS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "sentinel"))
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "sentinel"))

	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (ignore if not found).
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is acceptable; we use defaults.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "sentinel"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "sentinel"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return nil
}

// DataDir returns $XDG_DATA_HOME/sentinel/ for the history database.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "sentinel")
}

// StateDir returns $XDG_STATE_HOME/sentinel/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "sentinel")
}

// DefaultHistoryPath returns the default run history database path.
func DefaultHistoryPath() string {
	return filepath.Join(DataDir(), "history")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	if err := os.MkdirAll(DataDir(), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

// WriteDefault writes a default config file if none exists.
// Returns nil if a config file already exists.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		// Config file exists, do nothing.
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Sentinel PC Optimizer Configuration

# Profile used when none is requested on the command line
default_profile: %s

# Cap on the optimization worker pool
max_workers: %d

# Optimization profiles. Each entry overrides a task's registry defaults
# with the positional format "enabled;priority;timeout;key=value;..."
# Trailing fields are optional; absent fields keep the defaults.
profiles:
  default: {}
  conservative:
    disk_defrag: "false"
    temp_cleanup: "true;2;300"

# Memory pressure tiers, compared against available memory in GB
memory:
  critical:
    threshold_gb: %g
    max_workers: %d
    process_priority: %s
    clear_cache: true
  warning:
    threshold_gb: %g
    max_workers: %d
    process_priority: %s
    clear_cache: true
  normal:
    max_workers: %d
    process_priority: %s
    clear_cache: false

# Temp file cleanup thresholds
cleanup:
  critical_disk_usage_percent: %g
  high_disk_usage_percent: %g
  critical_age_days: %d
  high_age_days: %d
  normal_age_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/sentinel/sentinel.log)
  path: ""

# Run history
history:
  enabled: true
  # Database path (empty means use default: $XDG_DATA_HOME/sentinel/history)
  path: ""
  retention_days: %d
`,
		DefaultProfile, DefaultMaxWorkers,
		DefaultCriticalThresholdGB, DefaultCriticalMaxWorkers, DefaultCriticalPriority,
		DefaultWarningThresholdGB, DefaultWarningMaxWorkers, DefaultWarningPriority,
		DefaultNormalMaxWorkers, DefaultNormalPriority,
		DefaultCriticalDiskUsagePercent, DefaultHighDiskUsagePercent,
		DefaultCriticalAgeDays, DefaultHighAgeDays, DefaultNormalAgeDays,
		DefaultRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}
