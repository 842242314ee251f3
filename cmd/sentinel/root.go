package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "sentinel [profile]",
		Short: "Tune system performance with profile-driven optimization runs",
		Long: `Sentinel runs a set of optimization tasks against the local machine:
memory pressure tuning, temp file cleanup, startup program auditing and
platform-specific maintenance. Tasks run concurrently on a worker pool
sized from the current memory pressure.

Profiles select and reconfigure tasks. The built-in "default" profile runs
everything; "conservative" skips the slow disk work.

Examples:
  sentinel                     # Run the default profile
  sentinel conservative        # Run a named profile
  sentinel -d .                # Preview temp cleanup without deleting
  sentinel -o json             # Machine-readable run report
  sentinel status              # State of the optimizer and last run
  sentinel history             # Past run reports
  sentinel profiles            # List configured profiles
  sentinel config show         # Show configuration`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOptimize,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/sentinel/config.yaml)")
	rootCmd.PersistentFlags().StringP("output", "o", "pretty", "output format (pretty, plain, json)")
	rootCmd.PersistentFlags().IntP("workers", "w", 0, "override worker pool cap (0=use config)")
	rootCmd.PersistentFlags().BoolP("dry-run", "d", false, "don't delete files (preview only)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")
	rootCmd.PersistentFlags().Bool("no-history", false, "don't record this run in history")

	// Bind flags to viper
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("no_history", rootCmd.PersistentFlags().Lookup("no-history"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "sentinel"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "sentinel"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("SENTINEL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("default_profile", config.DefaultProfile)
	viper.SetDefault("max_workers", config.DefaultMaxWorkers)
	viper.SetDefault("history.retention_days", config.DefaultRetentionDays)

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a message if quiet mode is not enabled.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Printf(format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
