package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/history"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/optimizer"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/output"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/report"
)

// runOptimize is the main optimization command handler.
func runOptimize(_ *cobra.Command, args []string) error {
	provider, err := config.NewFileProvider()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := provider.Config()

	if err := setupLogging(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	profileName := ""
	if len(args) > 0 {
		profileName = args[0]
	}

	if workers := viper.GetInt("workers"); workers > 0 {
		cfg.MaxWorkers = workers
	}
	if viper.GetBool("dry_run") {
		applyDryRun(cfg)
		printVerbose("Dry run: cleanup will only report what it would remove")
	}

	opt, err := optimizer.New(provider)
	if err != nil {
		return err
	}

	// Cancel pending tasks on interrupt; running tasks are awaited up to
	// their own timeouts.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startedAt := time.Now()
	result, runErr := opt.Run(ctx, profileName)

	var cfgErr *optimizer.ConfigurationError
	if errors.As(runErr, &cfgErr) {
		return runErr
	}
	if result == nil {
		return runErr
	}

	recordHistory(cfg, result)

	if err := renderResult(result); err != nil {
		return err
	}
	printVerbose("Run finished in %s", time.Since(startedAt).Round(time.Millisecond))

	var critErr *report.CriticalFailureError
	if errors.As(runErr, &critErr) {
		printError("%v", critErr)
		return critErr
	}
	return nil
}

// setupLogging initializes the logging system from configuration and the
// verbosity flags.
func setupLogging(cfg *config.Config) error {
	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Components: cfg.Logging.Components,
	}
	if logCfg.Level == "" {
		logCfg.Level = "info"
	}
	if getVerbose() {
		logCfg.Level = "debug"
		logCfg.ConsoleLevel = "debug"
	}
	return logging.Init(logCfg)
}

// applyDryRun threads the dry_run parameter through every profile's
// temp_cleanup override so file removal is previewed, not performed.
func applyDryRun(cfg *config.Config) {
	if cfg.Profiles == nil {
		cfg.Profiles = make(map[string]map[string]string)
	}
	for name, overrides := range cfg.Profiles {
		if overrides == nil {
			overrides = make(map[string]string)
			cfg.Profiles[name] = overrides
		}
		existing := overrides["temp_cleanup"]
		switch {
		case existing == "":
			overrides["temp_cleanup"] = ";;;dry_run=true"
		case strings.Count(existing, ";") >= 3:
			overrides["temp_cleanup"] = existing + ";dry_run=true"
		default:
			// Pad to the parameter position.
			pad := 3 - strings.Count(existing, ";")
			overrides["temp_cleanup"] = existing + strings.Repeat(";", pad) + "dry_run=true"
		}
	}
}

// recordHistory stores the run report unless history is disabled.
func recordHistory(cfg *config.Config, result *optimizer.RunResult) {
	if !cfg.History.Enabled || viper.GetBool("no_history") {
		return
	}

	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	if err := config.EnsureDataDir(); err != nil {
		printVerbose("Could not create data directory: %v", err)
		return
	}

	store, err := history.Open(path)
	if err != nil {
		printVerbose("Could not open history store: %v", err)
		return
	}
	defer func() { _ = store.Close() }()

	if err := store.Put(result.Report); err != nil {
		printVerbose("Could not record run: %v", err)
		return
	}

	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	if removed, err := store.Prune(retention); err == nil && removed > 0 {
		printVerbose("Pruned %d old run(s) from history", removed)
	}
}

// renderResult formats the run result with the selected formatter.
func renderResult(result *optimizer.RunResult) error {
	if getQuiet() {
		return nil
	}

	format := viper.GetString("output")
	formatter, err := output.Get(format)
	if err != nil {
		return fmt.Errorf("unknown output format %q (available: %s)",
			format, strings.Join(output.Available(), ", "))
	}

	res := &output.Result{
		Report:      result.Report,
		Tasks:       result.Tasks,
		MemoryTier:  string(result.Memory.Tier),
		AvailableGB: result.Memory.AvailableGB(),
		Workers:     result.Workers,
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, res); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())
	return nil
}
