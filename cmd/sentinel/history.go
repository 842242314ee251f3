package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past optimization runs",
	Long: `View the recorded history of optimization runs: when they ran, which
profile they used, and how many tasks completed or failed.`,
	RunE: runHistory,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove run reports older than the retention period.`,
	RunE:  runHistoryClean,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show")

	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the history store at the configured path.
func openHistory() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	if err := config.EnsureDataDir(); err != nil {
		return nil, err
	}
	return history.Open(path)
}

// runHistory lists recorded runs, newest first.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reports, err := store.List(historyLimit)
	if err != nil && !errors.Is(err, history.ErrNoRuns) {
		return err
	}
	if len(reports) == 0 {
		printInfo("No runs recorded yet.")
		return nil
	}

	for _, rep := range reports {
		state := "ok  "
		if !rep.Success {
			state = "fail"
		}
		printInfo("%s  %s  %-14s %2d completed %2d failed  %s",
			rep.Timestamp.Format(time.DateTime), state, rep.Profile,
			rep.TasksCompleted, rep.TasksFailed, rep.RunID)
	}
	return nil
}

// runHistoryClean prunes runs past the retention period.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	removed, err := store.Prune(retention)
	if err != nil {
		return fmt.Errorf("failed to prune history: %w", err)
	}
	printInfo("Removed %d run(s) older than %d days.", removed, cfg.History.RetentionDays)
	return nil
}
