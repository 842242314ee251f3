package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/history"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/memtier"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system state and the last optimization run",
	Long: `Display the current memory pressure tier, the worker pool it implies,
and a summary of the most recent optimization run.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus prints the memory tier and the last recorded run.
func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	metrics := sysmon.System()
	engine, err := memtier.NewEngine(cfg.Memory, metrics)
	if err != nil {
		return err
	}
	eval, err := engine.Evaluate()
	if err != nil {
		return fmt.Errorf("failed to read memory: %w", err)
	}

	printInfo("Memory:  %s tier (%s of %s available)",
		eval.Tier,
		humanize.IBytes(uint64(eval.Memory.Available)),
		humanize.IBytes(uint64(eval.Memory.Total)))
	printInfo("Workers: up to %d (pool cap %d, %d cores)",
		eval.Policy.MaxWorkers, cfg.MaxWorkers, metrics.CPUCount())

	last, err := lastRun(cfg)
	switch {
	case errors.Is(err, history.ErrNoRuns):
		printInfo("Last run: none recorded")
		return nil
	case err != nil:
		printVerbose("Could not read history: %v", err)
		return nil
	}

	state := "succeeded"
	if !last.Success {
		state = "failed"
	}
	printInfo("Last run: %s profile %q %s ago: %s (%d completed, %d failed)",
		state, last.Profile,
		time.Since(last.Timestamp).Round(time.Minute),
		last.RunID, last.TasksCompleted, last.TasksFailed)

	return nil
}

// lastRun opens the history store and returns the newest report.
func lastRun(cfg *config.Config) (*types.OptimizationReport, error) {
	path := cfg.History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}

	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()

	return store.Last()
}
