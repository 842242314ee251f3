package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/registry"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List configured optimization profiles",
	Long: `List the optimization profiles from the configuration, with the task
plan each one resolves to.

Profile overrides use the positional format "enabled;priority;timeout;key=value;..."
on top of the built-in task registry.`,
	RunE: runProfiles,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List the built-in optimization tasks",
	Long:  `List every task in the built-in registry with its defaults.`,
	RunE:  runTasks,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	rootCmd.AddCommand(tasksCmd)
}

// runProfiles lists profiles and their resolved task plans.
func runProfiles(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	resolver := registry.NewResolver(registry.Default())
	for _, name := range names {
		marker := " "
		if name == cfg.DefaultProfile {
			marker = "*"
		}
		printInfo("%s %s", marker, name)

		plan, warnings := resolver.Resolve(types.Profile{
			Name:      name,
			Overrides: cfg.Profiles[name],
		})
		for _, task := range plan {
			printInfo("    %d. %-22s timeout %s", task.Priority, task.Name, task.Timeout)
		}
		for _, warning := range warnings {
			printInfo("    ! %s", warning)
		}
	}
	return nil
}

// runTasks prints the registry defaults.
func runTasks(cmd *cobra.Command, args []string) error {
	for _, task := range registry.Default().Tasks() {
		state := "enabled"
		if !task.Enabled {
			state = "disabled"
		}
		critical := ""
		if task.Critical {
			critical = " critical"
		}
		gate := ""
		if task.OSGate != "" {
			gate = fmt.Sprintf(" (%s only)", task.OSGate)
		}
		printInfo("%d. %-22s %s%s  action=%s timeout=%s%s",
			task.Priority, task.Name, state, critical, task.Action, task.Timeout, gate)
	}
	return nil
}
