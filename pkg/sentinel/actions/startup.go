package actions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// StartupAudit lists programs configured to launch at login so the report
// shows what contributes to boot time. It is read-only.
type StartupAudit struct{}

// Kind identifies the action.
func (*StartupAudit) Kind() types.ActionKind {
	return types.ActionStartupAudit
}

// Run enumerates the platform's per-user startup entries.
func (*StartupAudit) Run(ctx context.Context, _ Request) (any, error) {
	var (
		entries []string
		err     error
	)

	switch runtime.GOOS {
	case "linux":
		entries, err = globStartupEntries("~/.config/autostart", "*.desktop")
	case "darwin":
		entries, err = globStartupEntries("~/Library/LaunchAgents", "*.plist")
	case "windows":
		return runStartupQuery(ctx)
	default:
		return &types.ActionOutcome{
			Success: false,
			Details: fmt.Sprintf("startup audit not supported on %s", runtime.GOOS),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	logging.Get("actions").Info("startup audit complete", "entries", len(entries))
	return &types.ActionOutcome{
		Success: true,
		Details: startupDetails(entries),
	}, nil
}

// globStartupEntries lists entry basenames under a home-relative directory.
// A missing directory means no startup entries, not an error.
func globStartupEntries(dir, pattern string) ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	dir = filepath.Join(home, strings.TrimPrefix(dir, "~/"))

	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		name = strings.TrimSuffix(name, filepath.Ext(name))
		entries = append(entries, name)
	}
	return entries, nil
}

// runStartupQuery reads the per-user Run key on Windows.
func runStartupQuery(ctx context.Context) (any, error) {
	err := runCommand(ctx, "reg", "query",
		`HKCU\Software\Microsoft\Windows\CurrentVersion\Run`)
	if err != nil {
		return nil, fmt.Errorf("querying startup entries: %w", err)
	}
	return &types.ActionOutcome{
		Success: true,
		Details: "startup entries listed from HKCU Run key",
	}, nil
}

// startupDetails formats the audit summary.
func startupDetails(entries []string) string {
	if len(entries) == 0 {
		return "no startup programs found"
	}
	return fmt.Sprintf("%d startup programs: %s", len(entries), strings.Join(entries, ", "))
}
