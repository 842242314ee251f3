package actions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/dustin/go-humanize"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// CleanTempFiles removes stale files from the system temp directories.
// Disk pressure selects the age threshold: the fuller the filesystem, the
// younger a file may be and still be removed. Files matching a skip prefix
// are always preserved.
type CleanTempFiles struct{}

// Kind identifies the action.
func (*CleanTempFiles) Kind() types.ActionKind {
	return types.ActionCleanTempFiles
}

// cleanStats collects cleanup counters across walk goroutines.
type cleanStats struct {
	removed    atomic.Int64
	preserved  atomic.Int64
	bytesFreed atomic.Int64

	mu     sync.Mutex
	errors []string
}

// addError records a per-file failure without stopping the walk.
func (s *cleanStats) addError(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, fmt.Sprintf("%s: %v", path, err))
}

// Run walks the temp directories and removes stale files.
// The "dry_run" parameter reports what would be removed without deleting.
func (*CleanTempFiles) Run(ctx context.Context, req Request) (any, error) {
	log := logging.Get("actions")
	cfg := req.Cleanup

	dirs := tempDirs(cfg.ExtraDirs)
	if len(dirs) == 0 {
		return &types.ActionOutcome{
			Success: true,
			Details: "no temp directories found to clean",
		}, nil
	}

	ageDays, level := cleanupLevel(req, dirs[0])
	cutoff := time.Now().Add(-time.Duration(ageDays) * 24 * time.Hour)
	dryRun := req.BoolParam("dry_run", false)

	log.Info("starting temp cleanup",
		"dirs", strings.Join(dirs, ","),
		"level", level,
		"age_days", ageDays,
		"dry_run", dryRun)

	stats := &cleanStats{}
	for _, dir := range dirs {
		if err := cleanDir(ctx, dir, cfg.Patterns, cfg.SkipPrefixes, cutoff, dryRun, stats); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			stats.addError(dir, err)
		}
	}

	freed := stats.bytesFreed.Load()
	verb := "removed"
	if dryRun {
		verb = "would remove"
	}
	details := fmt.Sprintf("%s cleanup (age > %dd): %s %d files (%s), %d preserved, %d errors",
		level, ageDays, verb, stats.removed.Load(), humanize.IBytes(uint64(freed)),
		stats.preserved.Load(), len(stats.errors))
	log.Info("temp cleanup finished", "details", details)

	outcome := &types.ActionOutcome{
		Success: len(stats.errors) == 0,
		Details: details,
	}
	if len(stats.errors) > 0 {
		outcome.Warning = strings.Join(stats.errors, "; ")
	}
	return outcome, nil
}

// cleanDir walks one directory and removes matching files.
func cleanDir(ctx context.Context, dir string, patterns, skipPrefixes []string, cutoff time.Time, dryRun bool, stats *cleanStats) error {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil
	}

	conf := fastwalk.Config{
		Follow: false, // Never follow symlinks out of the temp tree.
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		<-walkCtx.Done()
		close(done)
	}()

	err := fastwalk.Walk(&conf, dir, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-done:
			return ctx.Err()
		default:
		}

		if err != nil {
			stats.addError(path, err)
			return nil
		}
		if path == dir || d.IsDir() {
			return nil
		}

		name := d.Name()
		if hasSkipPrefix(name, skipPrefixes) {
			stats.preserved.Add(1)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			stats.addError(path, err)
			return nil
		}
		if info.ModTime().After(cutoff) {
			stats.preserved.Add(1)
			return nil
		}
		if !matchesAnyPattern(name, patterns) {
			stats.preserved.Add(1)
			return nil
		}

		size := info.Size()
		if !dryRun {
			if err := os.Remove(path); err != nil {
				stats.addError(path, err)
				return nil
			}
		}
		stats.removed.Add(1)
		stats.bytesFreed.Add(size)
		return nil
	})

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

// cleanupLevel picks the age threshold from the disk usage of the first
// temp directory. A failed usage read falls back to the conservative level.
func cleanupLevel(req Request, probeDir string) (ageDays int, level string) {
	cfg := req.Cleanup

	usedPercent, err := req.Metrics.DiskUsagePercent(probeDir)
	if err != nil {
		logging.Get("actions").Warn("could not read disk usage, using conservative cleanup",
			"dir", probeDir, "error", err)
		return cfg.NormalAgeDays, "conservative"
	}

	switch {
	case usedPercent > cfg.CriticalDiskUsagePercent:
		return cfg.CriticalAgeDays, "aggressive"
	case usedPercent > cfg.HighDiskUsagePercent:
		return cfg.HighAgeDays, "standard"
	default:
		return cfg.NormalAgeDays, "conservative"
	}
}

// tempDirs returns the temp directories to clean: the system temp dir,
// platform extras, and any configured extra dirs, deduplicated.
func tempDirs(extra []string) []string {
	seen := make(map[string]struct{})
	var dirs []string
	add := func(dir string) {
		if dir == "" {
			return
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			return
		}
		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	add(os.TempDir())
	if runtime.GOOS == "linux" {
		add("/var/tmp")
	}
	for _, dir := range extra {
		add(dir)
	}
	return dirs
}

// hasSkipPrefix checks the basename against the preserve prefixes.
func hasSkipPrefix(name string, prefixes []string) bool {
	lower := strings.ToLower(name)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// matchesAnyPattern checks the basename against the removal patterns.
// An empty pattern list matches everything old enough.
func matchesAnyPattern(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matched, err := filepath.Match(pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}
