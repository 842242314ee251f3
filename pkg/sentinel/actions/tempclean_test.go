package actions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// writeAged creates a file and backdates its modification time.
func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("stale data"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	return path
}

func cleanupRequest(dir string, params types.Params, diskPercent float64) Request {
	return Request{
		Params: params,
		Cleanup: config.CleanupConfig{
			CriticalDiskUsagePercent: 90,
			HighDiskUsagePercent:     75,
			CriticalAgeDays:          1,
			HighAgeDays:              7,
			NormalAgeDays:            30,
			Patterns:                 []string{"*.tmp", "tmp*", "*.log"},
			SkipPrefixes:             []string{"sys", "config", "important"},
			ExtraDirs:                []string{dir},
		},
		Metrics: sysmon.Static{DiskPercent: diskPercent},
	}
}

func TestCleanTempFilesRemovesStaleMatches(t *testing.T) {
	// Point the system temp dir somewhere disposable so only the test
	// tree is walked.
	sysTemp, err := os.MkdirTemp("", "sentinel-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(sysTemp) })
	t.Setenv("TMPDIR", sysTemp)

	dir := t.TempDir()
	stale := writeAged(t, dir, "build.tmp", 60*24*time.Hour)
	skipped := writeAged(t, dir, "system.tmp", 60*24*time.Hour)
	fresh := filepath.Join(dir, "today.tmp")
	if err := os.WriteFile(fresh, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	unmatched := writeAged(t, dir, "keep.dat", 60*24*time.Hour)

	action := &CleanTempFiles{}
	// Low disk usage selects the conservative 30 day threshold.
	got, err := action.Run(context.Background(), cleanupRequest(dir, nil, 40))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	outcome, ok := got.(*types.ActionOutcome)
	if !ok {
		t.Fatalf("Run returned %T, want *types.ActionOutcome", got)
	}
	if !outcome.Success {
		t.Errorf("outcome failed: %s / %s", outcome.Details, outcome.Warning)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale matching file survived")
	}
	for _, path := range []string{skipped, fresh, unmatched} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s was removed, want preserved", filepath.Base(path))
		}
	}
}

func TestCleanTempFilesDryRun(t *testing.T) {
	sysTemp, err := os.MkdirTemp("", "sentinel-test-*")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(sysTemp) })
	t.Setenv("TMPDIR", sysTemp)

	dir := t.TempDir()
	stale := writeAged(t, dir, "build.tmp", 60*24*time.Hour)

	action := &CleanTempFiles{}
	params := types.Params{"dry_run": true}
	got, err := action.Run(context.Background(), cleanupRequest(dir, params, 40))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	outcome := got.(*types.ActionOutcome)
	if !outcome.Success {
		t.Errorf("dry run failed: %s", outcome.Details)
	}

	if _, err := os.Stat(stale); err != nil {
		t.Error("dry run deleted a file")
	}
}

func TestCleanupLevel(t *testing.T) {
	tests := []struct {
		name        string
		diskPercent float64
		wantDays    int
		wantLevel   string
	}{
		{"low usage", 40, 30, "conservative"},
		{"high usage", 80, 7, "standard"},
		{"critical usage", 95, 1, "aggressive"},
		{"boundary stays standard", 90, 7, "standard"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := cleanupRequest(t.TempDir(), nil, tt.diskPercent)
			days, level := cleanupLevel(req, "/")
			if days != tt.wantDays || level != tt.wantLevel {
				t.Errorf("cleanupLevel = (%d, %q), want (%d, %q)",
					days, level, tt.wantDays, tt.wantLevel)
			}
		})
	}
}

func TestTempDirsDeduplicates(t *testing.T) {
	extra := t.TempDir()
	dirs := tempDirs([]string{extra, extra, os.TempDir(), ""})

	seen := make(map[string]int)
	for _, d := range dirs {
		seen[d]++
	}
	for d, n := range seen {
		if n > 1 {
			t.Errorf("directory %q appears %d times", d, n)
		}
	}
	if seen[filepath.Clean(extra)] != 1 {
		t.Error("extra dir missing from the list")
	}
}

func TestHasSkipPrefix(t *testing.T) {
	prefixes := []string{"sys", "config", "important"}

	tests := []struct {
		name string
		want bool
	}{
		{"system.tmp", true},
		{"SYSTEM.TMP", true},
		{"config_cache", true},
		{"important-doc", true},
		{"build.tmp", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := hasSkipPrefix(tt.name, prefixes); got != tt.want {
			t.Errorf("hasSkipPrefix(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestMatchesAnyPattern(t *testing.T) {
	patterns := []string{"*.tmp", "tmp*", "~*"}

	tests := []struct {
		name string
		want bool
	}{
		{"a.tmp", true},
		{"tmpfile", true},
		{"~lock", true},
		{"report.pdf", false},
	}
	for _, tt := range tests {
		if got := matchesAnyPattern(tt.name, patterns); got != tt.want {
			t.Errorf("matchesAnyPattern(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if !matchesAnyPattern("anything", nil) {
		t.Error("empty pattern list should match everything")
	}
}
