package actions

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// commandTimeout bounds helper commands that run outside a task's own
// deadline.
const commandTimeout = 30 * time.Second

// runCommand runs a command under the given context and returns its
// combined output on failure for diagnostics.
func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w (%s)", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// clearSystemCache asks the operating system to release cached memory.
// On linux this syncs filesystem buffers and, when running as root, drops
// the page cache. On macOS it runs purge, which needs sudo. On other
// platforms it reports unsupported.
func clearSystemCache(ctx context.Context) error {
	switch runtime.GOOS {
	case "linux":
		if err := runCommand(ctx, "sync"); err != nil {
			return err
		}
		if os.Geteuid() != 0 {
			// Dropping caches needs root; sync alone is still useful.
			return nil
		}
		if err := os.WriteFile("/proc/sys/vm/drop_caches", []byte("3"), 0o200); err != nil {
			return fmt.Errorf("drop_caches: %w", err)
		}
		return nil
	case "darwin":
		return runCommand(ctx, "purge")
	case "windows":
		// No direct user-mode cache drop; flushing DNS is the closest
		// commonly available equivalent.
		return runCommand(ctx, "ipconfig", "/flushdns")
	default:
		return fmt.Errorf("cache clearing not supported on %s", runtime.GOOS)
	}
}
