package actions

import (
	"context"
	"fmt"
	"runtime"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// FlushDNSCache flushes the operating system DNS resolver cache.
// It returns a bare bool, exercising the boolean branch of the action
// contract.
type FlushDNSCache struct{}

// Kind identifies the action.
func (*FlushDNSCache) Kind() types.ActionKind {
	return types.ActionFlushDNSCache
}

// Run flushes the resolver cache for the current platform.
func (*FlushDNSCache) Run(ctx context.Context, _ Request) (any, error) {
	log := logging.Get("actions")

	switch runtime.GOOS {
	case "windows":
		if err := runCommand(ctx, "ipconfig", "/flushdns"); err != nil {
			return false, err
		}
	case "darwin":
		if err := runCommand(ctx, "dscacheutil", "-flushcache"); err != nil {
			return false, err
		}
		// Best effort: also poke mDNSResponder so it reloads.
		if err := runCommand(ctx, "killall", "-HUP", "mDNSResponder"); err != nil {
			log.Warn("could not signal mDNSResponder", "error", err)
		}
	case "linux":
		if err := runCommand(ctx, "resolvectl", "flush-caches"); err != nil {
			// Older systemd installs ship the command under another name.
			if err2 := runCommand(ctx, "systemd-resolve", "--flush-caches"); err2 != nil {
				return false, fmt.Errorf("flush dns: %w", err)
			}
		}
	default:
		return false, fmt.Errorf("dns cache flush not supported on %s", runtime.GOOS)
	}

	log.Info("dns cache flushed")
	return true, nil
}
