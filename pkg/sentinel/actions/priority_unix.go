//go:build linux || darwin

package actions

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// niceLevels maps the configured priority names onto unix nice values.
// Raising priority (negative nice) requires elevated privileges; the caller
// treats a failure as advisory.
var niceLevels = map[string]int{
	"low":          19,
	"below_normal": 10,
	"normal":       0,
	"above_normal": -5,
	"high":         -10,
}

// setProcessPriority adjusts the current process's nice value.
func setProcessPriority(priority string) error {
	nice, ok := niceLevels[priority]
	if !ok {
		return fmt.Errorf("unknown priority %q", priority)
	}

	current, err := unix.Getpriority(unix.PRIO_PROCESS, 0)
	if err != nil {
		return fmt.Errorf("getpriority: %w", err)
	}
	if current == nice {
		return nil
	}

	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, nice); err != nil {
		return fmt.Errorf("setpriority %d: %w", nice, err)
	}
	return nil
}
