//go:build darwin

package sysmon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Memory returns a snapshot of system memory on darwin (macOS).
// Total physical memory comes from the hw.memsize sysctl. Precise available
// memory on macOS requires host_statistics, so a conservative 50% heuristic
// is used instead; that is sufficient for tier selection and pool sizing.
func (systemProvider) Memory() (MemoryStats, error) {
	memsize, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return MemoryStats{}, fmt.Errorf("sysctl hw.memsize: %w", err)
	}

	total := int64(memsize)
	return MemoryStats{Total: total, Available: total / 2}, nil
}
