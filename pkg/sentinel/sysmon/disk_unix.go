//go:build linux || darwin

package sysmon

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// DiskUsagePercent returns the used percentage of the filesystem containing
// path, based on statfs(2).
func (systemProvider) DiskUsagePercent(path string) (float64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}

	total := st.Blocks * uint64(st.Bsize)
	if total == 0 {
		return 0, nil
	}
	free := st.Bavail * uint64(st.Bsize)
	used := total - free

	return float64(used) / float64(total) * 100, nil
}
