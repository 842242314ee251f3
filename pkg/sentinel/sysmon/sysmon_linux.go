//go:build linux

package sysmon

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Memory returns a snapshot of system memory on linux.
// Totals come from sysinfo(2); available memory prefers MemAvailable from
// /proc/meminfo, which accounts for reclaimable page cache, falling back to
// free+buffered from sysinfo when the field is missing.
func (systemProvider) Memory() (MemoryStats, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return MemoryStats{}, fmt.Errorf("sysinfo: %w", err)
	}

	unit := int64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	total := int64(info.Totalram) * unit

	available, err := readMemAvailable()
	if err != nil {
		available = (int64(info.Freeram) + int64(info.Bufferram)) * unit
	}

	return MemoryStats{Total: total, Available: available}, nil
}

// readMemAvailable parses the MemAvailable line from /proc/meminfo.
// The value is reported in kB.
func readMemAvailable() (int64, error) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			break
		}
		kb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, err
		}
		return kb * 1024, nil
	}

	return 0, fmt.Errorf("MemAvailable not found in /proc/meminfo")
}
