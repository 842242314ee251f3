// Package sysmon provides system resource detection for the sentinel PC
// optimizer. It reports CPU cores, total and available RAM, and disk usage,
// using platform syscalls where available and conservative estimates
// elsewhere.
package sysmon

import "runtime"

// MemoryStats contains a snapshot of system memory.
type MemoryStats struct {
	// Total is the total physical RAM in bytes.
	Total int64

	// Available is the available (free) RAM in bytes.
	// This may be an estimate based on system heuristics.
	Available int64
}

// UsedPercent returns the percentage of memory in use.
func (m MemoryStats) UsedPercent() float64 {
	if m.Total <= 0 {
		return 0
	}
	used := m.Total - m.Available
	if used < 0 {
		used = 0
	}
	return float64(used) / float64(m.Total) * 100
}

// Provider supplies live system metrics on demand.
// Calls are blocking and synchronous.
type Provider interface {
	// Memory returns a snapshot of system memory.
	Memory() (MemoryStats, error)

	// CPUCount returns the number of logical CPU cores.
	CPUCount() int

	// DiskUsagePercent returns the used percentage of the filesystem
	// containing path.
	DiskUsagePercent(path string) (float64, error)
}

// systemProvider reads metrics from the running system.
type systemProvider struct{}

// System returns a Provider backed by the running system.
func System() Provider {
	return systemProvider{}
}

// CPUCount returns the number of logical CPU cores.
func (systemProvider) CPUCount() int {
	return runtime.NumCPU()
}

// Static is a fixed-value Provider for tests.
type Static struct {
	MemTotal     int64
	MemAvailable int64
	CPUs         int
	DiskPercent  float64
	Err          error
}

// Memory returns the configured memory values.
func (s Static) Memory() (MemoryStats, error) {
	if s.Err != nil {
		return MemoryStats{}, s.Err
	}
	return MemoryStats{Total: s.MemTotal, Available: s.MemAvailable}, nil
}

// CPUCount returns the configured core count.
func (s Static) CPUCount() int {
	if s.CPUs <= 0 {
		return 1
	}
	return s.CPUs
}

// DiskUsagePercent returns the configured disk usage.
func (s Static) DiskUsagePercent(string) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.DiskPercent, nil
}
