//go:build !linux && !darwin

package sysmon

// defaultTotalRAM is the fallback total RAM value when detection is not
// implemented for the platform. Set to 8GB as a reasonable default for
// modern systems.
const defaultTotalRAM = 8 * 1024 * 1024 * 1024

// Memory returns a conservative estimate of system memory on platforms
// without a native detection path.
func (systemProvider) Memory() (MemoryStats, error) {
	total := int64(defaultTotalRAM)

	return MemoryStats{
		Total:     total,
		Available: total / 2, // Conservative 50% estimate
	}, nil
}
