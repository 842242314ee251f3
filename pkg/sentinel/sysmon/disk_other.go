//go:build !linux && !darwin

package sysmon

// DiskUsagePercent is not implemented on this platform. It reports zero
// usage, which selects the most conservative cleanup level.
func (systemProvider) DiskUsagePercent(string) (float64, error) {
	return 0, nil
}
