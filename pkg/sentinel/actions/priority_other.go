//go:build !linux && !darwin && !windows

package actions

import "fmt"

// setProcessPriority is not implemented on this platform.
func setProcessPriority(priority string) error {
	return fmt.Errorf("process priority adjustment not supported on this platform (requested %q)", priority)
}
