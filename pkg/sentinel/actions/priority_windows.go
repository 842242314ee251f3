//go:build windows

package actions

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// priorityClasses maps the configured priority names onto Windows process
// priority classes.
var priorityClasses = map[string]uint32{
	"low":          windows.IDLE_PRIORITY_CLASS,
	"below_normal": windows.BELOW_NORMAL_PRIORITY_CLASS,
	"normal":       windows.NORMAL_PRIORITY_CLASS,
	"above_normal": windows.ABOVE_NORMAL_PRIORITY_CLASS,
	"high":         windows.HIGH_PRIORITY_CLASS,
}

// setProcessPriority adjusts the current process's priority class.
func setProcessPriority(priority string) error {
	class, ok := priorityClasses[priority]
	if !ok {
		return fmt.Errorf("unknown priority %q", priority)
	}

	current, err := windows.GetPriorityClass(windows.CurrentProcess())
	if err != nil {
		return fmt.Errorf("get priority class: %w", err)
	}
	if current == class {
		return nil
	}

	if err := windows.SetPriorityClass(windows.CurrentProcess(), class); err != nil {
		return fmt.Errorf("set priority class %#x: %w", class, err)
	}
	return nil
}
