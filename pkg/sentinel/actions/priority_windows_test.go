//go:build windows

package actions

import "testing"

func TestSetProcessPriorityUnknownName(t *testing.T) {
	if err := setProcessPriority("turbo"); err == nil {
		t.Error("setProcessPriority accepted an unknown priority name")
	}
}

func TestSetProcessPriorityTierNames(t *testing.T) {
	// Every priority name a tier policy can request must map to a class.
	for _, name := range []string{"low", "below_normal", "normal", "above_normal", "high"} {
		if _, ok := priorityClasses[name]; !ok {
			t.Errorf("no priority class mapped for %q", name)
		}
	}
}

func TestSetProcessPriorityNormal(t *testing.T) {
	// Lowering or keeping priority needs no elevation.
	if err := setProcessPriority("normal"); err != nil {
		t.Errorf("setProcessPriority(normal) = %v", err)
	}
}
