package registry

import (
	"strings"
	"testing"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

func testRegistry(t *testing.T, descs []types.TaskDescriptor) *Registry {
	t.Helper()
	reg, err := New(descs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return reg
}

func TestResolveOrdering(t *testing.T) {
	reg := testRegistry(t, []types.TaskDescriptor{
		{Name: "c", Action: types.ActionFlushDNSCache, Priority: 2, Timeout: time.Minute, Enabled: true},
		{Name: "a", Action: types.ActionStartupAudit, Priority: 1, Timeout: time.Minute, Enabled: true},
		{Name: "b", Action: types.ActionCleanTempFiles, Priority: 2, Timeout: time.Minute, Enabled: true},
	})
	r := NewResolverForOS(reg, "linux")

	tasks, warnings := r.Resolve(types.Profile{Name: "default"})
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	// Ascending priority, insertion order on ties.
	want := []string{"a", "c", "b"}
	if len(tasks) != len(want) {
		t.Fatalf("Resolve returned %d tasks, want %d", len(tasks), len(want))
	}
	for i, name := range want {
		if tasks[i].Name != name {
			t.Errorf("tasks[%d] = %q, want %q", i, tasks[i].Name, name)
		}
	}
}

func TestResolveFiltersDisabledAndGated(t *testing.T) {
	reg := testRegistry(t, []types.TaskDescriptor{
		{Name: "runs", Action: types.ActionStartupAudit, Priority: 1, Timeout: time.Minute, Enabled: true},
		{Name: "off", Action: types.ActionFlushDNSCache, Priority: 2, Timeout: time.Minute, Enabled: false},
		{Name: "windows_only", Action: types.ActionDefragmentDisk, Priority: 3, Timeout: time.Minute, Enabled: true, OSGate: "windows"},
	})
	r := NewResolverForOS(reg, "linux")

	tasks, _ := r.Resolve(types.Profile{Name: "default"})
	if len(tasks) != 1 || tasks[0].Name != "runs" {
		t.Errorf("Resolve = %v, want only the enabled ungated task", tasks)
	}
}

func TestResolveOverrides(t *testing.T) {
	base := []types.TaskDescriptor{
		{Name: "task", Action: types.ActionCleanTempFiles, Priority: 2, Timeout: 600 * time.Second, Enabled: true},
	}

	tests := []struct {
		name         string
		override     string
		wantTasks    int
		wantPriority int
		wantTimeout  time.Duration
		wantWarnings int
	}{
		{
			name:      "disable",
			override:  "false",
			wantTasks: 0,
		},
		{
			name:         "full override",
			override:     "true;1;300",
			wantTasks:    1,
			wantPriority: 1,
			wantTimeout:  300 * time.Second,
		},
		{
			name:         "malformed priority reverts that field only",
			override:     "true;abc;60",
			wantTasks:    1,
			wantPriority: 2,
			wantTimeout:  60 * time.Second,
			wantWarnings: 1,
		},
		{
			name:         "negative timeout reverts",
			override:     "true;1;-5",
			wantTasks:    1,
			wantPriority: 1,
			wantTimeout:  600 * time.Second,
			wantWarnings: 1,
		},
		{
			name:         "empty fields keep defaults",
			override:     ";;120",
			wantTasks:    1,
			wantPriority: 2,
			wantTimeout:  120 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolverForOS(testRegistry(t, base), "linux")
			profile := types.Profile{
				Name:      "custom",
				Overrides: map[string]string{"task": tt.override},
			}

			tasks, warnings := r.Resolve(profile)
			if len(tasks) != tt.wantTasks {
				t.Fatalf("Resolve returned %d tasks, want %d", len(tasks), tt.wantTasks)
			}
			if len(warnings) != tt.wantWarnings {
				t.Errorf("warnings = %v, want %d", warnings, tt.wantWarnings)
			}
			if tt.wantTasks == 0 {
				return
			}
			if tasks[0].Priority != tt.wantPriority {
				t.Errorf("Priority = %d, want %d", tasks[0].Priority, tt.wantPriority)
			}
			if tasks[0].Timeout != tt.wantTimeout {
				t.Errorf("Timeout = %s, want %s", tasks[0].Timeout, tt.wantTimeout)
			}
		})
	}
}

func TestResolveOverrideParams(t *testing.T) {
	reg := testRegistry(t, []types.TaskDescriptor{
		{Name: "task", Action: types.ActionThemePerformance, Priority: 1, Timeout: time.Minute,
			Enabled: true, Params: types.Params{"optimize_for_performance": true}},
	})
	r := NewResolverForOS(reg, "windows")

	profile := types.Profile{
		Name:      "custom",
		Overrides: map[string]string{"task": "true;;;optimize_for_performance=false;level=3;mode=dark"},
	}

	tasks, warnings := r.Resolve(profile)
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(tasks) != 1 {
		t.Fatalf("Resolve returned %d tasks, want 1", len(tasks))
	}

	params := tasks[0].Params
	if v, ok := params["optimize_for_performance"].(bool); !ok || v {
		t.Errorf("optimize_for_performance = %v, want false", params["optimize_for_performance"])
	}
	if v, ok := params["level"].(int64); !ok || v != 3 {
		t.Errorf("level = %v, want int64 3", params["level"])
	}
	if v, ok := params["mode"].(string); !ok || v != "dark" {
		t.Errorf("mode = %v, want %q", params["mode"], "dark")
	}
}

func TestResolveOverrideDoesNotMutateRegistry(t *testing.T) {
	reg := testRegistry(t, []types.TaskDescriptor{
		{Name: "task", Action: types.ActionCleanTempFiles, Priority: 2, Timeout: time.Minute, Enabled: true},
	})
	r := NewResolverForOS(reg, "linux")

	_, _ = r.Resolve(types.Profile{
		Name:      "custom",
		Overrides: map[string]string{"task": "true;9"},
	})

	task, _ := reg.Get("task")
	if task.Priority != 2 {
		t.Errorf("registry default mutated: priority = %d", task.Priority)
	}
}

func TestResolveUnknownOverrideIgnored(t *testing.T) {
	reg := testRegistry(t, []types.TaskDescriptor{
		{Name: "task", Action: types.ActionCleanTempFiles, Priority: 1, Timeout: time.Minute, Enabled: true},
	})
	r := NewResolverForOS(reg, "linux")

	tasks, warnings := r.Resolve(types.Profile{
		Name:      "custom",
		Overrides: map[string]string{"ghost": "false"},
	})
	if len(tasks) != 1 {
		t.Errorf("Resolve returned %d tasks, want 1", len(tasks))
	}
	for _, w := range warnings {
		if strings.Contains(w, "ghost") {
			t.Errorf("unexpected warning for unknown task: %q", w)
		}
	}
}
