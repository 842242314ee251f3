// Package registry holds the static catalog of optimization tasks and
// resolves a profile's overrides into the ordered task list for one run.
package registry

import (
	"errors"
	"fmt"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// Validation errors surfaced when a registry is constructed.
var (
	// ErrUnknownAction means a descriptor references an action outside
	// the built-in set.
	ErrUnknownAction = errors.New("unknown action")

	// ErrDuplicateTask means two descriptors share a name.
	ErrDuplicateTask = errors.New("duplicate task name")

	// ErrInvalidTimeout means a descriptor has a non-positive timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// Registry is the static catalog of known optimization tasks.
// Entry order is preserved; it breaks priority ties during resolution.
type Registry struct {
	entries []types.TaskDescriptor
	index   map[string]int
}

// New builds a registry from the given descriptors. Every descriptor must
// name a built-in action, carry a positive timeout, and have a unique name;
// a violation is a configuration error detected here, before any run starts.
func New(descriptors []types.TaskDescriptor) (*Registry, error) {
	r := &Registry{
		entries: make([]types.TaskDescriptor, 0, len(descriptors)),
		index:   make(map[string]int, len(descriptors)),
	}

	for _, d := range descriptors {
		if !d.Action.Valid() {
			return nil, fmt.Errorf("%w: task %q references %q", ErrUnknownAction, d.Name, d.Action)
		}
		if d.Timeout <= 0 {
			return nil, fmt.Errorf("%w: task %q", ErrInvalidTimeout, d.Name)
		}
		if _, exists := r.index[d.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTask, d.Name)
		}
		r.index[d.Name] = len(r.entries)
		r.entries = append(r.entries, d.Clone())
	}

	return r, nil
}

// Default returns the registry of built-in tasks.
func Default() *Registry {
	r, err := New(DefaultTasks())
	if err != nil {
		// The built-in catalog is compiled in and always valid.
		panic(err)
	}
	return r
}

// DefaultTasks returns the built-in task catalog.
func DefaultTasks() []types.TaskDescriptor {
	return []types.TaskDescriptor{
		{
			Name:     "memory_optimization",
			Action:   types.ActionAdjustMemory,
			Priority: 1,
			Critical: true,
			Timeout:  300 * time.Second,
			Enabled:  true,
		},
		{
			Name:     "temp_cleanup",
			Action:   types.ActionCleanTempFiles,
			Priority: 2,
			Critical: false,
			Timeout:  600 * time.Second,
			Enabled:  true,
		},
		{
			Name:     "disk_defrag",
			Action:   types.ActionDefragmentDisk,
			Priority: 3,
			Critical: false,
			Timeout:  3600 * time.Second,
			Enabled:  true,
			OSGate:   "windows",
		},
		{
			Name:     "theme_performance",
			Action:   types.ActionThemePerformance,
			Priority: 4,
			Critical: false,
			Timeout:  60 * time.Second,
			Enabled:  true,
			OSGate:   "windows",
			Params:   types.Params{"optimize_for_performance": true},
		},
		{
			Name:     "startup_audit",
			Action:   types.ActionStartupAudit,
			Priority: 5,
			Critical: false,
			Timeout:  120 * time.Second,
			Enabled:  true,
		},
		{
			Name:     "dns_cache_flush",
			Action:   types.ActionFlushDNSCache,
			Priority: 6,
			Critical: false,
			Timeout:  60 * time.Second,
			Enabled:  false,
		},
	}
}

// Tasks returns a copy of the catalog in insertion order.
func (r *Registry) Tasks() []types.TaskDescriptor {
	out := make([]types.TaskDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Clone())
	}
	return out
}

// Get returns the descriptor for a task name.
func (r *Registry) Get(name string) (types.TaskDescriptor, bool) {
	i, ok := r.index[name]
	if !ok {
		return types.TaskDescriptor{}, false
	}
	return r.entries[i].Clone(), true
}

// Len returns the number of catalog entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
