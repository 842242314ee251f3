package registry

import (
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// Resolver overlays a profile's overrides onto the registry defaults and
// produces the filtered, ordered task list for one run.
type Resolver struct {
	reg  *Registry
	goos string
	log  *logging.Logger
}

// NewResolver creates a resolver for the current operating system.
func NewResolver(reg *Registry) *Resolver {
	return &Resolver{
		reg:  reg,
		goos: runtime.GOOS,
		log:  logging.Get("resolver"),
	}
}

// NewResolverForOS creates a resolver that gates tasks against the given
// GOOS value instead of the running system's. Tests use this to exercise
// OS-gated entries deterministically.
func NewResolverForOS(reg *Registry, goos string) *Resolver {
	return &Resolver{
		reg:  reg,
		goos: goos,
		log:  logging.Get("resolver"),
	}
}

// Resolve applies the profile to the registry defaults and returns the tasks
// to run, sorted by ascending priority with ties kept in registry insertion
// order. Malformed override fields revert to the registry default for that
// field only and are reported as warnings, never as errors. Disabled tasks
// and tasks gated to another operating system are filtered out.
func (r *Resolver) Resolve(profile types.Profile) ([]types.TaskDescriptor, []string) {
	var warnings []string
	resolved := make([]types.TaskDescriptor, 0, r.reg.Len())

	for _, task := range r.reg.Tasks() {
		if raw, ok := profile.Overrides[task.Name]; ok {
			warnings = append(warnings, r.applyOverride(&task, profile.Name, raw)...)
		}

		if !task.Enabled {
			r.log.Debug("task disabled", "task", task.Name, "profile", profile.Name)
			continue
		}
		if task.OSGate != "" && task.OSGate != r.goos {
			r.log.Debug("task gated to another OS", "task", task.Name, "os", task.OSGate)
			continue
		}

		resolved = append(resolved, task)
	}

	// Stable sort keeps registry insertion order on priority ties.
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Priority < resolved[j].Priority
	})

	return resolved, warnings
}

// applyOverride parses the positional override string
// "enabled;priority;timeout;key=value;..." onto the descriptor.
// Trailing fields are optional. A field that fails to parse reverts to the
// registry default for that field only; the returned warnings describe every
// reverted field.
func (r *Resolver) applyOverride(task *types.TaskDescriptor, profileName, raw string) []string {
	var warnings []string
	warn := func(field, value string) {
		msg := fmt.Sprintf("profile %q task %q: invalid %s %q, keeping default",
			profileName, task.Name, field, value)
		r.log.Warn("invalid override field",
			"profile", profileName, "task", task.Name, "field", field, "value", value)
		warnings = append(warnings, msg)
	}

	parts := strings.Split(raw, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) > 0 && parts[0] != "" {
		if enabled, err := strconv.ParseBool(parts[0]); err == nil {
			task.Enabled = enabled
		} else {
			warn("enabled", parts[0])
		}
	}

	if len(parts) > 1 && parts[1] != "" {
		if priority, err := strconv.Atoi(parts[1]); err == nil {
			task.Priority = priority
		} else {
			warn("priority", parts[1])
		}
	}

	if len(parts) > 2 && parts[2] != "" {
		if secs, err := strconv.Atoi(parts[2]); err == nil && secs > 0 {
			task.Timeout = time.Duration(secs) * time.Second
		} else {
			warn("timeout", parts[2])
		}
	}

	if len(parts) > 3 {
		params := task.Params.Clone()
		if params == nil {
			params = make(types.Params)
		}
		for _, kv := range parts[3:] {
			if kv == "" {
				continue
			}
			key, value, found := strings.Cut(kv, "=")
			if !found {
				warn("param", kv)
				continue
			}
			params[strings.TrimSpace(key)] = parseScalar(strings.TrimSpace(value))
		}
		task.Params = params
	}

	return warnings
}

// parseScalar converts an override parameter value to bool, int64, float64,
// or string, in that order of preference.
func parseScalar(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
