// Package types provides core data types for the sentinel PC optimizer.
// It includes task descriptors, per-task results, and the aggregated
// optimization report, along with the closed set of known action kinds.
package types

import (
	"time"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// ActionKind identifies one of the built-in optimization actions.
// The set is closed: descriptors referencing an unknown kind are rejected
// when the registry is constructed, not silently skipped at run time.
type ActionKind string

const (
	// ActionAdjustMemory applies the memory tier policy: it persists the
	// chosen worker count and requests a process priority change and/or a
	// cache clear.
	ActionAdjustMemory ActionKind = "adjust_memory_usage"

	// ActionCleanTempFiles removes stale files from the system temp
	// directories based on age, patterns, and disk usage.
	ActionCleanTempFiles ActionKind = "clean_temp_files"

	// ActionDefragmentDisk runs the platform disk defragmentation tool.
	ActionDefragmentDisk ActionKind = "defragment_disk"

	// ActionThemePerformance adjusts desktop theme settings for performance.
	ActionThemePerformance ActionKind = "adjust_theme_performance"

	// ActionFlushDNSCache flushes the operating system DNS resolver cache.
	ActionFlushDNSCache ActionKind = "flush_dns_cache"

	// ActionStartupAudit lists programs configured to run at login.
	ActionStartupAudit ActionKind = "startup_audit"
)

// Valid returns true if the kind is a known action.
func (k ActionKind) Valid() bool {
	switch k {
	case ActionAdjustMemory, ActionCleanTempFiles, ActionDefragmentDisk,
		ActionThemePerformance, ActionFlushDNSCache, ActionStartupAudit:
		return true
	default:
		return false
	}
}

// Params holds scalar task parameters parsed from profile overrides.
// Values are bool, int64, float64, or string.
type Params map[string]any

// Clone returns a shallow copy of the parameter map.
// Values are scalars, so a shallow copy is sufficient.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// TaskDescriptor describes one optimization task: which action it runs and
// how it is scheduled. The registry owns the defaults; the resolver hands a
// per-run copy to the executor.
type TaskDescriptor struct {
	// Name uniquely identifies the task within a run.
	Name string `json:"name"`

	// Action is the built-in action this task invokes.
	Action ActionKind `json:"action"`

	// Priority orders tasks ascending; ties keep registry insertion order.
	Priority int `json:"priority"`

	// Critical marks tasks whose failure aborts the run's success.
	Critical bool `json:"critical"`

	// Timeout is the maximum time to wait for the task to complete.
	Timeout time.Duration `json:"timeout"`

	// Enabled controls whether the task is scheduled at all.
	Enabled bool `json:"enabled"`

	// OSGate restricts the task to one GOOS value ("windows", "linux",
	// "darwin"). Empty means the task runs everywhere.
	OSGate string `json:"os_gate,omitempty"`

	// Params are passed to the action.
	Params Params `json:"params,omitempty"`
}

// Clone returns a copy of the descriptor with its own parameter map.
func (d TaskDescriptor) Clone() TaskDescriptor {
	out := d
	out.Params = d.Params.Clone()
	return out
}

// Profile is a named set of per-task override strings applied on top of the
// registry defaults for one run. The override format is positional:
// "enabled;priority;timeout;key=value;..." with trailing fields optional.
type Profile struct {
	// Name is the profile name.
	Name string `json:"name"`

	// Overrides maps task names to override strings.
	Overrides map[string]string `json:"overrides"`
}

// ErrorKind classifies why a task failed.
type ErrorKind string

const (
	// ErrorTimeout means the task did not complete within its timeout.
	// The action may still be running; the wait was abandoned.
	ErrorTimeout ErrorKind = "timeout"

	// ErrorException means the action returned an error or panicked.
	ErrorException ErrorKind = "exception"

	// ErrorUnexpectedReturn means the action returned a value outside the
	// action contract. The task is treated as successful with a warning.
	ErrorUnexpectedReturn ErrorKind = "unexpected-return"
)

// ConfigChange is a requested configuration write captured during a run and
// applied only after the run completes.
type ConfigChange struct {
	// Key is the configuration key to write.
	Key string `json:"key"`

	// Value is the new value.
	Value any `json:"value"`
}

// ActionOutcome is the structured result an action may return instead of a
// bare boolean.
type ActionOutcome struct {
	// Success reports whether the action achieved its goal.
	Success bool `json:"success"`

	// Details is a human-readable summary.
	Details string `json:"details,omitempty"`

	// Warning carries a non-fatal problem surfaced in the report.
	Warning string `json:"warning,omitempty"`

	// Changes are configuration writes to apply after the run.
	Changes []ConfigChange `json:"changes,omitempty"`
}

// TaskResult records the outcome of a single executed task.
type TaskResult struct {
	// Name is the task name.
	Name string `json:"name"`

	// Success reports whether the task completed successfully.
	Success bool `json:"success"`

	// ErrorKind classifies the failure (or the unexpected-return warning).
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// Details describes the outcome or the failure.
	Details string `json:"details,omitempty"`

	// Warning carries a non-fatal problem reported by the action.
	Warning string `json:"warning,omitempty"`

	// Duration is how long the task ran (or was waited on).
	Duration time.Duration `json:"duration"`

	// Critical is copied from the descriptor so the aggregator can decide
	// whether the failure aborts the run.
	Critical bool `json:"critical"`

	// Changes are configuration writes requested by the action.
	Changes []ConfigChange `json:"changes,omitempty"`
}

// FailureDetail summarizes one failed task inside a report.
type FailureDetail struct {
	// Name is the failed task's name.
	Name string `json:"name"`

	// ErrorKind classifies the failure.
	ErrorKind ErrorKind `json:"error_kind"`

	// Details describes the failure.
	Details string `json:"details,omitempty"`

	// Critical marks failures that aborted the run.
	Critical bool `json:"critical"`

	// Duration is how long the task ran before failing.
	Duration time.Duration `json:"duration"`
}

// OptimizationReport is the aggregated outcome of one orchestration run.
type OptimizationReport struct {
	// RunID uniquely identifies the run.
	RunID string `json:"run_id"`

	// Profile is the profile the run was resolved from.
	Profile string `json:"profile"`

	// Success is true if no task failed.
	Success bool `json:"success"`

	// TasksCompleted counts successful tasks.
	TasksCompleted int `json:"tasks_completed"`

	// TasksFailed counts failed tasks.
	TasksFailed int `json:"tasks_failed"`

	// FailedTasks details every failed task, critical or not.
	FailedTasks []FailureDetail `json:"failed_tasks,omitempty"`

	// Warnings collects non-fatal problems from resolution and execution.
	Warnings []string `json:"warnings,omitempty"`

	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration"`

	// Timestamp is when the run finished.
	Timestamp time.Time `json:"timestamp"`
}

// RunState is the externally visible state of the optimizer.
type RunState string

const (
	// StateIdle means no run has been started.
	StateIdle RunState = "idle"

	// StateRunning means a run is in progress.
	StateRunning RunState = "running"

	// StateCompleted means the last run finished with success=true.
	StateCompleted RunState = "completed"

	// StateFailed means the last run finished with failures or aborted.
	StateFailed RunState = "failed"
)
