// Package optimizer is the orchestration facade. It resolves a profile into
// a task plan, sizes the worker pool from a single memory snapshot, executes
// the plan, aggregates the results, and applies any configuration changes
// the tasks requested.
//
// A single Optimizer runs at most one optimization at a time; a second Run
// while one is in flight returns ErrRunInProgress without side effects.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/actions"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/executor"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/memtier"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/registry"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/report"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

var (
	// ErrRunInProgress is returned when Run is called while another run
	// is still executing.
	ErrRunInProgress = errors.New("optimization run already in progress")

	// ErrUnknownProfile is returned for a profile name the configuration
	// does not define.
	ErrUnknownProfile = errors.New("unknown optimization profile")
)

// ConfigurationError reports a problem detected before any task was
// scheduled. No side effects have happened when it is returned.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Status is the externally visible optimizer state.
type Status struct {
	// State is the current run state.
	State types.RunState `json:"state"`

	// LastReport is the report of the most recent completed run, nil
	// before the first run finishes.
	LastReport *types.OptimizationReport `json:"last_report,omitempty"`
}

// RunResult bundles everything a caller needs to render a finished run.
type RunResult struct {
	// Report is the aggregated run report.
	Report *types.OptimizationReport

	// Tasks are the per-task results in arrival order.
	Tasks []types.TaskResult

	// Memory is the snapshot the run was sized under.
	Memory memtier.Evaluation

	// Workers is the effective pool size used.
	Workers int

	// AppliedChanges are the configuration writes applied after the run.
	AppliedChanges []types.ConfigChange
}

// Optimizer coordinates a full optimization pass.
type Optimizer struct {
	provider config.Provider
	registry *registry.Registry
	actions  *actions.Set
	metrics  sysmon.Provider
	log      *logging.Logger

	mu         sync.Mutex
	state      types.RunState
	lastReport *types.OptimizationReport
}

// Option customizes optimizer construction.
type Option func(*Optimizer)

// WithRegistry replaces the built-in task catalog.
func WithRegistry(reg *registry.Registry) Option {
	return func(o *Optimizer) { o.registry = reg }
}

// WithActions replaces the built-in action set.
func WithActions(set *actions.Set) Option {
	return func(o *Optimizer) { o.actions = set }
}

// WithMetrics replaces the live system metrics provider.
func WithMetrics(metrics sysmon.Provider) Option {
	return func(o *Optimizer) { o.metrics = metrics }
}

// New creates an optimizer over the given configuration provider. It
// validates the task catalog and the action bindings up front: every
// registered task must map to a known action.
func New(provider config.Provider, opts ...Option) (*Optimizer, error) {
	o := &Optimizer{
		provider: provider,
		registry: registry.Default(),
		actions:  actions.DefaultSet(),
		metrics:  sysmon.System(),
		log:      logging.Get("optimizer"),
		state:    types.StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}

	for _, task := range o.registry.Tasks() {
		if !o.actions.Has(task.Action) {
			return nil, &ConfigurationError{
				Err: fmt.Errorf("task %q: no action registered for %q", task.Name, task.Action),
			}
		}
	}

	return o, nil
}

// Status reports the current state and the last completed report.
func (o *Optimizer) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{State: o.state, LastReport: o.lastReport}
}

// Run executes one optimization pass for the named profile. An empty
// profile name selects the configured default profile.
//
// The report is returned for failed runs too; the error distinguishes
// configuration problems (nothing ran) from critical task failures (the
// report describes what did run).
func (o *Optimizer) Run(ctx context.Context, profileName string) (*RunResult, error) {
	if err := o.begin(); err != nil {
		return nil, err
	}

	result, err := o.run(ctx, profileName)
	o.finish(result)
	return result, err
}

// begin transitions idle/completed/failed into running, rejecting
// concurrent runs.
func (o *Optimizer) begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == types.StateRunning {
		return ErrRunInProgress
	}
	o.state = types.StateRunning
	return nil
}

// finish records the terminal state of a run.
func (o *Optimizer) finish(result *RunResult) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if result == nil || result.Report == nil {
		o.state = types.StateFailed
		return
	}
	o.lastReport = result.Report
	if result.Report.Success {
		o.state = types.StateCompleted
	} else {
		o.state = types.StateFailed
	}
}

func (o *Optimizer) run(ctx context.Context, profileName string) (*RunResult, error) {
	start := time.Now()

	// Immutable run configuration: snapshot once, never re-read while
	// tasks execute.
	cfg := o.provider.Config()

	if profileName == "" {
		profileName = cfg.DefaultProfile
	}
	overrides, ok := cfg.Profile(profileName)
	if !ok {
		return nil, &ConfigurationError{
			Err: fmt.Errorf("%w: %q", ErrUnknownProfile, profileName),
		}
	}

	resolver := registry.NewResolver(o.registry)
	plan, warnings := resolver.Resolve(types.Profile{Name: profileName, Overrides: overrides})
	o.log.Info("resolved profile", "profile", profileName, "tasks", len(plan))

	// Single memory snapshot for the whole run. Pool sizing and the
	// memory optimization task both consume this evaluation.
	engine, err := memtier.NewEngine(cfg.Memory, o.metrics)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}
	eval, err := engine.Evaluate()
	if err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("reading memory: %w", err)}
	}
	o.log.Info("memory evaluated",
		"tier", eval.Tier, "available_gb", fmt.Sprintf("%.2f", eval.AvailableGB()))

	exec := executor.New(cfg.MaxWorkers, o.metrics.CPUCount())
	workers := exec.PoolSize(eval.Policy.MaxWorkers)

	tasks, err := o.bind(plan, cfg, eval)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	results := exec.Execute(ctx, tasks, eval.Policy.MaxWorkers)

	rep, runErr := report.Aggregate(profileName, results, time.Since(start))
	rep.Warnings = append(warnings, rep.Warnings...)
	rep.Duration = time.Since(start)

	applied := o.applyChanges(results)

	return &RunResult{
		Report:         rep,
		Tasks:          results,
		Memory:         eval,
		Workers:        workers,
		AppliedChanges: applied,
	}, runErr
}

// bind turns resolved descriptors into executor tasks by closing over the
// matching action and the run's immutable request state.
func (o *Optimizer) bind(plan []types.TaskDescriptor, cfg *config.Config, eval memtier.Evaluation) ([]executor.Task, error) {
	tasks := make([]executor.Task, 0, len(plan))
	for _, desc := range plan {
		action, err := o.actions.Get(desc.Action)
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", desc.Name, err)
		}

		req := actions.Request{
			Params:  desc.Params.Clone(),
			Memory:  eval,
			Cleanup: cfg.Cleanup,
			Metrics: o.metrics,
		}
		tasks = append(tasks, executor.Task{
			Desc: desc,
			Invoke: func(ctx context.Context) (any, error) {
				return action.Run(ctx, req)
			},
		})
	}
	return tasks, nil
}

// applyChanges writes task-requested configuration changes through the
// provider after every task has finished. Only changes from successful
// tasks are applied; persistence failures are logged, not fatal.
func (o *Optimizer) applyChanges(results []types.TaskResult) []types.ConfigChange {
	var applied []types.ConfigChange
	for _, r := range results {
		if !r.Success {
			continue
		}
		for _, change := range r.Changes {
			if err := o.provider.Persist(change.Key, change.Value); err != nil {
				o.log.Warn("failed to persist change",
					"key", change.Key, "error", err)
				continue
			}
			o.log.Info("applied config change", "key", change.Key, "value", change.Value)
			applied = append(applied, change)
		}
	}
	return applied
}
