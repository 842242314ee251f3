// Package executor runs resolved optimization tasks on a bounded worker
// pool. The pool is created fresh for each run and torn down before Execute
// returns. Each task is awaited with its own timeout; failures are isolated
// into per-task results and never abort the other tasks.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// Task pairs a resolved descriptor with the bound action invocation.
type Task struct {
	// Desc is the resolved descriptor.
	Desc types.TaskDescriptor

	// Invoke runs the bound action. The context carries the task's
	// deadline.
	Invoke func(ctx context.Context) (any, error)
}

// Executor runs task batches with bounded parallelism.
type Executor struct {
	configuredMax int
	cpus          int
	log           *logging.Logger
}

// New creates an executor. configuredMax is the configured pool cap; cpus is
// the logical core count. Both bound the effective pool size along with the
// per-run worker count passed to Execute.
func New(configuredMax, cpus int) *Executor {
	return &Executor{
		configuredMax: configuredMax,
		cpus:          cpus,
		log:           logging.Get("executor"),
	}
}

// PoolSize returns the effective worker count for a run:
// min(configured cap, CPU count, requested workers), at least 1.
func (e *Executor) PoolSize(workerCount int) int {
	size := workerCount
	if e.configuredMax > 0 && e.configuredMax < size {
		size = e.configuredMax
	}
	if e.cpus > 0 && e.cpus < size {
		size = e.cpus
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Execute runs the tasks and returns one result per started task, in
// arrival order. Result order carries no meaning. Cancelling ctx stops
// not-yet-started tasks from being dispatched; a task already running is
// never interrupted and reports its real outcome, bounded only by its own
// timeout.
func (e *Executor) Execute(ctx context.Context, tasks []Task, workerCount int) []types.TaskResult {
	if len(tasks) == 0 {
		return nil
	}

	workers := e.PoolSize(workerCount)
	if workers > len(tasks) {
		workers = len(tasks)
	}
	e.log.Info("executing tasks", "count", len(tasks), "workers", workers)

	jobs := make(chan Task)
	resultCh := make(chan types.TaskResult)

	for i := 0; i < workers; i++ {
		go func() {
			for task := range jobs {
				resultCh <- e.runTask(ctx, task)
			}
		}()
	}

	// Feed jobs, dropping not-yet-started tasks once ctx is cancelled.
	// The dispatcher reports how many tasks actually reached a worker;
	// each dispatched task produces exactly one result.
	dispatchedCh := make(chan int, 1)
	go func() {
		defer close(jobs)
		dispatched := 0
		for _, task := range tasks {
			select {
			case jobs <- task:
				dispatched++
			case <-ctx.Done():
				dispatchedCh <- dispatched
				return
			}
		}
		dispatchedCh <- dispatched
	}()

	// Collect in arrival order. In-flight tasks finish on their own
	// terms even after cancellation; their timeouts bound the wait.
	results := make([]types.TaskResult, 0, len(tasks))
	expected := -1
	for expected < 0 || len(results) < expected {
		select {
		case r := <-resultCh:
			results = append(results, r)
		case n := <-dispatchedCh:
			expected = n
			dispatchedCh = nil
		}
	}
	return results
}

// runTask executes one task with its own timeout, recovering panics and
// normalizing the return value into a TaskResult.
func (e *Executor) runTask(ctx context.Context, task Task) types.TaskResult {
	name := task.Desc.Name
	start := time.Now()

	// The run context gates dispatch only. A task that has started is
	// detached from it so cancellation cannot masquerade as a timeout;
	// the task's own deadline is the single bound on the wait.
	taskCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), task.Desc.Timeout)
	defer cancel()

	type invocation struct {
		value any
		err   error
	}
	done := make(chan invocation, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- invocation{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		value, err := task.Invoke(taskCtx)
		done <- invocation{value: value, err: err}
	}()

	e.log.Debug("task started", "task", name, "timeout", task.Desc.Timeout)

	select {
	case inv := <-done:
		result := e.normalize(task.Desc, inv.value, inv.err, time.Since(start))
		e.log.Info("task finished",
			"task", name, "success", result.Success, "duration", result.Duration)
		return result
	case <-taskCtx.Done():
		// The wait is abandoned; a non-cooperative action may keep
		// running in its goroutine. That is a documented limitation,
		// not a guarantee the action stopped.
		duration := time.Since(start)
		e.log.Error("task timed out", "task", name, "timeout", task.Desc.Timeout)
		return types.TaskResult{
			Name:      name,
			Success:   false,
			ErrorKind: types.ErrorTimeout,
			Details:   fmt.Sprintf("task %q timed out after %s", name, task.Desc.Timeout),
			Duration:  duration,
			Critical:  task.Desc.Critical,
		}
	}
}

// normalize converts an action's return into a TaskResult.
// Actions return a bool or a *types.ActionOutcome; anything else is
// normalized to a success with the unexpected-return kind and a warning.
func (e *Executor) normalize(desc types.TaskDescriptor, value any, err error, duration time.Duration) types.TaskResult {
	result := types.TaskResult{
		Name:     desc.Name,
		Duration: duration,
		Critical: desc.Critical,
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.ErrorKind = types.ErrorTimeout
		} else {
			result.ErrorKind = types.ErrorException
		}
		result.Details = err.Error()
		return result
	}

	switch v := value.(type) {
	case bool:
		result.Success = v
		if !v {
			result.Details = "action reported failure"
		}
	case *types.ActionOutcome:
		result.Success = v.Success
		result.Details = v.Details
		result.Warning = v.Warning
		result.Changes = v.Changes
	default:
		e.log.Warn("action returned unexpected type",
			"task", desc.Name, "type", fmt.Sprintf("%T", value))
		result.Success = true
		result.ErrorKind = types.ErrorUnexpectedReturn
		result.Warning = fmt.Sprintf("action returned unexpected type %T", value)
	}

	return result
}
