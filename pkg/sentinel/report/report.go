// Package report aggregates per-task results into a run report and raises
// critical failures as a single enumerated error.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// CriticalFailureError reports every failed critical task of a run.
// It is returned alongside the report, never instead of it.
type CriticalFailureError struct {
	// Failures lists each failed critical task.
	Failures []types.FailureDetail
}

func (e *CriticalFailureError) Error() string {
	names := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		names[i] = f.Name
	}
	return fmt.Sprintf("critical optimization tasks failed: %s", strings.Join(names, ", "))
}

// Aggregate folds task results into an OptimizationReport. The report is
// always returned; the error is non-nil only when one or more critical
// tasks failed, and it enumerates all of them.
func Aggregate(profile string, results []types.TaskResult, duration time.Duration) (*types.OptimizationReport, error) {
	rep := &types.OptimizationReport{
		RunID:     uuid.NewString(),
		Profile:   profile,
		Success:   true,
		Duration:  duration,
		Timestamp: time.Now(),
	}

	var critical []types.FailureDetail
	for _, r := range results {
		if r.Warning != "" {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %s", r.Name, r.Warning))
		}
		if r.Success {
			rep.TasksCompleted++
			continue
		}

		rep.TasksFailed++
		rep.Success = false
		detail := types.FailureDetail{
			Name:      r.Name,
			ErrorKind: r.ErrorKind,
			Details:   r.Details,
			Critical:  r.Critical,
			Duration:  r.Duration,
		}
		rep.FailedTasks = append(rep.FailedTasks, detail)
		if r.Critical {
			critical = append(critical, detail)
		}
	}

	if len(critical) > 0 {
		return rep, &CriticalFailureError{Failures: critical}
	}
	return rep, nil
}
