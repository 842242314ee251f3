package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/logging"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

// AdjustMemory applies the memory tier policy chosen for this run. It emits
// a configuration change persisting the tier's worker cap, requests a
// process priority change, and clears system caches when the tier asks for
// it. The tier decision itself comes from the snapshot in the request; the
// action never re-reads live memory.
type AdjustMemory struct{}

// Kind identifies the action.
func (*AdjustMemory) Kind() types.ActionKind {
	return types.ActionAdjustMemory
}

// Run applies the policy. Priority and cache-clear failures are surfaced as
// warnings, not failures, matching the advisory nature of both requests.
func (*AdjustMemory) Run(ctx context.Context, req Request) (any, error) {
	log := logging.Get("actions")
	eval := req.Memory

	log.Info("applying memory tier policy",
		"tier", eval.Tier,
		"available_gb", fmt.Sprintf("%.2f", eval.AvailableGB()),
		"max_workers", eval.Policy.MaxWorkers)

	outcome := &types.ActionOutcome{
		Success: true,
		Changes: []types.ConfigChange{
			{Key: "max_workers", Value: eval.Policy.MaxWorkers},
		},
	}

	var applied []string
	applied = append(applied, fmt.Sprintf("max_workers=%d", eval.Policy.MaxWorkers))

	var warnings []string
	if err := setProcessPriority(eval.Policy.ProcessPriority); err != nil {
		log.Warn("failed to set process priority",
			"priority", eval.Policy.ProcessPriority, "error", err)
		warnings = append(warnings, fmt.Sprintf("set priority %s: %v", eval.Policy.ProcessPriority, err))
	} else {
		applied = append(applied, fmt.Sprintf("priority=%s", eval.Policy.ProcessPriority))
	}

	if eval.Policy.ClearCache {
		if err := clearSystemCache(ctx); err != nil {
			log.Warn("failed to clear system cache", "error", err)
			warnings = append(warnings, fmt.Sprintf("clear cache: %v", err))
		} else {
			applied = append(applied, "cache_cleared")
		}
	}

	outcome.Details = fmt.Sprintf("memory tier %s (%.2fGB available): %s",
		eval.Tier, eval.AvailableGB(), strings.Join(applied, ", "))
	if len(warnings) > 0 {
		outcome.Warning = strings.Join(warnings, "; ")
	}

	return outcome, nil
}
