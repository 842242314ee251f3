package memtier

import (
	"errors"
	"fmt"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/config"
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
)

// ErrInvalidThresholds is returned when tier thresholds are not ascending
// or a tier's worker cap is not positive.
var ErrInvalidThresholds = errors.New("invalid memory tier configuration")

// Engine evaluates the current memory pressure tier.
type Engine struct {
	critical Policy
	warning  Policy
	normal   Policy
	metrics  sysmon.Provider
}

// NewEngine builds an engine from configuration. It validates that the
// critical threshold is below the warning threshold and that every tier has
// a positive worker cap.
func NewEngine(cfg config.MemoryConfig, metrics sysmon.Provider) (*Engine, error) {
	critical := policyFromConfig(cfg.Critical)
	warning := policyFromConfig(cfg.Warning)
	normal := policyFromConfig(cfg.Normal)

	if critical.ThresholdGB <= 0 || warning.ThresholdGB <= 0 {
		return nil, fmt.Errorf("%w: thresholds must be positive", ErrInvalidThresholds)
	}
	if critical.ThresholdGB >= warning.ThresholdGB {
		return nil, fmt.Errorf("%w: critical threshold %.1fGB must be below warning threshold %.1fGB",
			ErrInvalidThresholds, critical.ThresholdGB, warning.ThresholdGB)
	}
	for _, p := range []Policy{critical, warning, normal} {
		if p.MaxWorkers <= 0 {
			return nil, fmt.Errorf("%w: max workers must be positive", ErrInvalidThresholds)
		}
	}

	return &Engine{
		critical: critical,
		warning:  warning,
		normal:   normal,
		metrics:  metrics,
	}, nil
}

// policyFromConfig converts a config tier section into a Policy.
func policyFromConfig(tp config.TierPolicy) Policy {
	return Policy{
		ThresholdGB:     tp.ThresholdGB,
		MaxWorkers:      tp.MaxWorkers,
		ProcessPriority: tp.ProcessPriority,
		ClearCache:      tp.ClearCache,
	}
}

// Evaluate reads available memory and selects the tier by comparing
// strictly-less-than against ascending thresholds: below the critical
// threshold selects critical, below the warning threshold selects warning,
// and anything else is normal.
func (e *Engine) Evaluate() (Evaluation, error) {
	mem, err := e.metrics.Memory()
	if err != nil {
		return Evaluation{}, fmt.Errorf("reading memory: %w", err)
	}

	availableGB := float64(mem.Available) / (1 << 30)

	eval := Evaluation{Memory: mem}
	switch {
	case availableGB < e.critical.ThresholdGB:
		eval.Tier = TierCritical
		eval.Policy = e.critical
	case availableGB < e.warning.ThresholdGB:
		eval.Tier = TierWarning
		eval.Policy = e.warning
	default:
		eval.Tier = TierNormal
		eval.Policy = e.normal
	}

	return eval, nil
}
