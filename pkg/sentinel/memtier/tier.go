// Package memtier maps live memory availability to a concurrency and
// priority policy tier. The optimizer evaluates the tier exactly once per
// run, before any task starts, and both the executor pool sizing and the
// memory optimization task consume that single snapshot.
package memtier

import (
	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/sysmon"
)

// Tier identifies a memory pressure tier.
type Tier string

const (
	// TierCritical means available memory is below the critical threshold.
	TierCritical Tier = "critical"

	// TierWarning means available memory is below the warning threshold.
	TierWarning Tier = "warning"

	// TierNormal means memory pressure is low.
	TierNormal Tier = "normal"
)

// Valid returns true if the tier is a known value.
func (t Tier) Valid() bool {
	switch t {
	case TierCritical, TierWarning, TierNormal:
		return true
	default:
		return false
	}
}

// Policy is the behavior associated with a tier.
type Policy struct {
	// ThresholdGB is the tier's upper bound (exclusive) of available
	// memory in gigabytes. Zero for the normal tier.
	ThresholdGB float64

	// MaxWorkers caps the executor pool.
	MaxWorkers int

	// ProcessPriority is the requested process priority
	// (low, below_normal, normal, above_normal, high).
	ProcessPriority string

	// ClearCache requests a system cache clear.
	ClearCache bool
}

// Evaluation is a single snapshot of tier, policy, and the memory reading
// that produced them. It is immutable for the duration of a run.
type Evaluation struct {
	// Tier is the selected memory pressure tier.
	Tier Tier

	// Policy is the tier's configured policy.
	Policy Policy

	// Memory is the reading the decision was based on.
	Memory sysmon.MemoryStats
}

// AvailableGB returns the available memory of the snapshot in gigabytes.
func (e Evaluation) AvailableGB() float64 {
	return float64(e.Memory.Available) / (1 << 30)
}
