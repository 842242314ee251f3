package config

// Default values for the sentinel configuration.
const (
	// DefaultProfile is the profile used when none is requested.
	DefaultProfile = "default"

	// DefaultMaxWorkers caps the executor pool when no memory tier lowers it.
	DefaultMaxWorkers = 8

	// DefaultRetentionDays is how long run history entries are kept.
	DefaultRetentionDays = 30
)

// Memory tier defaults. Thresholds compare strictly-less-than against
// available memory in gigabytes, ascending.
const (
	DefaultCriticalThresholdGB = 2.0
	DefaultWarningThresholdGB  = 4.0

	DefaultCriticalMaxWorkers = 2
	DefaultWarningMaxWorkers  = 4
	DefaultNormalMaxWorkers   = 8

	DefaultCriticalPriority = "high"
	DefaultWarningPriority  = "above_normal"
	DefaultNormalPriority   = "normal"
)

// Temp cleanup defaults. Higher disk usage selects a shorter age threshold.
const (
	DefaultCriticalDiskUsagePercent = 90.0
	DefaultHighDiskUsagePercent     = 75.0

	DefaultCriticalAgeDays = 1
	DefaultHighAgeDays     = 7
	DefaultNormalAgeDays   = 30
)

// DefaultCleanupPatterns are the glob patterns matched against temp file
// basenames during cleanup.
var DefaultCleanupPatterns = []string{
	"*.tmp", "*.temp", "~*", "*.bak", "*.old",
	"*.log", "*.log.*", "*.dmp",
	"*.cache", "*.chk",
	"*.crdownload", "*.part", "*.download",
}

// DefaultSkipPrefixes are basename prefixes never removed during cleanup.
var DefaultSkipPrefixes = []string{"sys", "config", "important"}

// DefaultProfiles ships two profiles: "default" runs everything with
// registry defaults, "conservative" turns the long-running tasks off.
var DefaultProfiles = map[string]map[string]string{
	"default": {},
	"conservative": {
		"disk_defrag":  "false",
		"temp_cleanup": "true;2;300",
	},
}
