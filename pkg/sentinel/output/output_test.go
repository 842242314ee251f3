package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwesleyquintero/sentinel/pkg/sentinel/types"
)

func sampleResult() *Result {
	return &Result{
		Report: &types.OptimizationReport{
			RunID:          "7c2f7d0e-2f62-4f9c-9e7a-1f2b3c4d5e6f",
			Profile:        "default",
			Success:        false,
			TasksCompleted: 2,
			TasksFailed:    1,
			Warnings:       []string{"memory_optimization: cache not cleared"},
			Duration:       3200 * time.Millisecond,
			Timestamp:      time.Date(2026, 2, 10, 9, 30, 0, 0, time.UTC),
		},
		Tasks: []types.TaskResult{
			{Name: "memory_optimization", Success: true, Duration: 120 * time.Millisecond},
			{Name: "temp_cleanup", Success: true, Duration: 2900 * time.Millisecond},
			{Name: "disk_defrag", Success: false, ErrorKind: types.ErrorTimeout,
				Details: "task \"disk_defrag\" timed out after 1h0m0s", Duration: time.Hour},
		},
		MemoryTier:  "warning",
		AvailableGB: 3.1,
		Workers:     4,
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("test", func() Formatter { return &PlainFormatter{} })

	f, err := reg.Get("test")
	require.NoError(t, err)
	assert.NotNil(t, f)

	_, err = reg.Get("missing")
	assert.Error(t, err)

	assert.Equal(t, []string{"test"}, reg.Available())
}

func TestDefaultRegistryHasBuiltins(t *testing.T) {
	for _, name := range []string{"pretty", "plain", "json"} {
		f, err := Get(name)
		require.NoError(t, err, "formatter %q not registered", name)
		assert.NotNil(t, f)
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &JSONFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	run, ok := out["run"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "default", run["profile"])
	assert.Equal(t, false, run["success"])
	assert.Equal(t, float64(2), run["tasks_completed"])
	assert.Equal(t, "warning", run["memory_tier"])

	tasks, ok := out["tasks"].([]any)
	require.True(t, ok)
	assert.Len(t, tasks, 3)

	failed := tasks[2].(map[string]any)
	assert.Equal(t, "disk_defrag", failed["name"])
	assert.Equal(t, "timeout", failed["error_kind"])
}

func TestPlainFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &PlainFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "temp_cleanup")
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "2 completed, 1 failed")
}

func TestPrettyFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := &PrettyFormatter{}
	require.NoError(t, f.Format(&buf, sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "default")
	assert.Contains(t, out, "disk_defrag")
	assert.Contains(t, out, "Warnings:")
}

func TestPrettyFormatterEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	f := &PrettyFormatter{}
	r := &Result{
		Report: &types.OptimizationReport{
			RunID: "empty", Profile: "conservative", Success: true,
			Timestamp: time.Now(),
		},
	}
	require.NoError(t, f.Format(&buf, r))
	assert.Contains(t, buf.String(), "No tasks ran")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{1230 * time.Millisecond, "1.23s"},
		{5 * time.Millisecond, "5ms"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.in))
	}
}
