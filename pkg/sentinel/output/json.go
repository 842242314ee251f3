package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Run   jsonRun    `json:"run"`
	Tasks []jsonTask `json:"tasks"`
}

// jsonRun represents the run summary in JSON output.
type jsonRun struct {
	RunID          string    `json:"run_id"`
	Profile        string    `json:"profile"`
	Success        bool      `json:"success"`
	TasksCompleted int       `json:"tasks_completed"`
	TasksFailed    int       `json:"tasks_failed"`
	Duration       string    `json:"duration"`
	Timestamp      time.Time `json:"timestamp"`
	MemoryTier     string    `json:"memory_tier,omitempty"`
	Workers        int       `json:"workers,omitempty"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// jsonTask represents a task result in JSON output.
type jsonTask struct {
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	ErrorKind string `json:"error_kind,omitempty"`
	Details   string `json:"details,omitempty"`
	Warning   string `json:"warning,omitempty"`
	Duration  string `json:"duration"`
	Critical  bool   `json:"critical,omitempty"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with run and task sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	tasks := make([]jsonTask, len(r.Tasks))
	for i, task := range r.Tasks {
		tasks[i] = jsonTask{
			Name:      task.Name,
			Success:   task.Success,
			ErrorKind: string(task.ErrorKind),
			Details:   task.Details,
			Warning:   task.Warning,
			Duration:  task.Duration.String(),
			Critical:  task.Critical,
		}
	}

	rep := r.Report
	out := jsonOutput{
		Run: jsonRun{
			RunID:          rep.RunID,
			Profile:        rep.Profile,
			Success:        rep.Success,
			TasksCompleted: rep.TasksCompleted,
			TasksFailed:    rep.TasksFailed,
			Duration:       rep.Duration.String(),
			Timestamp:      rep.Timestamp,
			MemoryTier:     r.MemoryTier,
			Workers:        r.Workers,
			Warnings:       rep.Warnings,
		},
		Tasks: tasks,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)
