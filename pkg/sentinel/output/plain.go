package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter formats output as a simple tab-separated table.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	// Use tabwriter for aligned columns
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := tw.Write([]byte("STATUS\tTASK\tTIME\tDETAILS\n")); err != nil {
		return err
	}

	for _, task := range r.Tasks {
		status := "ok"
		if !task.Success {
			status = "fail"
		}
		row := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			status, task.Name, formatDuration(task.Duration), task.Details)
		if _, err := tw.Write([]byte(row)); err != nil {
			return err
		}
	}

	rep := r.Report
	summary := fmt.Sprintf("\n%d completed, %d failed in %s\n",
		rep.TasksCompleted, rep.TasksFailed, formatDuration(rep.Duration))
	if _, err := tw.Write([]byte(summary)); err != nil {
		return err
	}

	// Flush tabwriter to buffer
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
