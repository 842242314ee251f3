package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter formats output with colors and styling using lipgloss.
// It produces a visually appealing output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTasks(r))
	w.WriteString(f.formatFooter(r))

	if len(r.Report.Warnings) > 0 {
		w.WriteString("\n")
		w.WriteString(f.formatWarnings(r.Report.Warnings))
	}

	return nil
}

// formatHeader builds the header box with run metadata.
func (f *PrettyFormatter) formatHeader(r *Result) string {
	var lines []string

	profileLabel := LabelStyle.Render("Profile:")
	profileValue := ValueStyle.Render(r.Report.Profile)
	lines = append(lines, fmt.Sprintf("%s %s", profileLabel, profileValue))

	var infoParts []string
	if r.MemoryTier != "" {
		tierLabel := LabelStyle.Render("Memory:")
		tierValue := f.tierValue(r)
		infoParts = append(infoParts, fmt.Sprintf("%s %s", tierLabel, tierValue))
	}
	if r.Workers > 0 {
		workersLabel := LabelStyle.Render("Workers:")
		workersValue := ValueStyle.Render(fmt.Sprintf("%d", r.Workers))
		infoParts = append(infoParts, fmt.Sprintf("%s %s", workersLabel, workersValue))
	}
	if len(infoParts) > 0 {
		lines = append(lines, strings.Join(infoParts, "  "))
	}

	content := strings.Join(lines, "\n")
	return HeaderBox.Render(content)
}

// tierValue renders the memory tier with tier-appropriate coloring.
func (f *PrettyFormatter) tierValue(r *Result) string {
	text := r.MemoryTier
	if r.AvailableGB > 0 {
		text = fmt.Sprintf("%s (%s available)", r.MemoryTier,
			humanize.IBytes(uint64(r.AvailableGB*1024*1024*1024)))
	}

	switch r.MemoryTier {
	case "critical":
		return ErrorStyle.Render(text)
	case "warning":
		return WarningStyle.Render(text)
	default:
		return SuccessStyle.Render(text)
	}
}

// formatTasks builds the per-task table with STATUS, TASK, TIME and DETAILS.
func (f *PrettyFormatter) formatTasks(r *Result) string {
	if len(r.Tasks) == 0 {
		return MutedStyle.Render("  No tasks ran for this profile\n")
	}

	var sb strings.Builder

	statusHeader := TableHeaderStyle.Render("STATUS")
	taskHeader := TableHeaderStyle.Render("TASK")
	timeHeader := TableHeaderStyle.Render("TIME")
	sb.WriteString(fmt.Sprintf("  %s  %s  %s\n", statusHeader, taskHeader, timeHeader))

	maxNameWidth := 0
	for _, task := range r.Tasks {
		if len(task.Name) > maxNameWidth {
			maxNameWidth = len(task.Name)
		}
	}

	for _, task := range r.Tasks {
		status := SuccessStyle.Render("ok  ")
		if !task.Success {
			status = ErrorStyle.Render("fail")
		}

		name := TableRowStyle.Render(fmt.Sprintf("%-*s", maxNameWidth, task.Name))
		elapsed := MutedStyle.Render(formatDuration(task.Duration))
		sb.WriteString(fmt.Sprintf("  %s    %s  %s\n", status, name, elapsed))

		if !task.Success && task.Details != "" {
			sb.WriteString(fmt.Sprintf("          %s\n", ErrorStyle.Render(task.Details)))
		}
	}

	return sb.String()
}

// formatFooter builds the footer box with the run summary.
func (f *PrettyFormatter) formatFooter(r *Result) string {
	rep := r.Report

	var status string
	if rep.Success {
		status = SuccessStyle.Render("succeeded")
	} else {
		status = ErrorStyle.Render("failed")
	}

	summary := fmt.Sprintf("%s %s  %s %d completed, %d failed  %s %s",
		LabelStyle.Render("Run:"), status,
		LabelStyle.Render("Tasks:"), rep.TasksCompleted, rep.TasksFailed,
		LabelStyle.Render("Took:"), ValueStyle.Render(formatDuration(rep.Duration)))

	return FooterBox.Render(summary)
}

// formatWarnings builds the warning list.
func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder
	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")
	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  • " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatDuration renders a duration rounded for display.
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return d.Round(time.Second).String()
	case d >= time.Second:
		return d.Round(10 * time.Millisecond).String()
	default:
		return d.Round(time.Millisecond).String()
	}
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
