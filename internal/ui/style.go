package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/amonks/taskmanager/task"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Theme styles user-facing output. A disabled theme returns text unchanged.
type Theme struct {
	enabled bool

	header  lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	id      lipgloss.Style

	status   map[task.Status]lipgloss.Style
	priority map[task.Priority]lipgloss.Style
}

// NewTheme builds a theme. Pass ColorEnabled() for terminal output.
func NewTheme(enabled bool) *Theme {
	return &Theme{
		enabled: enabled,
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		label:   lipgloss.NewStyle().Bold(true),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		success: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		failure: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		id:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("37")),
		status: map[task.Status]lipgloss.Style{
			task.StatusPending:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
			task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
			task.StatusDeferred:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			task.StatusCancelled:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		},
		priority: map[task.Priority]lipgloss.Style{
			task.PriorityHigh:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160")),
			task.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			task.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		},
	}
}

// Enabled reports whether the theme emits styling.
func (t *Theme) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Theme) render(style lipgloss.Style, value string) string {
	if !t.Enabled() || value == "" {
		return value
	}
	return style.Render(value)
}

// Header styles a section heading.
func (t *Theme) Header(value string) string { return t.render(t.header, value) }

// Label styles a field label.
func (t *Theme) Label(value string) string { return t.render(t.label, value) }

// Muted styles secondary text.
func (t *Theme) Muted(value string) string { return t.render(t.muted, value) }

// Success styles a confirmation message.
func (t *Theme) Success(value string) string { return t.render(t.success, value) }

// Warning styles a warning message.
func (t *Theme) Warning(value string) string { return t.render(t.warning, value) }

// Failure styles an error message.
func (t *Theme) Failure(value string) string { return t.render(t.failure, value) }

// ID renders a task ID as "#n".
func (t *Theme) ID(id int) string {
	return t.render(t.id, fmt.Sprintf("#%d", id))
}

// SubtaskID renders a subtask reference as "n.m".
func (t *Theme) SubtaskID(taskID, subtaskID int) string {
	return t.render(t.muted, fmt.Sprintf("%d.%d", taskID, subtaskID))
}

// Status renders a status in its color.
func (t *Theme) Status(s task.Status) string {
	style, ok := t.status[s]
	if !ok {
		return string(s)
	}
	return t.render(style, string(s))
}

// Priority renders a priority in its color.
func (t *Theme) Priority(p task.Priority) string {
	style, ok := t.priority[p]
	if !ok {
		return string(p)
	}
	return t.render(style, string(p))
}

// ProgressBar renders done/total as a fixed-width bar with a percentage.
func (t *Theme) ProgressBar(done, total, width int) string {
	if width < 1 {
		width = 1
	}
	percent := 0
	if total > 0 {
		percent = done * 100 / total
	}
	filled := percent * width / 100
	bar := t.render(t.success, strings.Repeat("█", filled)) +
		t.render(t.muted, strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %d%%", bar, percent)
}
