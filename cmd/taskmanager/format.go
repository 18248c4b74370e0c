package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amonks/taskmanager/internal/markdown"
	"github.com/amonks/taskmanager/internal/ui"
	"github.com/amonks/taskmanager/task"
)

const detailLineWidth = 80

// taskTableOptions controls printTaskTable.
type taskTableOptions struct {
	showDependencies bool
	showSubtasks     bool
	compact          bool
}

// formatTaskTable renders tasks as a table. Subtasks are listed under
// their parent when showSubtasks is set.
func formatTaskTable(theme *ui.Theme, tasks []task.Task, opts taskTableOptions) string {
	headers := []string{"ID", "PRIORITY", "STATUS", "TITLE"}
	if !opts.compact {
		headers = append(headers, "CATEGORY")
	}
	if opts.showDependencies {
		headers = append(headers, "DEPS")
	}

	builder := ui.NewTableBuilder(headers, len(tasks))
	for _, t := range tasks {
		row := []string{
			theme.ID(t.ID),
			theme.Priority(t.Priority),
			theme.Status(t.Status),
			ui.TruncateTableCell(t.Title),
		}
		if !opts.compact {
			row = append(row, t.Category)
		}
		if opts.showDependencies {
			row = append(row, formatDeps(t.Dependencies))
		}
		builder.AddRow(row...)

		if !opts.showSubtasks {
			continue
		}
		for _, st := range t.Subtasks {
			row := []string{
				"  " + theme.SubtaskID(t.ID, st.ID),
				"",
				theme.Status(st.Status),
				ui.TruncateTableCell(st.Title),
			}
			if !opts.compact {
				row = append(row, "")
			}
			if opts.showDependencies {
				row = append(row, "")
			}
			builder.AddRow(row...)
		}
	}
	return builder.String()
}

func formatDeps(deps []int) string {
	if len(deps) == 0 {
		return "-"
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// printTaskDetail prints every field of t. all resolves dependency titles.
func printTaskDetail(w io.Writer, theme *ui.Theme, t task.Task, all []task.Task) {
	label := func(name string) string { return theme.Label(fmt.Sprintf("%-13s", name+":")) }

	fmt.Fprintf(w, "%s %s\n", label("ID"), theme.ID(t.ID))
	fmt.Fprintf(w, "%s %s\n", label("Title"), t.Title)
	fmt.Fprintf(w, "%s %s\n", label("Status"), theme.Status(t.Status))
	fmt.Fprintf(w, "%s %s\n", label("Priority"), theme.Priority(t.Priority))
	fmt.Fprintf(w, "%s %s\n", label("Category"), t.Category)
	fmt.Fprintf(w, "%s %s\n", label("Created"), ui.FormatTimestamp(t.CreatedAt))
	fmt.Fprintf(w, "%s %s\n", label("Updated"), ui.FormatTimestamp(t.UpdatedAt))

	if len(t.Dependencies) > 0 {
		byID := make(map[int]task.Task, len(all))
		for _, other := range all {
			byID[other.ID] = other
		}
		fmt.Fprintf(w, "\n%s\n", theme.Header("Dependencies"))
		for _, d := range t.Dependencies {
			dep, ok := byID[d]
			if !ok {
				fmt.Fprintf(w, "  %s %s\n", theme.ID(d), theme.Warning("(missing)"))
				continue
			}
			fmt.Fprintf(w, "  %s %s %s\n", theme.ID(d), statusIcon(dep.Status), dep.Title)
		}
	}

	printSection(w, theme, "Description", t.Description)
	printSection(w, theme, "Details", t.Details)
	printSection(w, theme, "Test Strategy", t.TestStrategy)

	if len(t.Subtasks) > 0 {
		fmt.Fprintf(w, "\n%s\n", theme.Header("Subtasks"))
		for _, st := range t.Subtasks {
			fmt.Fprintf(w, "  %s %s %s\n", statusIcon(st.Status), theme.SubtaskID(t.ID, st.ID), st.Title)
			if st.Description != "" {
				fmt.Fprintln(w, ui.IndentBlock(ui.ReflowParagraphs(st.Description, detailLineWidth-8), 8))
			}
		}
	}
}

func printSection(w io.Writer, theme *ui.Theme, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	rendered := markdown.Render(renderWidth(), 2, theme.Enabled(), body)
	if rendered == "" {
		return
	}
	fmt.Fprintf(w, "\n%s\n%s\n", theme.Header(title), rendered)
}

// renderWidth is the terminal width capped at detailLineWidth.
func renderWidth() int {
	return min(ui.TerminalWidth(detailLineWidth), detailLineWidth)
}

// printDepTree prints a dependency tree with ASCII art.
func printDepTree(w io.Writer, theme *ui.Theme, node *task.DepTreeNode, prefix string, isLast bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if prefix == "" {
		connector = ""
	}

	fmt.Fprintf(w, "%s%s%s %s (%s)\n",
		prefix, connector, statusIcon(node.Task.Status), node.Task.Title, theme.ID(node.Task.ID))

	childPrefix := prefix
	if prefix != "" {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	} else {
		childPrefix = " "
	}

	for i, child := range node.Children {
		printDepTree(w, theme, child, childPrefix, i == len(node.Children)-1)
	}
}

// statusIcon returns an icon for the status.
func statusIcon(s task.Status) string {
	switch s {
	case task.StatusPending:
		return "[ ]"
	case task.StatusInProgress:
		return "[~]"
	case task.StatusDone:
		return "[x]"
	case task.StatusDeferred:
		return "[>]"
	case task.StatusCancelled:
		return "[-]"
	default:
		return "[?]"
	}
}
