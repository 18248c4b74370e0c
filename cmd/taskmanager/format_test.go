package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/amonks/taskmanager/internal/ui"
	"github.com/amonks/taskmanager/task"
)

func sampleTasks() []task.Task {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	return []task.Task{
		{
			ID:           1,
			Title:        "Base",
			Status:       task.StatusDone,
			Priority:     task.PriorityHigh,
			Category:     "setup",
			Dependencies: []int{},
			CreatedAt:    created,
			UpdatedAt:    created,
		},
		{
			ID:           2,
			Title:        "Feature",
			Description:  "Build the feature.",
			Status:       task.StatusPending,
			Priority:     task.PriorityMedium,
			Category:     "feature",
			Dependencies: []int{1, 7},
			CreatedAt:    created,
			UpdatedAt:    created,
			Subtasks: []task.Subtask{
				{ID: 1, Title: "Sketch", Status: task.StatusInProgress},
			},
		},
	}
}

func TestFormatTaskTable(t *testing.T) {
	out := formatTaskTable(ui.NewTheme(false), sampleTasks(), taskTableOptions{
		showDependencies: true,
		showSubtasks:     true,
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, two tasks and one subtask, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "ID") || !strings.HasSuffix(lines[0], "DEPS") {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[2], "1,7") {
		t.Fatalf("expected dependency list in row, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "2.1") || !strings.Contains(lines[3], "Sketch") {
		t.Fatalf("expected subtask row, got %q", lines[3])
	}
}

func TestFormatTaskTableCompact(t *testing.T) {
	out := formatTaskTable(ui.NewTheme(false), sampleTasks(), taskTableOptions{compact: true})
	if strings.Contains(out, "CATEGORY") || strings.Contains(out, "DEPS") {
		t.Fatalf("expected compact table without category or deps, got %q", out)
	}
	if strings.Contains(out, "Sketch") {
		t.Fatalf("expected subtasks hidden, got %q", out)
	}
}

func TestPrintTaskDetail(t *testing.T) {
	tasks := sampleTasks()
	var buf bytes.Buffer
	printTaskDetail(&buf, ui.NewTheme(false), tasks[1], tasks)
	out := buf.String()

	for _, want := range []string{
		"ID:           #2",
		"Priority:     medium",
		"Created:      2024-03-01 12:00",
		"#1 [x] Base",
		"#7 (missing)",
		"Build the feature.",
		"[~] 2.1 Sketch",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestPrintDepTree(t *testing.T) {
	base := &task.Task{ID: 1, Title: "Base", Status: task.StatusDone}
	mid := &task.Task{ID: 2, Title: "Middle", Status: task.StatusInProgress}
	other := &task.Task{ID: 3, Title: "Other", Status: task.StatusPending}
	top := &task.Task{ID: 4, Title: "Top", Status: task.StatusPending}
	tree := &task.DepTreeNode{
		Task: top,
		Children: []*task.DepTreeNode{
			{Task: mid, Children: []*task.DepTreeNode{{Task: base}}},
			{Task: other},
		},
	}

	var buf bytes.Buffer
	printDepTree(&buf, ui.NewTheme(false), tree, "", true)

	want := strings.Join([]string{
		"[ ] Top (#4)",
		" ├── [~] Middle (#2)",
		" │   └── [x] Base (#1)",
		" └── [ ] Other (#3)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected tree:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestStatusIcon(t *testing.T) {
	tests := map[task.Status]string{
		task.StatusPending:    "[ ]",
		task.StatusInProgress: "[~]",
		task.StatusDone:       "[x]",
		task.StatusDeferred:   "[>]",
		task.StatusCancelled:  "[-]",
		task.Status("bogus"):  "[?]",
	}
	for status, want := range tests {
		if got := statusIcon(status); got != want {
			t.Errorf("statusIcon(%q) = %q, want %q", status, got, want)
		}
	}
}
