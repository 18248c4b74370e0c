package ai

import (
	"errors"
	"slices"
	"testing"

	"github.com/amonks/taskmanager/task"
)

func TestParseTasksExtractsArrayFromProse(t *testing.T) {
	text := "Here you go:\n```json\n" + `[
  {"id": 7, "title": "Set up repo", "priority": "HIGH", "dependencies": [], "subtasks": [{"title": "init"}]},
  {"id": 8, "title": "", "status": "completed", "dependencies": [1, "1", "x", 0, 1.5]}
]` + "\n```\nGood luck."

	tasks, err := ParseTasks(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.ID != 1 || first.Title != "Set up repo" {
		t.Fatalf("unexpected first task %+v", first)
	}
	if first.Priority != task.PriorityHigh {
		t.Fatalf("expected high priority, got %q", first.Priority)
	}
	if first.Status != task.StatusPending {
		t.Fatalf("expected pending status, got %q", first.Status)
	}
	if first.Category != "general" {
		t.Fatalf("expected general category, got %q", first.Category)
	}
	if len(first.Subtasks) != 1 || first.Subtasks[0].ID != 1 || first.Subtasks[0].Title != "init" {
		t.Fatalf("unexpected subtasks %+v", first.Subtasks)
	}

	second := tasks[1]
	if second.ID != 2 || second.Title != "Task 2" {
		t.Fatalf("unexpected second task %+v", second)
	}
	if second.Status != task.StatusDone {
		t.Fatalf("expected legacy status to normalize, got %q", second.Status)
	}
	if second.Priority != task.PriorityMedium {
		t.Fatalf("expected default priority, got %q", second.Priority)
	}
	if !slices.Equal(second.Dependencies, []int{1, 1}) {
		t.Fatalf("expected dependencies [1 1], got %v", second.Dependencies)
	}
}

func TestParseTasksErrors(t *testing.T) {
	cases := []struct {
		name string
		text string
		want error
	}{
		{name: "no json", text: "I can't help with that.", want: ErrNoJSON},
		{name: "empty array", text: "[]", want: ErrInvalidResponse},
		{name: "wrong item type", text: `["a", "b"]`, want: ErrInvalidResponse},
		{name: "wrong field type", text: `[{"title": 3}]`, want: ErrInvalidResponse},
		{name: "broken json", text: `[{"title": "x",]`, want: ErrInvalidResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTasks(tc.text)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseExpansion(t *testing.T) {
	text := `Sure! {"analysis": "## Scope\nSmall.", "subtasks": [
		{"title": " Write schema ", "description": "tables"},
		{"title": "Add migrations"}
	], "taskImprovements": {"details": "Use sqlite."}}`

	exp, err := ParseExpansion(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if exp.Analysis != "## Scope\nSmall." {
		t.Fatalf("unexpected analysis %q", exp.Analysis)
	}
	want := []task.SubtaskInput{
		{Title: "Write schema", Description: "tables"},
		{Title: "Add migrations"},
	}
	if !slices.Equal(exp.Subtasks, want) {
		t.Fatalf("expected %+v, got %+v", want, exp.Subtasks)
	}
	if exp.Improvements.Details != "Use sqlite." || exp.Improvements.Description != "" {
		t.Fatalf("unexpected improvements %+v", exp.Improvements)
	}
}

func TestParseExpansionRequiresSubtasks(t *testing.T) {
	cases := []string{
		`{"analysis": "x"}`,
		`{"analysis": "x", "subtasks": []}`,
		`{"analysis": "x", "subtasks": [{"title": ""}]}`,
		`{"subtasks": [{"title": "a"}]}`,
	}
	for _, text := range cases {
		if _, err := ParseExpansion(text); !errors.Is(err, ErrInvalidResponse) {
			t.Fatalf("expected invalid response for %s, got %v", text, err)
		}
	}
}
