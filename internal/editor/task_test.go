package editor

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/amonks/taskmanager/task"
)

func TestRenderTaskTOML_Create(t *testing.T) {
	content, err := RenderTaskTOML(DefaultCreateData(task.PriorityHigh))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}

	if !strings.HasPrefix(content, `title = ""`) {
		t.Errorf("expected content to start with empty title, got %q", content)
	}
	if !strings.Contains(content, `priority = "high"`) {
		t.Error("expected priority high")
	}
	if !strings.Contains(content, `category = "feature"`) {
		t.Error("expected default category")
	}
	if strings.Contains(content, "status =") {
		t.Error("create should not include status")
	}
	if !strings.Contains(content, "dependencies = []") {
		t.Error("expected empty dependency list")
	}
}

func TestRenderTaskTOML_Update(t *testing.T) {
	existing := &task.Task{
		ID:           4,
		Title:        `Add "quoted" cache`,
		Priority:     task.PriorityLow,
		Category:     "backend",
		Status:       task.StatusInProgress,
		Dependencies: []int{1, 3},
		Description:  "Line one\n\nLine two",
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	content, err := RenderTaskTOML(DataFromTask(existing))
	if err != nil {
		t.Fatalf("RenderTaskTOML failed: %v", err)
	}
	if !strings.HasPrefix(content, "# task #4\n") {
		t.Errorf("expected header comment, got %q", content)
	}
	if !strings.Contains(content, `status = "in-progress"`) {
		t.Error("expected status line")
	}
	if !strings.Contains(content, "dependencies = [1, 3]") {
		t.Error("expected dependency list")
	}

	parsed, err := ParseTaskTOML(content)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	if parsed.Title != existing.Title {
		t.Errorf("expected title %q, got %q", existing.Title, parsed.Title)
	}
	if parsed.Description != existing.Description {
		t.Errorf("expected description %q, got %q", existing.Description, parsed.Description)
	}
	if parsed.Status == nil || *parsed.Status != "in-progress" {
		t.Errorf("expected status in-progress, got %v", parsed.Status)
	}
	if !slices.Equal(parsed.Dependencies, []int{1, 3}) {
		t.Errorf("expected dependencies [1 3], got %v", parsed.Dependencies)
	}
}

func TestParseTaskTOML_NormalizesValues(t *testing.T) {
	content := `title = "  Ship it  "
priority = "HIGH"
status = "completed"
---

Body text
`
	parsed, err := ParseTaskTOML(content)
	if err != nil {
		t.Fatalf("ParseTaskTOML failed: %v", err)
	}
	if parsed.Title != "Ship it" {
		t.Errorf("expected trimmed title, got %q", parsed.Title)
	}
	if parsed.Priority != "high" {
		t.Errorf("expected priority high, got %q", parsed.Priority)
	}
	if *parsed.Status != "done" {
		t.Errorf("expected status done, got %q", *parsed.Status)
	}
	if parsed.Description != "Body text" {
		t.Errorf("expected body text, got %q", parsed.Description)
	}
	if parsed.Dependencies == nil {
		t.Error("expected non-nil dependencies")
	}
}

func TestParseTaskTOML_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{name: "empty title", content: "title = \"\"\npriority = \"low\"\n---\n", want: task.ErrEmptyTitle},
		{name: "bad priority", content: "title = \"x\"\npriority = \"urgent\"\n---\n", want: task.ErrInvalidPriority},
		{name: "bad status", content: "title = \"x\"\npriority = \"low\"\nstatus = \"maybe\"\n---\n", want: task.ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTaskTOML(tc.content)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseTaskTOML_InvalidTOML(t *testing.T) {
	if _, err := ParseTaskTOML("title = \n---\n"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestParsedTaskToUpdateOptions(t *testing.T) {
	status := "done"
	parsed := &ParsedTask{Title: "x", Priority: "low", Status: &status, Dependencies: []int{2}}

	opts := parsed.ToUpdateOptions()

	if *opts.Priority != task.PriorityLow {
		t.Errorf("expected low priority, got %v", *opts.Priority)
	}
	if opts.Status == nil || *opts.Status != task.StatusDone {
		t.Errorf("expected done status, got %v", opts.Status)
	}
	if !slices.Equal(*opts.Dependencies, []int{2}) {
		t.Errorf("expected dependencies [2], got %v", *opts.Dependencies)
	}
}
