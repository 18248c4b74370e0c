package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/taskmanager/task"
)

// TaskData is rendered into the editable TOML document.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID int

	Title        string
	Priority     string
	Category     string
	Status       string
	Dependencies []int
	Details      string
	TestStrategy string
	// Description is written below the front matter separator.
	Description string
}

// DefaultCreateData returns TaskData for a new task.
func DefaultCreateData(priority task.Priority) TaskData {
	if !priority.IsValid() {
		priority = task.PriorityMedium
	}
	return TaskData{
		Priority: string(priority),
		Category: task.DefaultCategory,
	}
}

// DataFromTask creates TaskData from an existing task.
func DataFromTask(t *task.Task) TaskData {
	return TaskData{
		IsUpdate:     true,
		ID:           t.ID,
		Title:        t.Title,
		Priority:     string(t.Priority),
		Category:     t.Category,
		Status:       string(t.Status),
		Dependencies: append([]int{}, t.Dependencies...),
		Details:      t.Details,
		TestStrategy: t.TestStrategy,
		Description:  t.Description,
	}
}

var taskTemplate = template.Must(template.New("task").Funcs(template.FuncMap{
	"ints": func(values []int) string {
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprint(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	},
}).Parse(`{{- if .IsUpdate }}# task #{{ .ID }}
{{ end -}}
title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # high, medium, low
category = {{ printf "%q" .Category }}
{{- if .IsUpdate }}
status = {{ printf "%q" .Status }} # pending, in-progress, done, deferred, cancelled
{{- end }}
dependencies = {{ ints .Dependencies }} # IDs of earlier tasks
details = {{ printf "%q" .Details }}
test-strategy = {{ printf "%q" .TestStrategy }}
---
{{ .Description }}
`))

// RenderTaskTOML renders data as a TOML front matter document.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask is the result of parsing an edited document.
type ParsedTask struct {
	Title        string  `toml:"title"`
	Priority     string  `toml:"priority"`
	Category     string  `toml:"category"`
	Status       *string `toml:"status"`
	Dependencies []int   `toml:"dependencies"`
	Details      string  `toml:"details"`
	TestStrategy string  `toml:"test-strategy"`
	Description  string  `toml:"-"`
}

// ParseTaskTOML parses and validates an edited document.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedTask
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Category = strings.TrimSpace(parsed.Category)
	parsed.Details = strings.TrimSpace(parsed.Details)
	parsed.TestStrategy = strings.TrimSpace(parsed.TestStrategy)
	parsed.Description = strings.TrimSpace(body)

	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	priority, err := task.ParsePriority(parsed.Priority)
	if err != nil {
		return nil, err
	}
	parsed.Priority = string(priority)
	if parsed.Status != nil {
		status, err := task.ParseStatus(*parsed.Status)
		if err != nil {
			return nil, err
		}
		normalized := string(status)
		parsed.Status = &normalized
	}
	if parsed.Dependencies == nil {
		parsed.Dependencies = []int{}
	}
	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			return strings.Join(lines[:i], "\n"), strings.Join(lines[i+1:], "\n")
		}
	}
	return content, ""
}

// EditTask opens the editor for a task and returns the parsed result.
// Pass nil to create a task with the given default priority.
func EditTask(existing *task.Task, defaultPriority task.Priority) (*ParsedTask, error) {
	data := DefaultCreateData(defaultPriority)
	if existing != nil {
		data = DataFromTask(existing)
	}
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "taskmanager-task-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseTaskTOML(string(edited))
}

// ToAddOptions converts p to task.AddOptions.
func (p *ParsedTask) ToAddOptions() task.AddOptions {
	return task.AddOptions{
		Description:  p.Description,
		Details:      p.Details,
		TestStrategy: p.TestStrategy,
		Category:     p.Category,
		Priority:     task.Priority(p.Priority),
		Dependencies: p.Dependencies,
	}
}

// ToUpdateOptions converts p to task.UpdateOptions.
func (p *ParsedTask) ToUpdateOptions() task.UpdateOptions {
	priority := task.Priority(p.Priority)
	deps := p.Dependencies
	opts := task.UpdateOptions{
		Title:        &p.Title,
		Description:  &p.Description,
		Details:      &p.Details,
		TestStrategy: &p.TestStrategy,
		Category:     &p.Category,
		Priority:     &priority,
		Dependencies: &deps,
	}
	if p.Status != nil {
		status := task.Status(*p.Status)
		opts.Status = &status
	}
	return opts
}
