// Package prd renders per-task product requirement documents.
package prd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/amonks/taskmanager/task"
	"gopkg.in/yaml.v3"
)

// DirName is the directory under .taskmanager holding generated PRDs.
const DirName = "prd"

// Project carries the project context printed in each document.
type Project struct {
	Name         string
	Technologies []string
}

// FrontMatter is the YAML header of a PRD document.
type FrontMatter struct {
	ID           int       `yaml:"id"`
	Title        string    `yaml:"title"`
	Status       string    `yaml:"status"`
	Priority     string    `yaml:"priority"`
	Category     string    `yaml:"category"`
	Dependencies []int     `yaml:"dependencies,flow"`
	Project      string    `yaml:"project,omitempty"`
	CreatedAt    time.Time `yaml:"created"`
	UpdatedAt    time.Time `yaml:"updated"`
}

type dependencyLine struct {
	ID     int
	Title  string
	Status string
	Found  bool
}

type documentData struct {
	Task         task.Task
	Technologies string
	Dependencies []dependencyLine
}

var bodyTemplate = template.Must(template.New("prd").Funcs(template.FuncMap{
	"orNone": func(s, none string) string {
		if strings.TrimSpace(s) == "" {
			return none
		}
		return strings.TrimSpace(s)
	},
}).Parse(`# {{ .Task.Title }}

## Overview

{{ orNone .Task.Description "No description." }}

## Core Features

{{ orNone .Task.Details "No implementation details." }}

## Test Strategy

{{ orNone .Task.TestStrategy "No test strategy." }}

## Technical Architecture

- Technologies: {{ orNone .Technologies "not specified" }}
- Category: {{ .Task.Category }}
- Priority: {{ .Task.Priority }}

## Logical Dependency Chain
{{ if .Dependencies }}
{{ range .Dependencies }}{{ if .Found }}- Task {{ .ID }}: {{ .Title }} ({{ .Status }})
{{ else }}- Task {{ .ID }}: not found
{{ end }}{{ end }}{{ else }}
No dependencies.
{{ end }}
## Subtasks
{{ if .Task.Subtasks }}
{{ range .Task.Subtasks }}- [{{ if eq .Status "done" }}x{{ else }} {{ end }}] {{ $.Task.ID }}.{{ .ID }} {{ .Title }}{{ if .Description }}: {{ .Description }}{{ end }}
{{ end }}{{ else }}
No subtasks.
{{ end }}
## Development Roadmap

1. Implement the core functionality.
2. Test and validate.
3. Integrate with the existing system.

## Risks and Mitigations

- Technical complexity
- External dependencies
- Implementation time
`))

// Render returns the PRD for t. all is used to resolve dependency titles.
func Render(t task.Task, all []task.Task, project Project) ([]byte, error) {
	fm := FrontMatter{
		ID:           t.ID,
		Title:        t.Title,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		Category:     t.Category,
		Dependencies: append([]int{}, t.Dependencies...),
		Project:      project.Name,
		CreatedAt:    t.CreatedAt.UTC(),
		UpdatedAt:    t.UpdatedAt.UTC(),
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}

	byID := make(map[int]task.Task, len(all))
	for _, other := range all {
		byID[other.ID] = other
	}
	data := documentData{
		Task:         t,
		Technologies: strings.Join(project.Technologies, ", "),
	}
	for _, dep := range t.Dependencies {
		other, ok := byID[dep]
		data.Dependencies = append(data.Dependencies, dependencyLine{
			ID:     dep,
			Title:  other.Title,
			Status: string(other.Status),
			Found:  ok,
		})
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render prd: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName returns the PRD file name for a task.
func FileName(id int) string {
	return fmt.Sprintf("task-%d.md", id)
}

// WriteAll renders every task into dir, creating it if needed, and returns
// the written paths in task order.
func WriteAll(dir string, tasks []task.Task, project Project) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create prd dir: %w", err)
	}
	paths := make([]string, 0, len(tasks))
	for _, t := range tasks {
		content, err := Render(t, tasks, project)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		path := filepath.Join(dir, FileName(t.ID))
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadFrontMatter parses the YAML header of a rendered PRD.
func ReadFrontMatter(content []byte) (*FrontMatter, error) {
	rest, ok := bytes.CutPrefix(content, []byte("---\n"))
	if !ok {
		return nil, fmt.Errorf("missing front matter")
	}
	header, _, ok := bytes.Cut(rest, []byte("\n---\n"))
	if !ok {
		return nil, fmt.Errorf("unterminated front matter")
	}
	var fm FrontMatter
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	return &fm, nil
}
