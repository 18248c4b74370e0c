package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amonks/taskmanager/task"
)

type rawTask struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Status       string       `json:"status"`
	Priority     string       `json:"priority"`
	Dependencies []any        `json:"dependencies"`
	Details      string       `json:"details"`
	TestStrategy string       `json:"testStrategy"`
	Category     string       `json:"category"`
	Subtasks     []rawSubtask `json:"subtasks"`
}

type rawSubtask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type rawExpansion struct {
	Analysis         string       `json:"analysis"`
	Subtasks         []rawSubtask `json:"subtasks"`
	TaskImprovements *struct {
		Description  string `json:"description"`
		Details      string `json:"details"`
		TestStrategy string `json:"testStrategy"`
	} `json:"taskImprovements"`
}

// ParseTasks extracts a task list from a model reply.
//
// The first JSON array in text is validated and decoded. Tasks are
// renumbered 1..N in response order; dependencies are kept as written.
// Missing fields get defaults: title "Task N", priority medium, status
// pending, category "general".
func ParseTasks(text string) ([]task.Task, error) {
	raw, ok := extractJSON(text, '[', ']')
	if !ok {
		return nil, ErrNoJSON
	}
	if err := validateJSON(tasksSchemaURL, raw); err != nil {
		return nil, err
	}
	var items []rawTask
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	tasks := make([]task.Task, len(items))
	for i, item := range items {
		t := task.Task{
			ID:           i + 1,
			Title:        strings.TrimSpace(item.Title),
			Description:  strings.TrimSpace(item.Description),
			Status:       parseStatusOr(item.Status, task.StatusPending),
			Priority:     parsePriorityOr(item.Priority, task.PriorityMedium),
			Dependencies: parseIDs(item.Dependencies),
			Details:      strings.TrimSpace(item.Details),
			TestStrategy: strings.TrimSpace(item.TestStrategy),
			Category:     strings.TrimSpace(item.Category),
			Subtasks:     make([]task.Subtask, len(item.Subtasks)),
		}
		if t.Title == "" {
			t.Title = fmt.Sprintf("Task %d", i+1)
		}
		if t.Category == "" {
			t.Category = "general"
		}
		for j, st := range item.Subtasks {
			title := strings.TrimSpace(st.Title)
			if title == "" {
				title = fmt.Sprintf("Subtask %d", j+1)
			}
			t.Subtasks[j] = task.Subtask{
				ID:          j + 1,
				Title:       title,
				Description: strings.TrimSpace(st.Description),
				Status:      parseStatusOr(st.Status, task.StatusPending),
			}
		}
		tasks[i] = t
	}
	return tasks, nil
}

// ParseExpansion extracts an expansion from a model reply.
func ParseExpansion(text string) (*Expansion, error) {
	raw, ok := extractJSON(text, '{', '}')
	if !ok {
		return nil, ErrNoJSON
	}
	if err := validateJSON(expansionSchemaURL, raw); err != nil {
		return nil, err
	}
	var parsed rawExpansion
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	exp := &Expansion{Analysis: strings.TrimSpace(parsed.Analysis)}
	for _, st := range parsed.Subtasks {
		title := strings.TrimSpace(st.Title)
		if title == "" {
			continue
		}
		exp.Subtasks = append(exp.Subtasks, task.SubtaskInput{
			Title:       title,
			Description: strings.TrimSpace(st.Description),
		})
	}
	if len(exp.Subtasks) == 0 {
		return nil, fmt.Errorf("%w: no subtasks", ErrInvalidResponse)
	}
	if imp := parsed.TaskImprovements; imp != nil {
		exp.Improvements = task.Improvements{
			Description:  strings.TrimSpace(imp.Description),
			Details:      strings.TrimSpace(imp.Details),
			TestStrategy: strings.TrimSpace(imp.TestStrategy),
		}
	}
	return exp, nil
}

// extractJSON returns the span from the first open byte to the last close
// byte in text. Models often wrap JSON in prose or code fences.
func extractJSON(text string, open, close byte) ([]byte, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return nil, false
	}
	return []byte(text[start : end+1]), true
}

// parseIDs keeps the positive integers in values. Numeric strings count.
func parseIDs(values []any) []int {
	ids := []int{}
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			if n >= 1 && n == float64(int(n)) {
				ids = append(ids, int(n))
			}
		case string:
			if id, err := task.ParseID(n); err == nil {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func parseStatusOr(value string, fallback task.Status) task.Status {
	if s, err := task.ParseStatus(value); err == nil {
		return s
	}
	return fallback
}

func parsePriorityOr(value string, fallback task.Priority) task.Priority {
	if p, err := task.ParsePriority(value); err == nil {
		return p
	}
	return fallback
}
