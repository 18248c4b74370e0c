// Package ai generates task lists and subtask breakdowns with language
// model providers, falling back to an offline simulator.
package ai

import (
	"context"
	"errors"

	"github.com/amonks/taskmanager/task"
)

var (
	// ErrMissingKey is returned when a provider is used without an API key.
	ErrMissingKey = errors.New("missing API key")

	// ErrNoJSON is returned when a response contains no JSON payload.
	ErrNoJSON = errors.New("no JSON found in response")

	// ErrEmptyResponse is returned when a provider answers with no content.
	ErrEmptyResponse = errors.New("empty response")

	// ErrInvalidResponse is returned when a response fails schema validation.
	ErrInvalidResponse = errors.New("invalid response")
)

// GenerateRequest describes the project to plan tasks for.
type GenerateRequest struct {
	ProjectName  string
	Description  string
	Technologies []string
	ProjectType  task.ProjectType
	Count        int
}

// ExpandRequest asks for Count new subtasks of Task.
type ExpandRequest struct {
	Task  task.Task
	Count int
}

// Expansion is the result of analysing a task.
type Expansion struct {
	// Analysis is markdown prose describing the task.
	Analysis     string
	Subtasks     []task.SubtaskInput
	Improvements task.Improvements
}

// Generator produces a batch of tasks. Task IDs in the batch are local,
// numbered from 1, and dependencies refer to those local IDs.
type Generator interface {
	GenerateTasks(ctx context.Context, req GenerateRequest) ([]task.Task, error)
}

// Expander breaks a task into subtasks.
type Expander interface {
	ExpandTask(ctx context.Context, req ExpandRequest) (*Expansion, error)
}

// Named is implemented by generators that can report which provider they use.
type Named interface {
	Name() string
}

// NameOf returns the provider name of g, or "unknown".
func NameOf(g any) string {
	if n, ok := g.(Named); ok {
		return n.Name()
	}
	return "unknown"
}
