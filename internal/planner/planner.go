// Package planner turns generated task batches into stored tasks.
package planner

import (
	"context"
	"errors"
	"fmt"

	"github.com/amonks/taskmanager/internal/ai"
	"github.com/amonks/taskmanager/internal/logging"
	"github.com/amonks/taskmanager/task"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// ErrExpansionUnavailable is returned by Expand when no AI provider can
// expand tasks. Callers fall back to asking for subtasks by hand.
var ErrExpansionUnavailable = errors.New("AI expansion unavailable")

// Store is the part of *task.Store the planner writes to.
type Store interface {
	AddBatch(batch []task.Task, batchID string) ([]task.Task, task.DependencyReport, error)
	Replace(batch []task.Task, projectType task.ProjectType, batchID string) ([]task.Task, task.DependencyReport, error)
	Get(id int) (*task.Task, error)
	AddSubtasks(id int, inputs []task.SubtaskInput) ([]task.Subtask, error)
	Improve(id int, imp task.Improvements) (*task.Task, error)
}

// Planner generates tasks and saves them.
type Planner struct {
	Store     Store
	Generator ai.Generator

	// Expander is nil when no provider can expand tasks.
	Expander ai.Expander

	// Logger receives fallback and repair diagnostics. Nil discards them.
	Logger *log.Logger

	// NewBatchID overrides uuid generation.
	NewBatchID func() string
}

// PlanRequest asks for a batch of generated tasks.
type PlanRequest struct {
	ai.GenerateRequest

	// Replace discards existing tasks instead of appending.
	Replace bool
}

// PlanResult describes a saved batch.
type PlanResult struct {
	BatchID string
	Tasks   []task.Task
	Report  task.DependencyReport

	// Source names the generator that produced the batch.
	Source string

	// FallbackErr is the provider error that triggered simulation, if any.
	FallbackErr error
}

func (p *Planner) logger() *log.Logger {
	if p.Logger == nil {
		return logging.Discard()
	}
	return p.Logger
}

func (p *Planner) batchID() string {
	if p.NewBatchID != nil {
		return p.NewBatchID()
	}
	return uuid.NewString()
}

// Plan generates tasks and stores them. A provider error falls back to
// the simulator. Dependencies are validated by the store before saving.
func (p *Planner) Plan(ctx context.Context, req PlanRequest) (*PlanResult, error) {
	gen := p.Generator
	if gen == nil {
		gen = ai.Simulator{}
	}
	result := &PlanResult{Source: ai.NameOf(gen)}

	batch, err := gen.GenerateTasks(ctx, req.GenerateRequest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if _, isSim := gen.(ai.Simulator); isSim {
			return nil, fmt.Errorf("generate tasks: %w", err)
		}
		p.logger().Warn("provider failed, using simulation", "provider", result.Source, "err", err)
		result.FallbackErr = err
		result.Source = ai.Simulator{}.Name()
		batch, err = ai.Simulator{}.GenerateTasks(ctx, req.GenerateRequest)
		if err != nil {
			return nil, fmt.Errorf("generate tasks: %w", err)
		}
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("generate tasks: %w", ai.ErrEmptyResponse)
	}

	result.BatchID = p.batchID()
	if req.Replace {
		result.Tasks, result.Report, err = p.Store.Replace(batch, req.ProjectType, result.BatchID)
	} else {
		result.Tasks, result.Report, err = p.Store.AddBatch(batch, result.BatchID)
	}
	if err != nil {
		return nil, fmt.Errorf("save tasks: %w", err)
	}

	if result.Report.Changed() {
		p.logger().Info("repaired generated dependencies",
			"batch", result.BatchID,
			"dropped", len(result.Report.Dropped),
			"added", len(result.Report.Added))
	}
	for _, d := range result.Report.Dropped {
		p.logger().Debug("dropped dependency", "task", d.TaskID, "dep", d.DependsOn, "reason", d.Reason)
	}
	return result, nil
}

// ExpandResult describes the subtasks added by Expand.
type ExpandResult struct {
	Task      *task.Task
	Analysis  string
	Subtasks  []task.Subtask
	Suggested task.Improvements
	Improved  bool
}

// ExpandOptions controls Expand.
type ExpandOptions struct {
	Count int

	// ApplyImprovements saves suggested description, details and test
	// strategy changes.
	ApplyImprovements bool
}

// Expand asks the expander for subtasks of task id and stores them.
func (p *Planner) Expand(ctx context.Context, id int, opts ExpandOptions) (*ExpandResult, error) {
	if p.Expander == nil {
		return nil, ErrExpansionUnavailable
	}
	t, err := p.Store.Get(id)
	if err != nil {
		return nil, err
	}
	count := opts.Count
	if count < 1 {
		count = 1
	}

	exp, err := p.Expander.ExpandTask(ctx, ai.ExpandRequest{Task: *t, Count: count})
	if err != nil {
		p.logger().Warn("expansion failed", "task", id, "provider", ai.NameOf(p.Expander), "err", err)
		return nil, fmt.Errorf("%w: %v", ErrExpansionUnavailable, err)
	}

	added, err := p.Store.AddSubtasks(id, exp.Subtasks)
	if err != nil {
		return nil, fmt.Errorf("add subtasks: %w", err)
	}
	result := &ExpandResult{
		Analysis:  exp.Analysis,
		Subtasks:  added,
		Suggested: exp.Improvements,
	}

	if opts.ApplyImprovements && exp.Improvements != (task.Improvements{}) {
		updated, err := p.Store.Improve(id, exp.Improvements)
		if err != nil {
			return nil, fmt.Errorf("apply improvements: %w", err)
		}
		result.Task = updated
		result.Improved = true
		return result, nil
	}

	result.Task, err = p.Store.Get(id)
	if err != nil {
		return nil, err
	}
	return result, nil
}
