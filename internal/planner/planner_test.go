package planner

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/amonks/taskmanager/internal/ai"
	"github.com/amonks/taskmanager/task"
)

type fakeGenerator struct {
	tasks []task.Task
	err   error
	calls int
}

func (g *fakeGenerator) Name() string { return "fake" }

func (g *fakeGenerator) GenerateTasks(ctx context.Context, req ai.GenerateRequest) ([]task.Task, error) {
	g.calls++
	return g.tasks, g.err
}

type fakeExpander struct {
	exp *ai.Expansion
	err error
	req ai.ExpandRequest
}

func (e *fakeExpander) ExpandTask(ctx context.Context, req ai.ExpandRequest) (*ai.Expansion, error) {
	e.req = req
	return e.exp, e.err
}

func newStore(t *testing.T) *task.Store {
	t.Helper()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	store, err := task.Init(t.TempDir(), task.ProjectNew, func() time.Time { return now })
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return store
}

func fixedID() string { return "batch-1" }

func TestPlanRepairsAndSavesBatch(t *testing.T) {
	store := newStore(t)
	gen := &fakeGenerator{tasks: []task.Task{
		{ID: 1, Title: "A", Dependencies: []int{2}},
		{ID: 2, Title: "B", Dependencies: []int{1}},
		{ID: 3, Title: "C", Dependencies: []int{2}},
	}}
	p := &Planner{Store: store, Generator: gen, NewBatchID: fixedID}

	result, err := p.Plan(context.Background(), PlanRequest{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if result.BatchID != "batch-1" || result.Source != "fake" {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(result.Tasks))
	}
	want := [][]int{{}, {1}, {1, 2}}
	for i, tk := range result.Tasks {
		if !slices.Equal(tk.Dependencies, want[i]) {
			t.Fatalf("task %d: expected deps %v, got %v", tk.ID, want[i], tk.Dependencies)
		}
	}
	if !result.Report.Changed() {
		t.Fatal("expected repairs to be reported")
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Metadata.LastBatchID != "batch-1" {
		t.Fatalf("expected batch id to be stored, got %q", doc.Metadata.LastBatchID)
	}
}

func TestPlanAppendsAfterExistingTasks(t *testing.T) {
	store := newStore(t)
	if _, err := store.Add("Existing", task.AddOptions{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	gen := &fakeGenerator{tasks: []task.Task{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B", Dependencies: []int{1}},
	}}
	p := &Planner{Store: store, Generator: gen, NewBatchID: fixedID}

	result, err := p.Plan(context.Background(), PlanRequest{})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if result.Tasks[0].ID != 2 || result.Tasks[1].ID != 3 {
		t.Fatalf("expected ids 2 and 3, got %d and %d", result.Tasks[0].ID, result.Tasks[1].ID)
	}
	if !slices.Equal(result.Tasks[1].Dependencies, []int{2}) {
		t.Fatalf("expected remapped dependency, got %v", result.Tasks[1].Dependencies)
	}
}

func TestPlanReplace(t *testing.T) {
	store := newStore(t)
	if _, err := store.Add("Old", task.AddOptions{}); err != nil {
		t.Fatalf("add: %v", err)
	}
	gen := &fakeGenerator{tasks: []task.Task{{ID: 1, Title: "New"}}}
	p := &Planner{Store: store, Generator: gen, NewBatchID: fixedID}

	_, err := p.Plan(context.Background(), PlanRequest{
		GenerateRequest: ai.GenerateRequest{ProjectType: task.ProjectExisting},
		Replace:         true,
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	doc, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Tasks) != 1 || doc.Tasks[0].Title != "New" {
		t.Fatalf("expected only the new task, got %+v", doc.Tasks)
	}
	if doc.Metadata.ProjectType != task.ProjectExisting {
		t.Fatalf("expected project type existing, got %q", doc.Metadata.ProjectType)
	}
}

func TestPlanFallsBackToSimulation(t *testing.T) {
	store := newStore(t)
	providerErr := errors.New("rate limited")
	p := &Planner{Store: store, Generator: &fakeGenerator{err: providerErr}, NewBatchID: fixedID}

	result, err := p.Plan(context.Background(), PlanRequest{
		GenerateRequest: ai.GenerateRequest{ProjectType: task.ProjectNew, Count: 3},
	})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if result.Source != "simulation" || !errors.Is(result.FallbackErr, providerErr) {
		t.Fatalf("expected simulation fallback, got %+v", result)
	}
	if len(result.Tasks) != 3 {
		t.Fatalf("expected 3 simulated tasks, got %d", len(result.Tasks))
	}
}

func TestPlanStopsOnCancelledContext(t *testing.T) {
	store := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Planner{Store: store, Generator: &fakeGenerator{err: context.Canceled}}

	if _, err := p.Plan(ctx, PlanRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestPlanRejectsEmptyBatch(t *testing.T) {
	p := &Planner{Store: newStore(t), Generator: &fakeGenerator{}}

	if _, err := p.Plan(context.Background(), PlanRequest{}); !errors.Is(err, ai.ErrEmptyResponse) {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestExpandUnavailable(t *testing.T) {
	p := &Planner{Store: newStore(t)}

	if _, err := p.Expand(context.Background(), 1, ExpandOptions{Count: 2}); !errors.Is(err, ErrExpansionUnavailable) {
		t.Fatalf("expected ErrExpansionUnavailable, got %v", err)
	}
}

func TestExpandAddsSubtasksAndImprovements(t *testing.T) {
	store := newStore(t)
	added, err := store.Add("Cache", task.AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.AddSubtask(added.ID, task.SubtaskInput{Title: "Existing"}); err != nil {
		t.Fatalf("add subtask: %v", err)
	}
	exp := &fakeExpander{exp: &ai.Expansion{
		Analysis:     "Needs eviction.",
		Subtasks:     []task.SubtaskInput{{Title: "LRU"}, {Title: "Metrics"}},
		Improvements: task.Improvements{Details: "Use an LRU list."},
	}}
	p := &Planner{Store: store, Expander: exp}

	result, err := p.Expand(context.Background(), added.ID, ExpandOptions{Count: 2, ApplyImprovements: true})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if exp.req.Count != 2 || exp.req.Task.Title != "Cache" {
		t.Fatalf("unexpected request %+v", exp.req)
	}
	if len(result.Subtasks) != 2 || result.Subtasks[0].ID != 2 || result.Subtasks[1].ID != 3 {
		t.Fatalf("expected subtasks numbered 2 and 3, got %+v", result.Subtasks)
	}
	if !result.Improved || result.Task.Details != "Use an LRU list." {
		t.Fatalf("expected improvements applied, got %+v", result.Task)
	}
	if len(result.Task.Subtasks) != 3 {
		t.Fatalf("expected 3 subtasks on task, got %d", len(result.Task.Subtasks))
	}
}

func TestExpandProviderErrorIsUnavailable(t *testing.T) {
	store := newStore(t)
	added, err := store.Add("Cache", task.AddOptions{})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	p := &Planner{Store: store, Expander: &fakeExpander{err: errors.New("boom")}}

	if _, err := p.Expand(context.Background(), added.ID, ExpandOptions{}); !errors.Is(err, ErrExpansionUnavailable) {
		t.Fatalf("expected ErrExpansionUnavailable, got %v", err)
	}
}

func TestExpandMissingTask(t *testing.T) {
	p := &Planner{Store: newStore(t), Expander: &fakeExpander{}}

	if _, err := p.Expand(context.Background(), 9, ExpandOptions{}); !errors.Is(err, task.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}
