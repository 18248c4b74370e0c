package task

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// AddOptions configures a new task.
type AddOptions struct {
	Description  string
	Details      string
	TestStrategy string

	// Category defaults to DefaultCategory.
	Category string

	// Priority defaults to PriorityMedium.
	Priority Priority

	// Status defaults to StatusPending.
	Status Status

	// Dependencies must name existing tasks.
	Dependencies []int
}

// Add creates a new task with the next free ID.
// Dependencies are closed transitively before the task is saved.
func (s *Store) Add(title string, opts AddOptions) (*Task, error) {
	title = strings.TrimSpace(title)
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}

	priority := PriorityMedium
	if opts.Priority != "" {
		p, err := ParsePriority(string(opts.Priority))
		if err != nil {
			return nil, err
		}
		priority = p
	}

	status := StatusPending
	if opts.Status != "" {
		st, err := ParseStatus(string(opts.Status))
		if err != nil {
			return nil, err
		}
		status = st
	}

	category := strings.TrimSpace(opts.Category)
	if category == "" {
		category = DefaultCategory
	}

	var created Task
	err := s.update(func(doc *Document) error {
		index := taskIndexByID(doc.Tasks)
		for _, dep := range opts.Dependencies {
			if _, ok := index[dep]; !ok {
				return fmt.Errorf("dependency %d: %w", dep, ErrTaskNotFound)
			}
		}

		now := s.now()
		created = Task{
			ID:           maxID(doc.Tasks) + 1,
			Title:        title,
			Description:  opts.Description,
			Status:       status,
			Priority:     priority,
			Dependencies: slices.Clone(opts.Dependencies),
			Details:      opts.Details,
			TestStrategy: opts.TestStrategy,
			Category:     category,
			CreatedAt:    now,
			UpdatedAt:    now,
			Subtasks:     []Subtask{},
		}
		normalizeTask(&created)

		doc.Tasks = ValidateDependencies(append(doc.Tasks, created))
		created = doc.Tasks[len(doc.Tasks)-1]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// AddBatch appends generated tasks after the current highest ID.
//
// IDs inside the batch are local: a dependency on batch ID n points at the
// batch task that had ID n. Unknown local references are dropped. The
// combined task list goes through ValidateDependencies once before saving.
func (s *Store) AddBatch(batch []Task, batchID string) ([]Task, DependencyReport, error) {
	var (
		added  []Task
		report DependencyReport
	)
	err := s.update(func(doc *Document) error {
		offset := maxID(doc.Tasks)
		now := s.now()

		remap := make(map[int]int, len(batch))
		for i, t := range batch {
			if _, ok := remap[t.ID]; !ok {
				remap[t.ID] = offset + i + 1
			}
		}

		incoming := make([]Task, len(batch))
		for i, t := range batch {
			t.ID = offset + i + 1
			deps := make([]int, 0, len(t.Dependencies))
			for _, d := range t.Dependencies {
				if mapped, ok := remap[d]; ok {
					deps = append(deps, mapped)
				}
			}
			t.Dependencies = deps
			incoming[i] = prepareGenerated(t, now)
		}

		for i := range incoming {
			if err := ValidateTask(&incoming[i]); err != nil {
				return fmt.Errorf("generated task %d: %w", i+1, err)
			}
		}

		existing := len(doc.Tasks)
		var all []Task
		all, report = ValidateDependenciesReport(append(doc.Tasks, incoming...))
		doc.Tasks = all
		added = slices.Clone(all[existing:])
		if batchID != "" {
			doc.Metadata.LastBatchID = batchID
		}
		return nil
	})
	if err != nil {
		return nil, DependencyReport{}, err
	}
	return added, report, nil
}

// Replace discards all stored tasks and saves batch in their place.
// Batch IDs are kept as given; dependencies are validated.
func (s *Store) Replace(batch []Task, projectType ProjectType, batchID string) ([]Task, DependencyReport, error) {
	var (
		out    []Task
		report DependencyReport
	)
	err := s.update(func(doc *Document) error {
		now := s.now()
		incoming := make([]Task, len(batch))
		for i, t := range batch {
			incoming[i] = prepareGenerated(t, now)
			if err := ValidateTask(&incoming[i]); err != nil {
				return fmt.Errorf("task %d: %w", t.ID, err)
			}
		}
		out, report = ValidateDependenciesReport(incoming)
		doc.Tasks = out
		if projectType != "" {
			doc.Metadata.ProjectType = projectType
		}
		doc.Metadata.LastBatchID = batchID
		return nil
	})
	if err != nil {
		return nil, DependencyReport{}, err
	}
	return slices.Clone(out), report, nil
}

func prepareGenerated(t Task, now time.Time) Task {
	t.Title = strings.TrimSpace(t.Title)
	t.Status = normalizeStatus(t.Status)
	if t.Status == "" {
		t.Status = StatusPending
	}
	t.Priority = normalizePriority(t.Priority)
	if strings.TrimSpace(t.Category) == "" {
		t.Category = DefaultCategory
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	t.Subtasks = slices.Clone(t.Subtasks)
	for i := range t.Subtasks {
		st := &t.Subtasks[i]
		st.ID = i + 1
		st.Status = normalizeStatus(st.Status)
		if st.Status == "" {
			st.Status = StatusPending
		}
		if st.CreatedAt.IsZero() {
			st.CreatedAt = now
		}
		st.UpdatedAt = now
	}
	normalizeTask(&t)
	return t
}

// UpdateOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type UpdateOptions struct {
	Title        *string
	Description  *string
	Details      *string
	TestStrategy *string
	Category     *string
	Status       *Status
	Priority     *Priority

	// Dependencies replaces the dependency list. Entries must name
	// existing tasks with smaller IDs.
	Dependencies *[]int
}

// Update applies opts to the task with the given ID.
func (s *Store) Update(id int, opts UpdateOptions) (*Task, error) {
	if opts.Title != nil {
		trimmed := strings.TrimSpace(*opts.Title)
		if err := ValidateTitle(trimmed); err != nil {
			return nil, err
		}
		opts.Title = &trimmed
	}
	if opts.Status != nil {
		normalized, err := ParseStatus(string(*opts.Status))
		if err != nil {
			return nil, err
		}
		opts.Status = &normalized
	}
	if opts.Priority != nil {
		normalized, err := ParsePriority(string(*opts.Priority))
		if err != nil {
			return nil, err
		}
		opts.Priority = &normalized
	}

	var updated Task
	err := s.update(func(doc *Document) error {
		t, err := findTask(doc, id)
		if err != nil {
			return err
		}

		if opts.Dependencies != nil {
			index := taskIndexByID(doc.Tasks)
			for _, dep := range *opts.Dependencies {
				if err := checkNewDependency(id, dep, index); err != nil {
					return err
				}
			}
		}

		if opts.Title != nil {
			t.Title = *opts.Title
		}
		if opts.Description != nil {
			t.Description = *opts.Description
		}
		if opts.Details != nil {
			t.Details = *opts.Details
		}
		if opts.TestStrategy != nil {
			t.TestStrategy = *opts.TestStrategy
		}
		if opts.Category != nil {
			t.Category = strings.TrimSpace(*opts.Category)
		}
		if opts.Status != nil {
			t.Status = *opts.Status
		}
		if opts.Priority != nil {
			t.Priority = *opts.Priority
		}
		if opts.Dependencies != nil {
			t.Dependencies = slices.Clone(*opts.Dependencies)
		}
		t.UpdatedAt = s.now()
		normalizeTask(t)

		doc.Tasks = ValidateDependencies(doc.Tasks)
		t, _ = findTask(doc, id)
		updated = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove deletes a task and strips it from every other task's dependencies.
func (s *Store) Remove(id int) (*Task, error) {
	var removed Task
	err := s.update(func(doc *Document) error {
		idx := slices.IndexFunc(doc.Tasks, func(t Task) bool { return t.ID == id })
		if idx < 0 {
			return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
		}
		removed = doc.Tasks[idx]
		doc.Tasks = slices.Delete(doc.Tasks, idx, idx+1)

		now := s.now()
		for i := range doc.Tasks {
			t := &doc.Tasks[i]
			if slices.Contains(t.Dependencies, id) {
				t.Dependencies = slices.DeleteFunc(slices.Clone(t.Dependencies), func(d int) bool { return d == id })
				t.UpdatedAt = now
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// Get returns the task with the given ID.
func (s *Store) Get(id int) (*Task, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	t, err := findTask(doc, id)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListFilter configures which tasks to return.
type ListFilter struct {
	// Status filters by status. If nil, all statuses are included.
	Status *Status

	// Priority filters by priority. If nil, all priorities are included.
	Priority *Priority

	// Category filters by category (case-insensitive).
	Category string

	// Query filters to tasks whose title or description contains it.
	Query string
}

// List returns tasks matching the filter, ordered by ID.
func (s *Store) List(filter ListFilter) ([]Task, error) {
	if filter.Status != nil {
		normalized, err := ParseStatus(string(*filter.Status))
		if err != nil {
			return nil, err
		}
		filter.Status = &normalized
	}
	if filter.Priority != nil {
		normalized, err := ParsePriority(string(*filter.Priority))
		if err != nil {
			return nil, err
		}
		filter.Priority = &normalized
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	result := []Task{}
	for _, t := range doc.Tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(t.Category, filter.Category) {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		result = append(result, t)
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Next returns the most important task that can be worked on now.
//
// Candidates are pending or in-progress tasks whose dependencies are all
// done. A dependency on a missing task counts as unfinished. Candidates
// sort by priority, then in-progress before pending, then ID.
func (s *Store) Next() (*Task, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	ready := readyTasks(doc.Tasks)
	if len(ready) == 0 {
		return nil, ErrNoTaskAvailable
	}
	return &ready[0], nil
}

// Ready returns every task that can be worked on now, in Next order.
func (s *Store) Ready() ([]Task, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	return readyTasks(doc.Tasks), nil
}

func readyTasks(tasks []Task) []Task {
	index := taskIndexByID(tasks)

	ready := []Task{}
	for _, t := range tasks {
		if !t.Status.IsActive() {
			continue
		}
		blocked := false
		for _, dep := range t.Dependencies {
			i, ok := index[dep]
			if !ok || tasks[i].Status != StatusDone {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, t)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		a, b := ready[i], ready[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() < b.Priority.Rank()
		}
		if a.Status != b.Status {
			return a.Status == StatusInProgress
		}
		return a.ID < b.ID
	})
	return ready
}

// Current returns the in-progress task with the lowest ID.
func (s *Store) Current() (*Task, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}
	var current *Task
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		if t.Status != StatusInProgress {
			continue
		}
		if current == nil || t.ID < current.ID {
			current = t
		}
	}
	if current == nil {
		return nil, ErrNoCurrentTask
	}
	return current, nil
}

// CurrentSubtask returns the first in-progress subtask of t, if any.
func CurrentSubtask(t *Task) *Subtask {
	for i := range t.Subtasks {
		if t.Subtasks[i].Status == StatusInProgress {
			return &t.Subtasks[i]
		}
	}
	return nil
}

// StatusOptions configures SetStatus.
type StatusOptions struct {
	// Subtask targets a subtask of the task instead of the task itself.
	Subtask int

	// Cascade applies a done or cancelled status to every subtask too.
	Cascade bool
}

// SetStatus changes the status of a task or one of its subtasks.
func (s *Store) SetStatus(id int, status Status, opts StatusOptions) (*Task, error) {
	normalized, err := ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	var updated Task
	err = s.update(func(doc *Document) error {
		t, err := findTask(doc, id)
		if err != nil {
			return err
		}
		now := s.now()

		if opts.Subtask > 0 {
			st, err := findSubtask(t, opts.Subtask)
			if err != nil {
				return err
			}
			st.Status = normalized
			st.UpdatedAt = now
		} else {
			t.Status = normalized
			cascade := opts.Cascade && (normalized == StatusDone || normalized == StatusCancelled)
			if cascade {
				for i := range t.Subtasks {
					t.Subtasks[i].Status = normalized
					t.Subtasks[i].UpdatedAt = now
				}
			}
		}
		t.UpdatedAt = now
		updated = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SubtaskInput describes a subtask to add.
type SubtaskInput struct {
	Title       string
	Description string
}

// AddSubtask appends a subtask to the task with the given ID.
func (s *Store) AddSubtask(id int, input SubtaskInput) (*Subtask, error) {
	added, err := s.AddSubtasks(id, []SubtaskInput{input})
	if err != nil {
		return nil, err
	}
	return &added[0], nil
}

// AddSubtasks appends subtasks to the task with the given ID, numbering
// them after the task's existing subtasks.
func (s *Store) AddSubtasks(id int, inputs []SubtaskInput) ([]Subtask, error) {
	for _, in := range inputs {
		if err := ValidateTitle(in.Title); err != nil {
			return nil, err
		}
	}

	var added []Subtask
	err := s.update(func(doc *Document) error {
		t, err := findTask(doc, id)
		if err != nil {
			return err
		}
		next := 1
		for _, st := range t.Subtasks {
			if st.ID >= next {
				next = st.ID + 1
			}
		}

		now := s.now()
		for _, in := range inputs {
			st := Subtask{
				ID:          next,
				Title:       strings.TrimSpace(in.Title),
				Description: in.Description,
				Status:      StatusPending,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			next++
			t.Subtasks = append(t.Subtasks, st)
			added = append(added, st)
		}
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// Improvements holds optional replacements for a task's text fields.
// Empty fields are left alone.
type Improvements struct {
	Description  string
	Details      string
	TestStrategy string
}

// Improve applies non-empty improvements to the task with the given ID.
func (s *Store) Improve(id int, imp Improvements) (*Task, error) {
	opts := UpdateOptions{}
	if imp.Description != "" {
		opts.Description = &imp.Description
	}
	if imp.Details != "" {
		opts.Details = &imp.Details
	}
	if imp.TestStrategy != "" {
		opts.TestStrategy = &imp.TestStrategy
	}
	return s.Update(id, opts)
}

func findTask(doc *Document, id int) (*Task, error) {
	for i := range doc.Tasks {
		if doc.Tasks[i].ID == id {
			return &doc.Tasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

func findSubtask(t *Task, id int) (*Subtask, error) {
	for i := range t.Subtasks {
		if t.Subtasks[i].ID == id {
			return &t.Subtasks[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d.%d", ErrSubtaskNotFound, t.ID, id)
}

func taskIndexByID(tasks []Task) map[int]int {
	index := make(map[int]int, len(tasks))
	for i, t := range tasks {
		index[t.ID] = i
	}
	return index
}

func maxID(tasks []Task) int {
	highest := 0
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest
}
