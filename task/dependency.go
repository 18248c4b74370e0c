package task

import (
	"fmt"
	"slices"
)

// DepAdd makes task id depend on dependsOn.
//
// Dependencies must point at a smaller ID; anything else would break the
// ordering the validator relies on. Dependencies implied by the new edge are
// added too.
func (s *Store) DepAdd(id, dependsOn int) (*Task, error) {
	var updated Task
	err := s.update(func(doc *Document) error {
		t, err := findTask(doc, id)
		if err != nil {
			return err
		}
		if err := checkNewDependency(id, dependsOn, taskIndexByID(doc.Tasks)); err != nil {
			return err
		}
		if slices.Contains(t.Dependencies, dependsOn) {
			return fmt.Errorf("%w: %d -> %d", ErrDuplicateDependency, id, dependsOn)
		}

		t.Dependencies = append(slices.Clone(t.Dependencies), dependsOn)
		t.UpdatedAt = s.now()

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

func checkNewDependency(id, dependsOn int, index map[int]int) error {
	if dependsOn == id {
		return ErrSelfDependency
	}
	if _, ok := index[dependsOn]; !ok {
		return fmt.Errorf("dependency %d: %w", dependsOn, ErrTaskNotFound)
	}
	if dependsOn > id {
		return fmt.Errorf("%w: %d cannot depend on %d", ErrForwardDependency, id, dependsOn)
	}
	return nil
}

// DepRemove removes the dependency of task id on dependsOn.
//
// An edge that some other remaining dependency still implies can't be
// removed on its own, since validation would add it back; ErrImpliedDependency
// is returned instead.
func (s *Store) DepRemove(id, dependsOn int) (*Task, error) {
	var updated Task
	err := s.update(func(doc *Document) error {
		t, err := findTask(doc, id)
		if err != nil {
			return err
		}
		if !slices.Contains(t.Dependencies, dependsOn) {
			return fmt.Errorf("%w: %d -> %d", ErrDependencyNotFound, id, dependsOn)
		}

		remaining := slices.DeleteFunc(slices.Clone(t.Dependencies), func(d int) bool { return d == dependsOn })
		index := taskIndexByID(doc.Tasks)
		for _, d := range remaining {
			i, ok := index[d]
			if !ok {
				continue
			}
			if slices.Contains(doc.Tasks[i].Dependencies, dependsOn) {
				return fmt.Errorf("%w: %d -> %d (via %d)", ErrImpliedDependency, id, dependsOn, d)
			}
		}

		t.Dependencies = remaining
		t.UpdatedAt = s.now()
		updated = *t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DepTree returns the dependency tree rooted at the task with the given ID.
// Only direct edges are expanded, so transitively implied dependencies
// appear once under the task that introduces them.
func (s *Store) DepTree(id int) (*DepTreeNode, error) {
	doc, err := s.Load()
	if err != nil {
		return nil, err
	}

	root, err := findTask(doc, id)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*Task, len(doc.Tasks))
	for i := range doc.Tasks {
		byID[doc.Tasks[i].ID] = &doc.Tasks[i]
	}

	path := make(map[int]bool)
	return buildDepTree(root, byID, path), nil
}

func buildDepTree(t *Task, byID map[int]*Task, path map[int]bool) *DepTreeNode {
	node := &DepTreeNode{Task: t}
	if path[t.ID] {
		return node
	}
	path[t.ID] = true
	defer delete(path, t.ID)

	for _, dep := range directDependencies(t, byID) {
		child, ok := byID[dep]
		if !ok {
			continue
		}
		node.Children = append(node.Children, buildDepTree(child, byID, path))
	}
	return node
}

// directDependencies returns the dependencies of t that aren't implied by
// another of its dependencies.
func directDependencies(t *Task, byID map[int]*Task) []int {
	implied := make(map[int]bool)
	for _, d := range t.Dependencies {
		if dep, ok := byID[d]; ok {
			for _, dd := range dep.Dependencies {
				implied[dd] = true
			}
		}
	}
	direct := []int{}
	for _, d := range t.Dependencies {
		if !implied[d] {
			direct = append(direct, d)
		}
	}
	return direct
}

// Repair runs ValidateDependencies over every stored task and saves the
// result if anything changed.
func (s *Store) Repair() (DependencyReport, error) {
	var report DependencyReport
	err := s.update(func(doc *Document) error {
		var fixed []Task
		fixed, report = ValidateDependenciesReport(doc.Tasks)
		touched := make(map[int]bool)
		for i := range fixed {
			if !slices.Equal(fixed[i].Dependencies, doc.Tasks[i].Dependencies) {
				touched[fixed[i].ID] = true
			}
		}
		if len(touched) == 0 && !report.Changed() {
			return errUnchanged
		}
		now := s.now()
		for _, e := range report.Dropped {
			touched[e.TaskID] = true
		}
		for _, e := range report.Added {
			touched[e.TaskID] = true
		}
		for i := range fixed {
			if touched[fixed[i].ID] {
				fixed[i].UpdatedAt = now
			}
		}
		doc.Tasks = fixed
		return nil
	})
	if err != nil {
		return DependencyReport{}, err
	}
	return report, nil
}
