package task

import (
	"maps"
	"slices"
)

// DropReason explains why a declared dependency was removed.
type DropReason string

const (
	// DropForward marks a dependency on a task with a larger ID.
	DropForward DropReason = "forward"

	// DropSelf marks a dependency of a task on itself.
	DropSelf DropReason = "self"

	// DropDangling marks a dependency on an ID that is not in the batch.
	DropDangling DropReason = "dangling"

	// DropCycle marks a dependency cleared because a cycle was reachable.
	DropCycle DropReason = "cycle"
)

// Edge is a single "TaskID depends on DependsOn" relation.
type Edge struct {
	TaskID    int
	DependsOn int
}

// DroppedEdge is an edge removed during validation.
type DroppedEdge struct {
	Edge
	Reason DropReason
}

// DependencyReport lists the edges that validation removed or added.
type DependencyReport struct {
	Dropped []DroppedEdge
	Added   []Edge
}

// Changed reports whether validation modified any dependency list.
func (r DependencyReport) Changed() bool {
	return len(r.Dropped) > 0 || len(r.Added) > 0
}

// ValidateDependencies returns a copy of tasks in which every dependency list
// refers only to smaller IDs present in the batch, is transitively closed,
// is acyclic, and is sorted ascending without duplicates.
//
// It never fails: invalid edges are dropped rather than rejected. All fields
// other than Dependencies are passed through unchanged, and the input slice
// is not modified.
func ValidateDependencies(tasks []Task) []Task {
	out, _ := ValidateDependenciesReport(tasks)
	return out
}

// ValidateDependenciesReport is ValidateDependencies plus a description of
// every edge it dropped or added, for callers that want to log repairs.
func ValidateDependenciesReport(tasks []Task) ([]Task, DependencyReport) {
	var report DependencyReport

	ids := make(map[int]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}

	// Tasks sharing an ID are treated as one node whose edges are the union.
	filtered := make(map[int]map[int]bool, len(ids))
	for _, t := range tasks {
		deps := filtered[t.ID]
		if deps == nil {
			deps = make(map[int]bool)
			filtered[t.ID] = deps
		}
		seen := make(map[int]bool, len(t.Dependencies))
		for _, d := range t.Dependencies {
			if seen[d] {
				continue
			}
			seen[d] = true

			reason := dropReason(t.ID, d, ids)
			if reason != "" {
				report.Dropped = append(report.Dropped, DroppedEdge{Edge{t.ID, d}, reason})
				continue
			}
			deps[d] = true
		}
	}

	closed := transitiveClosure(filtered)

	for _, id := range uniqueIDs(tasks) {
		if !reachesCycle(id, closed) {
			continue
		}
		for _, d := range sortedKeys(closed[id]) {
			report.Dropped = append(report.Dropped, DroppedEdge{Edge{id, d}, DropCycle})
		}
		closed[id] = map[int]bool{}
	}

	for _, id := range uniqueIDs(tasks) {
		for _, d := range sortedKeys(closed[id]) {
			if !filtered[id][d] {
				report.Added = append(report.Added, Edge{id, d})
			}
		}
	}

	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Dependencies = sortedKeys(closed[t.ID])
		out[i] = t
	}
	return out, report
}

func dropReason(id, dep int, ids map[int]bool) DropReason {
	switch {
	case dep == id:
		return DropSelf
	case dep > id:
		return DropForward
	case !ids[dep]:
		return DropDangling
	}
	return ""
}

// transitiveClosure expands each node's dependency set with everything
// reachable from it. Edges only point at smaller IDs after filtering, so the
// recursion depth is bounded by the number of nodes. The in-progress guard
// keeps it total if that ever stops holding.
func transitiveClosure(graph map[int]map[int]bool) map[int]map[int]bool {
	closed := make(map[int]map[int]bool, len(graph))
	inProgress := make(map[int]bool)

	var visit func(id int) map[int]bool
	visit = func(id int) map[int]bool {
		if done, ok := closed[id]; ok {
			return done
		}
		if inProgress[id] {
			return nil
		}
		inProgress[id] = true

		reach := make(map[int]bool)
		for d := range graph[id] {
			reach[d] = true
			for dd := range visit(d) {
				if dd < id {
					reach[dd] = true
				}
			}
		}

		delete(inProgress, id)
		closed[id] = reach
		return reach
	}

	for _, id := range sortedKeys(graph) {
		visit(id)
	}
	return closed
}

// reachesCycle runs a depth-first search from start and reports whether any
// node on a path from start lies on a cycle.
func reachesCycle(start int, graph map[int]map[int]bool) bool {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[int]int)

	var dfs func(id int) bool
	dfs = func(id int) bool {
		switch state[id] {
		case visiting:
			return true
		case visited:
			return false
		}
		state[id] = visiting
		for _, d := range sortedKeys(graph[id]) {
			if dfs(d) {
				return true
			}
		}
		state[id] = visited
		return false
	}

	return dfs(start)
}

// uniqueIDs returns task IDs in input order, skipping repeats.
func uniqueIDs(tasks []Task) []int {
	seen := make(map[int]bool, len(tasks))
	ids := make([]int, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		ids = append(ids, t.ID)
	}
	return ids
}

// sortedKeys returns the keys of m in ascending order. The result is never nil.
func sortedKeys[V any](m map[int]V) []int {
	keys := slices.Collect(maps.Keys(m))
	if keys == nil {
		return []int{}
	}
	slices.Sort(keys)
	return keys
}
