// Package task implements the project task tracker.
//
// Tasks are stored as a single JSON document in .taskmanager/tasks.json
// inside the project directory. Task IDs are positive integers assigned in
// creation order, and every dependency must point at a task with a smaller
// ID. ValidateDependencies enforces that invariant on every batch before it
// is persisted.
//
// The public API mirrors the CLI commands:
//   - Add, AddBatch, Update, Remove, SetStatus for task lifecycle
//   - Get, List, Next, Current for querying
//   - AddSubtask, AddSubtasks for expansion
//   - DepAdd, DepRemove, DepTree, Repair for dependency management
package task

// Status represents the state of a task or subtask.
type Status string

const (
	// StatusPending indicates the task has not been started.
	StatusPending Status = "pending"

	// StatusInProgress indicates the task is currently being worked on.
	StatusInProgress Status = "in-progress"

	// StatusDone indicates the task has been completed.
	StatusDone Status = "done"

	// StatusDeferred indicates the task was postponed.
	StatusDeferred Status = "deferred"

	// StatusCancelled indicates the task will not be done.
	StatusCancelled Status = "cancelled"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone, StatusDeferred, StatusCancelled}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// IsActive returns true for statuses that can be picked up as the next task.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusInProgress
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium" // default
	PriorityLow    Priority = "low"
)

// ValidPriorities returns all valid priority values, most important first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Rank returns the sort rank for a priority (0 = most important).
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// DefaultCategory is assigned to tasks created without a category.
const DefaultCategory = "feature"

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500

// ProjectType describes whether tasks are planned for a new or existing codebase.
type ProjectType string

const (
	ProjectNew      ProjectType = "new"
	ProjectExisting ProjectType = "existing"
	ProjectUnknown  ProjectType = "unknown"
)
