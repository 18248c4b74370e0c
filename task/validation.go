package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotInitialized is returned when the project has no task store yet.
	ErrNotInitialized = errors.New("task manager not initialized (run 'taskmanager init')")

	// ErrAlreadyInitialized is returned by Init when a store already exists.
	ErrAlreadyInitialized = errors.New("task manager already initialized")

	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned when an invalid priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidID is returned when a task ID is not a positive integer.
	ErrInvalidID = errors.New("invalid task ID")

	// ErrTaskNotFound is returned when a task with the given ID doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSubtaskNotFound is returned when a subtask with the given ID doesn't exist.
	ErrSubtaskNotFound = errors.New("subtask not found")

	// ErrSelfDependency is returned when trying to make a task depend on itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")

	// ErrForwardDependency is returned when a task would depend on a later task.
	ErrForwardDependency = errors.New("task can only depend on tasks with a smaller ID")

	// ErrDuplicateDependency is returned when the dependency already exists.
	ErrDuplicateDependency = errors.New("dependency already exists")

	// ErrDependencyNotFound is returned when removing a dependency that isn't declared.
	ErrDependencyNotFound = errors.New("dependency not found")

	// ErrImpliedDependency is returned when removing a dependency that is implied transitively.
	ErrImpliedDependency = errors.New("dependency is implied by another dependency")

	// ErrNoTaskAvailable is returned by Next when no task is ready to start.
	ErrNoTaskAvailable = errors.New("no task available")

	// ErrNoCurrentTask is returned by Current when nothing is in progress.
	ErrNoCurrentTask = errors.New("no task in progress")
)

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if n := utf8.RuneCountInString(title); n > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, n, MaxTitleLength)
	}
	return nil
}

// ValidateTask checks that a task's own fields are well formed.
// Dependency shape is enforced separately by ValidateDependencies.
func ValidateTask(t *Task) error {
	if t.ID < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidID, t.ID)
	}
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	for _, st := range t.Subtasks {
		if err := ValidateTitle(st.Title); err != nil {
			return fmt.Errorf("subtask %d.%d: %w", t.ID, st.ID, err)
		}
		if !st.Status.IsValid() {
			return fmt.Errorf("subtask %d.%d: %w: %q", t.ID, st.ID, ErrInvalidStatus, st.Status)
		}
	}
	return nil
}
