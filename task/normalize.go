package task

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseStatus normalizes user input into a Status.
// It accepts the legacy spellings "completed", "postponed" and "in_progress".
func ParseStatus(s string) (Status, error) {
	status := normalizeStatus(Status(s))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// ParsePriority normalizes user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q (valid: high, medium, low)", ErrInvalidPriority, s)
	}
	return p, nil
}

// ParseID parses a task ID argument. A leading '#' is allowed.
func ParseID(s string) (int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	id, err := strconv.Atoi(trimmed)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// ParseSubtaskRef parses "7.2" into a task ID and subtask ID.
// A bare "7" returns subtask 0.
func ParseSubtaskRef(s string) (taskID, subtaskID int, err error) {
	parent, child, ok := strings.Cut(strings.TrimSpace(s), ".")
	taskID, err = ParseID(parent)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return taskID, 0, nil
	}
	subtaskID, err = strconv.Atoi(child)
	if err != nil || subtaskID < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return taskID, subtaskID, nil
}

func normalizeStatus(status Status) Status {
	s := strings.ToLower(strings.TrimSpace(string(status)))
	switch s {
	case "completed", "complete":
		return StatusDone
	case "postponed":
		return StatusDeferred
	case "in_progress", "inprogress":
		return StatusInProgress
	case "canceled":
		return StatusCancelled
	}
	return Status(s)
}

func normalizePriority(priority Priority) Priority {
	p := Priority(strings.ToLower(strings.TrimSpace(string(priority))))
	if !p.IsValid() {
		return PriorityMedium
	}
	return p
}
