package task

import "time"

// Task represents a single unit of planned work.
type Task struct {
	// ID is a positive integer assigned in creation order.
	ID int `json:"id"`

	// Title is the short summary of the task (max 500 chars).
	Title string `json:"title"`

	// Description provides additional context about the task.
	Description string `json:"description"`

	// Status is the current state of the task.
	Status Status `json:"status"`

	// Priority is the importance level.
	Priority Priority `json:"priority"`

	// Dependencies lists the IDs of tasks that must be finished first.
	// Every entry is smaller than ID. Never nil once loaded or validated.
	Dependencies []int `json:"dependencies"`

	// Details holds implementation notes.
	Details string `json:"details"`

	// TestStrategy describes how the task will be verified.
	TestStrategy string `json:"testStrategy"`

	// Category groups tasks (setup, frontend, backend, ...).
	Category string `json:"category"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the task was last modified.
	UpdatedAt time.Time `json:"updatedAt"`

	// Subtasks break the task into smaller steps.
	Subtasks []Subtask `json:"subtasks"`
}

// Subtask is a step of a parent task. IDs are local to the parent.
type Subtask struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Metadata summarizes the stored tasks. Counters are recomputed on save.
type Metadata struct {
	ProjectType         ProjectType `json:"projectType"`
	CreatedAt           time.Time   `json:"createdAt"`
	LastUpdated         time.Time   `json:"lastUpdated"`
	TaskCount           int         `json:"taskCount"`
	CompletedCount      int         `json:"completedCount"`
	PendingCount        int         `json:"pendingCount"`
	InProgressCount     int         `json:"inProgressCount"`
	DeferredCount       int         `json:"deferredCount"`
	CancelledCount      int         `json:"cancelledCount"`
	HighPriorityCount   int         `json:"highPriorityCount"`
	MediumPriorityCount int         `json:"mediumPriorityCount"`
	LowPriorityCount    int         `json:"lowPriorityCount"`

	// LastBatchID identifies the most recent generated batch.
	LastBatchID string `json:"lastBatchId,omitempty"`
}

// Document is the persisted form of tasks.json.
type Document struct {
	Tasks    []Task   `json:"tasks"`
	Metadata Metadata `json:"metadata"`
}

// NewDocument returns an empty document stamped with the given time.
func NewDocument(projectType ProjectType, now time.Time) *Document {
	if projectType == "" {
		projectType = ProjectUnknown
	}
	return &Document{
		Tasks: []Task{},
		Metadata: Metadata{
			ProjectType: projectType,
			CreatedAt:   now,
			LastUpdated: now,
		},
	}
}

// DepTreeNode represents a node in a dependency tree.
type DepTreeNode struct {
	// Task is the task at this node.
	Task *Task

	// Children are the tasks that this task depends on.
	Children []*DepTreeNode
}

// normalizeTask fills nil slices so the JSON shape is stable.
func normalizeTask(t *Task) {
	if t.Dependencies == nil {
		t.Dependencies = []int{}
	}
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
}
