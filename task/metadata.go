package task

// recount refreshes the counters in m from tasks.
// Tasks are counted by status and priority, subtasks by status only.
func recount(m *Metadata, tasks []Task) {
	m.TaskCount = len(tasks)
	m.CompletedCount = 0
	m.PendingCount = 0
	m.InProgressCount = 0
	m.DeferredCount = 0
	m.CancelledCount = 0
	m.HighPriorityCount = 0
	m.MediumPriorityCount = 0
	m.LowPriorityCount = 0

	countStatus := func(s Status) {
		switch s {
		case StatusDone:
			m.CompletedCount++
		case StatusPending:
			m.PendingCount++
		case StatusInProgress:
			m.InProgressCount++
		case StatusDeferred:
			m.DeferredCount++
		case StatusCancelled:
			m.CancelledCount++
		}
	}

	for _, t := range tasks {
		countStatus(t.Status)
		switch t.Priority {
		case PriorityHigh:
			m.HighPriorityCount++
		case PriorityMedium:
			m.MediumPriorityCount++
		case PriorityLow:
			m.LowPriorityCount++
		}
		for _, st := range t.Subtasks {
			countStatus(st.Status)
		}
	}
}

// Progress returns how many of tasks are done, ignoring subtasks.
func Progress(tasks []Task) (done, total int) {
	for _, t := range tasks {
		if t.Status == StatusDone {
			done++
		}
	}
	return done, len(tasks)
}
