package task

import (
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Init(t.TempDir(), ProjectNew, fixedClock())
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

func mustAdd(t *testing.T, s *Store, title string, deps ...int) *Task {
	t.Helper()

	created, err := s.Add(title, AddOptions{Dependencies: deps})
	if err != nil {
		t.Fatalf("add %q: %v", title, err)
	}
	return created
}
