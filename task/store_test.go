package task

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpen_NotInitialized(t *testing.T) {
	_, err := Open(t.TempDir(), OpenOptions{})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
}

func TestOpen_DoesNotCreate(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir, OpenOptions{})
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected ErrNotInitialized, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, DirName)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no %s directory, got %v", DirName, err)
	}
}

func TestOpen_Initialized(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, ProjectExisting, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	s, err := Open(dir, OpenOptions{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	doc, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Metadata.ProjectType != ProjectExisting {
		t.Fatalf("expected project type %q, got %q", ProjectExisting, doc.Metadata.ProjectType)
	}
}

func TestOpen_FileInPlaceOfDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DirName), nil, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := Open(dir, OpenOptions{})
	if err == nil || errors.Is(err, ErrNotInitialized) {
		t.Fatalf("expected a not-a-directory error, got %v", err)
	}
}

func TestInit_AlreadyInitialized(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir, ProjectNew, nil); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := Init(dir, ProjectNew, nil); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s := newTestStore(t)

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Tasks == nil || len(doc.Tasks) != 0 {
		t.Fatalf("expected empty non-nil tasks, got %v", doc.Tasks)
	}
	if doc.Metadata.ProjectType != ProjectNew {
		t.Errorf("expected project type new, got %q", doc.Metadata.ProjectType)
	}
}

func TestLoad_MissingFileYieldsEmptyDocument(t *testing.T) {
	s := newTestStore(t)
	if err := os.Remove(filepath.Join(s.Dir(), TasksFile)); err != nil {
		t.Fatalf("remove: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(doc.Tasks))
	}
}

func TestLoad_NormalizesLegacyDocument(t *testing.T) {
	s := newTestStore(t)
	legacy := `{
  "tasks": [
    {"id": 1, "title": "one", "status": "completed", "priority": "HIGH"},
    {"id": 2, "title": "two", "status": "postponed", "dependencies": [1],
     "subtasks": [{"id": 1, "title": "sub", "status": "in_progress"}]}
  ],
  "metadata": {}
}`
	if err := os.WriteFile(filepath.Join(s.Dir(), TasksFile), []byte(legacy), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Tasks[0].Status != StatusDone {
		t.Errorf("expected done, got %q", doc.Tasks[0].Status)
	}
	if doc.Tasks[0].Priority != PriorityHigh {
		t.Errorf("expected high, got %q", doc.Tasks[0].Priority)
	}
	if doc.Tasks[0].Dependencies == nil {
		t.Errorf("expected non-nil dependencies")
	}
	if doc.Tasks[1].Status != StatusDeferred {
		t.Errorf("expected deferred, got %q", doc.Tasks[1].Status)
	}
	if doc.Tasks[1].Priority != PriorityMedium {
		t.Errorf("expected default medium priority, got %q", doc.Tasks[1].Priority)
	}
	if doc.Tasks[1].Subtasks[0].Status != StatusInProgress {
		t.Errorf("expected in-progress subtask, got %q", doc.Tasks[1].Subtasks[0].Status)
	}
	if doc.Metadata.ProjectType != ProjectUnknown {
		t.Errorf("expected unknown project type, got %q", doc.Metadata.ProjectType)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(filepath.Join(s.Dir(), TasksFile), []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load(); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestSave_RecountsMetadata(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "one")
	mustAdd(t, s, "two")
	high := PriorityHigh
	if _, err := s.Update(2, UpdateOptions{Priority: &high}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := s.AddSubtasks(1, []SubtaskInput{{Title: "a"}, {Title: "b"}}); err != nil {
		t.Fatalf("add subtasks: %v", err)
	}
	if _, err := s.SetStatus(1, StatusDone, StatusOptions{Cascade: true}); err != nil {
		t.Fatalf("set status: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(s.Dir(), TasksFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}

	m := doc.Metadata
	if m.TaskCount != 2 {
		t.Errorf("expected taskCount 2, got %d", m.TaskCount)
	}
	if m.CompletedCount != 3 {
		t.Errorf("expected completedCount 3 (task + 2 subtasks), got %d", m.CompletedCount)
	}
	if m.PendingCount != 1 {
		t.Errorf("expected pendingCount 1, got %d", m.PendingCount)
	}
	if m.HighPriorityCount != 1 || m.MediumPriorityCount != 1 {
		t.Errorf("expected 1 high and 1 medium, got %d and %d", m.HighPriorityCount, m.MediumPriorityCount)
	}
}

func TestSave_UsesCamelCaseKeys(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "one")

	data, err := os.ReadFile(filepath.Join(s.Dir(), TasksFile))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, key := range []string{`"testStrategy"`, `"createdAt"`, `"lastUpdated"`, `"inProgressCount"`, `"dependencies": []`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("expected %s in tasks.json", key)
		}
	}
}

func TestSave_NoTempFileLeftBehind(t *testing.T) {
	s := newTestStore(t)
	mustAdd(t, s, "one")

	if _, err := os.Stat(filepath.Join(s.Dir(), TasksFile+".tmp")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}
}
