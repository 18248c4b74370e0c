package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

const (
	// DirName is the per-project directory holding task data.
	DirName = ".taskmanager"

	// TasksFile is the name of the JSON document containing tasks.
	TasksFile = "tasks.json"

	lockFile = "tasks.lock"
)

// Store provides access to the task document of one project.
// Every read and write holds an exclusive lock so concurrent CLI
// invocations don't interleave.
type Store struct {
	projectDir string
	dir        string
	now        func() time.Time
}

// OpenOptions configures how the store is opened.
type OpenOptions struct {
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// Open opens the task store for the project at projectDir.
// It returns ErrNotInitialized if the project has no .taskmanager directory;
// stores are only created by Init.
func Open(projectDir string, opts OpenOptions) (*Store, error) {
	s := newStore(projectDir, opts.Now)

	info, err := os.Stat(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", s.dir)
	}
	return s, nil
}

// Init creates a new store in projectDir.
// It returns ErrAlreadyInitialized if one already exists.
func Init(projectDir string, projectType ProjectType, now func() time.Time) (*Store, error) {
	s := newStore(projectDir, now)
	if _, err := os.Stat(filepath.Join(s.dir, TasksFile)); err == nil {
		return nil, ErrAlreadyInitialized
	}
	if err := s.create(projectType); err != nil {
		return nil, err
	}
	return s, nil
}

func newStore(projectDir string, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		projectDir: projectDir,
		dir:        filepath.Join(projectDir, DirName),
		now:        now,
	}
}

func (s *Store) create(projectType ProjectType) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	return s.withLock(func() error {
		return writeDocument(s.path(), NewDocument(projectType, s.now()))
	})
}

// Dir returns the .taskmanager directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// ProjectDir returns the project directory the store belongs to.
func (s *Store) ProjectDir() string {
	return s.projectDir
}

func (s *Store) path() string {
	return filepath.Join(s.dir, TasksFile)
}

// withLock executes fn while holding an exclusive lock on the store.
func (s *Store) withLock(fn func() error) error {
	return withFileLock(filepath.Join(s.dir, lockFile), fn)
}

// withFileLock executes fn while holding an exclusive lock on the file at path.
// Creates the file if it doesn't exist.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open file for locking: %w", err)
	}
	defer f.Close()

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer syscall.Flock(int(f.Fd()), syscall.LOCK_UN)

	return fn()
}

// Load reads the task document. A missing file yields an empty document.
func (s *Store) Load() (*Document, error) {
	var doc *Document
	err := s.withLock(func() error {
		var err error
		doc, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Store) read() (*Document, error) {
	doc, err := readDocument(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return NewDocument(ProjectUnknown, s.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tasks: %w", err)
	}
	return doc, nil
}

// errUnchanged lets an update callback skip the write.
var errUnchanged = errors.New("unchanged")

// update loads the document, applies fn, and saves the result if fn
// succeeds. All of it happens under one lock.
func (s *Store) update(fn func(doc *Document) error) error {
	return s.withLock(func() error {
		doc, err := s.read()
		if err != nil {
			return err
		}
		if err := fn(doc); errors.Is(err, errUnchanged) {
			return nil
		} else if err != nil {
			return err
		}
		doc.Metadata.LastUpdated = s.now()
		if err := writeDocument(s.path(), doc); err != nil {
			return fmt.Errorf("write tasks: %w", err)
		}
		return nil
	})
}

func readDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}

	if doc.Tasks == nil {
		doc.Tasks = []Task{}
	}
	if doc.Metadata.ProjectType == "" {
		doc.Metadata.ProjectType = ProjectUnknown
	}
	for i := range doc.Tasks {
		t := &doc.Tasks[i]
		normalizeTask(t)
		t.Status = normalizeStatus(t.Status)
		if !t.Status.IsValid() {
			t.Status = StatusPending
		}
		t.Priority = normalizePriority(t.Priority)
		for j := range t.Subtasks {
			st := &t.Subtasks[j]
			st.Status = normalizeStatus(st.Status)
			if !st.Status.IsValid() {
				st.Status = StatusPending
			}
		}
	}
	return &doc, nil
}

// writeDocument recounts metadata and writes doc to path atomically.
// Identical content is left untouched.
func writeDocument(path string, doc *Document) error {
	for i := range doc.Tasks {
		normalizeTask(&doc.Tasks[i])
	}
	recount(&doc.Metadata, doc.Tasks)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(path); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
