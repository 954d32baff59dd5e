// Package storage owns the on-disk task record files: the pending and
// completed partitions plus the undo log. Records are one JSON object
// per line; every save replaces the whole file atomically.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yarlson/taskline/internal/task"
)

// Store file names inside the data directory.
const (
	PendingFile   = "pending.data"
	CompletedFile = "completed.data"
	UndoFile      = "undo.data"
)

// ParseError reports a malformed record in a store file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed record in %s line %d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// renameFile is swapped in tests to simulate a crash before the atomic
// replace.
var renameFile = os.Rename

// Store persists tasks in a data directory.
type Store struct {
	dir string

	// idFloor is the highest working ID handed out this session, so an
	// ID freed by completion is not reassigned within the same pending
	// generation.
	idFloor int
}

// NewStore opens a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's data directory.
func (s *Store) Dir() string {
	return s.dir
}

// LoadPending reads the pending partition in file order.
func (s *Store) LoadPending() ([]*task.Task, error) {
	return s.loadFile(PendingFile)
}

// LoadCompleted reads the completed partition in file order.
func (s *Store) LoadCompleted() ([]*task.Task, error) {
	return s.loadFile(CompletedFile)
}

// SavePending atomically replaces the pending partition.
func (s *Store) SavePending(tasks []*task.Task) error {
	return s.saveFile(PendingFile, tasks)
}

// SaveCompleted atomically replaces the completed partition.
func (s *Store) SaveCompleted(tasks []*task.Task) error {
	return s.saveFile(CompletedFile, tasks)
}

// NextID returns the next working identifier: one past the highest ID in
// the pending set, never below an ID already handed out this session.
func (s *Store) NextID(pending []*task.Task) int {
	next := 1
	for _, t := range pending {
		if t.ID >= next {
			next = t.ID + 1
		}
	}
	if next <= s.idFloor {
		next = s.idFloor + 1
	}
	s.idFloor = next
	return next
}

func (s *Store) loadFile(name string) ([]*task.Task, error) {
	path := filepath.Join(s.dir, name)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var tasks []*task.Task
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var t task.Task
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, &ParseError{File: path, Line: line, Err: err}
		}
		tasks = append(tasks, &t)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return tasks, nil
}

// saveFile writes tasks to a fresh temporary file in the store directory,
// flushes it and atomically renames it over the target. A crash mid-write
// never leaves a truncated file visible to readers.
func (s *Store) saveFile(name string, tasks []*task.Task) error {
	path := filepath.Join(s.dir, name)

	lines, err := encodeLines(tasks)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(lines); err != nil {
		cleanup()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to flush %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}

	if err := renameFile(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

func encodeLines(tasks []*task.Task) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range tasks {
		data, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to encode task %s: %w", t.UUID, err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
