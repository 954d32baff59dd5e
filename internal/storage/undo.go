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

// Snapshot is a full copy of both store partitions, taken immediately
// before a mutating operation.
type Snapshot struct {
	Pending   []*task.Task `json:"pending"`
	Completed []*task.Task `json:"completed"`
}

// PushUndo appends a whole-store snapshot to the durable undo log. When
// limit is positive, only the most recent limit entries are kept.
func (s *Store) PushUndo(pending, completed []*task.Task, limit int) error {
	entry, err := json.Marshal(Snapshot{Pending: pending, Completed: completed})
	if err != nil {
		return fmt.Errorf("failed to encode undo snapshot: %w", err)
	}

	if limit > 0 {
		entries, err := s.loadUndo()
		if err != nil {
			return err
		}
		if len(entries) >= limit {
			entries = append(entries[len(entries)-limit+1:], entry)
			return s.writeUndo(entries)
		}
	}

	path := filepath.Join(s.dir, UndoFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(append(entry, '\n')); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}

	return nil
}

// PopUndo removes and returns the most recent snapshot. The second
// return value is false when the log is empty; that is not an error.
func (s *Store) PopUndo() (*Snapshot, bool, error) {
	entries, err := s.loadUndo()
	if err != nil {
		return nil, false, err
	}
	if len(entries) == 0 {
		return nil, false, nil
	}

	last := entries[len(entries)-1]
	var snap Snapshot
	if err := json.Unmarshal(last, &snap); err != nil {
		path := filepath.Join(s.dir, UndoFile)
		return nil, false, &ParseError{File: path, Line: len(entries), Err: err}
	}

	if err := s.writeUndo(entries[:len(entries)-1]); err != nil {
		return nil, false, err
	}

	return &snap, true, nil
}

// UndoDepth returns the number of snapshots currently in the log.
func (s *Store) UndoDepth() (int, error) {
	entries, err := s.loadUndo()
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (s *Store) loadUndo() ([]json.RawMessage, error) {
	path := filepath.Join(s.dir, UndoFile)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var entries []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	for scanner.Scan() {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		entries = append(entries, append(json.RawMessage(nil), raw...))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return entries, nil
}

// writeUndo rewrites the undo log with the same atomic discipline as the
// partition files.
func (s *Store) writeUndo(entries []json.RawMessage) error {
	path := filepath.Join(s.dir, UndoFile)

	var buf bytes.Buffer
	for _, entry := range entries {
		buf.Write(entry)
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(s.dir, "."+UndoFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
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
