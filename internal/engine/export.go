package engine

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/yarlson/taskline/internal/task"
)

// Export writes every task matching the filter as JSON: a single array
// by default, one object per line when ndjson is set. Wait state never
// hides a task from export.
func (e *Engine) Export(w io.Writer, filterTokens []string, ndjson bool) error {
	now := e.now()

	f, err := e.parseFilter(filterTokens, now)
	if err != nil {
		return err
	}

	ws, err := e.loadAll()
	if err != nil {
		return err
	}

	var matched []*task.Task
	for _, t := range append(ws.pending, ws.completed...) {
		if f.MatchesAll(t, now) {
			matched = append(matched, t)
		}
	}

	if ndjson {
		for _, t := range matched {
			line, err := json.Marshal(t)
			if err != nil {
				return fmt.Errorf("failed to encode task %s: %w", t.UUID, err)
			}
			if _, err := fmt.Fprintf(w, "%s\n", line); err != nil {
				return err
			}
		}
		return nil
	}

	if matched == nil {
		matched = []*task.Task{}
	}
	data, err := json.MarshalIndent(matched, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// Import reads tasks from r and merges them into the store. The input
// may be a JSON array, a single JSON object, or one JSON object per
// line; unknown fields are preserved. Tasks with a known UUID replace
// the stored copy, others are created.
func (e *Engine) Import(r io.Reader) (int, error) {
	now := e.now()

	incoming, err := decodeImport(r)
	if err != nil {
		return 0, err
	}
	if len(incoming) == 0 {
		fmt.Fprintln(e.out, "Imported 0 tasks.")
		return 0, nil
	}

	ws, err := e.loadAll()
	if err != nil {
		return 0, err
	}

	pendingByUUID := indexByUUID(ws.pending)
	completedByUUID := indexByUUID(ws.completed)

	pending := append([]*task.Task(nil), ws.pending...)
	completed := append([]*task.Task(nil), ws.completed...)

	for _, t := range incoming {
		if t.UUID == "" {
			t.UUID = uuid.NewString()
		}
		if t.Status == "" {
			t.Status = task.StatusPending
		}
		if t.Entry.IsZero() {
			t.Entry = now
		}
		if t.Modified.IsZero() {
			t.Modified = now
		}

		if err := t.Validate(); err != nil {
			return 0, fmt.Errorf("invalid imported task: %w", err)
		}

		// Drop any previous copy from both partitions; status on the
		// incoming record decides where it lands now.
		if i, ok := pendingByUUID[t.UUID]; ok {
			pending[i] = nil
		}
		if i, ok := completedByUUID[t.UUID]; ok {
			completed[i] = nil
		}

		if t.Status.Closed() {
			t.ID = 0
			completed = append(completed, t)
			continue
		}
		if t.ID == 0 {
			t.ID = e.store.NextID(compact(pending))
		}
		pending = append(pending, t)
	}

	pending = compact(pending)
	completed = compact(completed)

	if err := e.snapshot(ws.pending, ws.completed); err != nil {
		return 0, err
	}
	if err := e.store.SavePending(pending); err != nil {
		return 0, err
	}
	if err := e.store.SaveCompleted(completed); err != nil {
		return 0, err
	}

	fmt.Fprintf(e.out, "Imported %d %s.\n", len(incoming), plural(len(incoming)))
	return len(incoming), nil
}

// decodeImport accepts a JSON array, a single object, or one object per
// line.
func decodeImport(r io.Reader) ([]*task.Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read import input: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var tasks []*task.Task
		if err := json.Unmarshal(trimmed, &tasks); err != nil {
			return nil, fmt.Errorf("failed to parse import array: %w", err)
		}
		return tasks, nil
	}

	var tasks []*task.Task
	scanner := bufio.NewScanner(bytes.NewReader(trimmed))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}

		var t task.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("failed to parse import line %d: %w", line, err)
		}
		tasks = append(tasks, &t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import input: %w", err)
	}

	return tasks, nil
}

func indexByUUID(tasks []*task.Task) map[string]int {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		index[t.UUID] = i
	}
	return index
}

func compact(tasks []*task.Task) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
