// Package hooks discovers and runs user-supplied executable scripts at
// task lifecycle events, exchanging task state as line-delimited JSON on
// the scripts' standard streams.
package hooks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yarlson/taskline/internal/task"
)

// HooksDir is the subdirectory of the data directory holding hook scripts.
const HooksDir = "hooks"

// Lifecycle event names. Scripts are selected by filename prefix:
// on-add.* runs at add time, and so on.
const (
	EventLaunch = "on-launch"
	EventAdd    = "on-add"
	EventModify = "on-modify"
)

// ProtocolError reports a script that emitted the wrong number of output
// lines.
type ProtocolError struct {
	Script string
	Want   int
	Got    int
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("hook %s emitted %d output lines, expected %d", e.Script, e.Got, e.Want)
}

// Runner executes hook scripts for lifecycle events. A disabled runner
// passes every task through unchanged.
type Runner struct {
	dir     string
	enabled bool
	stderr  io.Writer
}

// NewRunner creates a hook runner for the given data directory. Script
// diagnostics are written to stderr; nil discards them.
func NewRunner(dataDir string, enabled bool, stderr io.Writer) *Runner {
	if stderr == nil {
		stderr = io.Discard
	}
	return &Runner{
		dir:     filepath.Join(dataDir, HooksDir),
		enabled: enabled,
		stderr:  stderr,
	}
}

// scripts returns the executable regular files for an event, in
// lexicographic filename order. The order is load-bearing: each hook
// receives the previous hook's output.
func (r *Runner) scripts(event string) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks directory %s: %w", r.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if name != event && !strings.HasPrefix(name, event+".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat hook %s: %w", name, err)
		}
		if !info.Mode().IsRegular() || info.Mode().Perm()&0111 == 0 {
			continue
		}

		paths = append(paths, filepath.Join(r.dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

// OnLaunch runs every on-launch hook with no input. A non-zero exit is
// fatal; stderr output is surfaced as a warning.
func (r *Runner) OnLaunch() error {
	if !r.enabled {
		return nil
	}

	scripts, err := r.scripts(EventLaunch)
	if err != nil {
		return err
	}

	for _, script := range scripts {
		cmd := exec.Command(script)
		var stderrBuf bytes.Buffer
		cmd.Stderr = &stderrBuf

		err := cmd.Run()
		r.surfaceStderr(script, &stderrBuf)
		if err != nil {
			return fmt.Errorf("hook %s failed: %w", filepath.Base(script), err)
		}
	}

	return nil
}

// OnAdd folds the task through every on-add hook. The working ID is
// stripped before the pipeline since identifiers are store-assigned, and
// reinstated afterwards unless a hook supplied one.
func (r *Runner) OnAdd(t *task.Task) (*task.Task, error) {
	if !r.enabled {
		return t, nil
	}

	scripts, err := r.scripts(EventAdd)
	if err != nil {
		return nil, err
	}
	if len(scripts) == 0 {
		return t, nil
	}

	id := t.ID
	current := t.Clone()
	current.ID = 0

	for _, script := range scripts {
		current, err = r.runTransform(script, current)
		if err != nil {
			return nil, err
		}
	}

	if current.ID == 0 {
		current.ID = id
	}
	return current, nil
}

// OnModify folds the new task state through every on-modify hook. Each
// hook reads two JSON lines (old state, then new state) and emits the
// transformed new state.
func (r *Runner) OnModify(old, updated *task.Task) (*task.Task, error) {
	if !r.enabled {
		return updated, nil
	}

	scripts, err := r.scripts(EventModify)
	if err != nil {
		return nil, err
	}
	if len(scripts) == 0 {
		return updated, nil
	}

	id := updated.ID
	oldState := old.Clone()
	oldState.ID = 0
	current := updated.Clone()
	current.ID = 0

	for _, script := range scripts {
		current, err = r.runTransform(script, current, oldState)
		if err != nil {
			return nil, err
		}
	}

	if current.ID == 0 {
		current.ID = id
	}
	return current, nil
}

// runTransform executes one hook script, feeding it the given task states
// as JSON lines (any prefix states first, then the current state) and
// parsing back exactly one JSON line.
func (r *Runner) runTransform(script string, current *task.Task, prefix ...*task.Task) (*task.Task, error) {
	var input bytes.Buffer
	for _, t := range append(prefix, current) {
		line, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("failed to encode task for hook %s: %w", filepath.Base(script), err)
		}
		input.Write(line)
		input.WriteByte('\n')
	}

	cmd := exec.Command(script)
	cmd.Stdin = &input

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	r.surfaceStderr(script, &stderrBuf)
	if err != nil {
		return nil, fmt.Errorf("hook %s failed: %w", filepath.Base(script), err)
	}

	lines := nonEmptyLines(stdoutBuf.String())
	if len(lines) != 1 {
		return nil, &ProtocolError{Script: filepath.Base(script), Want: 1, Got: len(lines)}
	}

	var out task.Task
	if err := json.Unmarshal([]byte(lines[0]), &out); err != nil {
		return nil, fmt.Errorf("hook %s emitted invalid JSON: %w", filepath.Base(script), err)
	}

	return &out, nil
}

func (r *Runner) surfaceStderr(script string, buf *bytes.Buffer) {
	text := strings.TrimSpace(buf.String())
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(r.stderr, "hook %s: %s\n", filepath.Base(script), line)
	}
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
