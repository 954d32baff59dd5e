// Package engine implements the primitive task operations on top of the
// store, the filter engine and the hook runner.
package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/yarlson/taskline/internal/dates"
	"github.com/yarlson/taskline/internal/filter"
	"github.com/yarlson/taskline/internal/hooks"
	"github.com/yarlson/taskline/internal/storage"
	"github.com/yarlson/taskline/internal/task"
)

// Deps holds the collaborators an Engine needs.
type Deps struct {
	Store  *storage.Store
	Hooks  *hooks.Runner
	Parser *dates.Parser

	// UndoLimit bounds the undo log; 0 keeps every snapshot.
	UndoLimit int

	// Out receives result lines.
	Out io.Writer
}

// Engine orchestrates filter resolution, typed mutation, hooks and
// persistence for every primitive operation.
type Engine struct {
	store     *storage.Store
	hooks     *hooks.Runner
	parser    *dates.Parser
	undoLimit int
	out       io.Writer

	// now is the operation clock, replaceable in tests.
	now func() time.Time
}

// New creates an Engine from its dependencies.
func New(deps Deps) *Engine {
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	return &Engine{
		store:     deps.Store,
		hooks:     deps.Hooks,
		parser:    deps.Parser,
		undoLimit: deps.UndoLimit,
		out:       out,
		now:       time.Now,
	}
}

// SetClock overrides the operation clock.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Launch runs the on-launch hooks. Call once per invocation before any
// operation.
func (e *Engine) Launch() error {
	return e.hooks.OnLaunch()
}

// workingSet is the loaded store state an operation works on. Mutations
// happen on these in-memory copies; the store persists them afterwards.
type workingSet struct {
	pending   []*task.Task
	completed []*task.Task

	// widened is true when the completed partition is part of the
	// working set, because the filter named a status or identity.
	widened bool
}

// load reads the partitions the filter needs: pending always, completed
// only when the filter carries an explicit status or identity selector.
func (e *Engine) load(f *filter.Filter) (*workingSet, error) {
	pending, err := e.store.LoadPending()
	if err != nil {
		return nil, err
	}

	ws := &workingSet{pending: pending}
	if f != nil && (f.HasStatusPredicate() || f.HasIdentitySelector()) {
		ws.widened = true
		if ws.completed, err = e.store.LoadCompleted(); err != nil {
			return nil, err
		}
	}

	return ws, nil
}

// loadAll reads both partitions unconditionally.
func (e *Engine) loadAll() (*workingSet, error) {
	pending, err := e.store.LoadPending()
	if err != nil {
		return nil, err
	}
	completed, err := e.store.LoadCompleted()
	if err != nil {
		return nil, err
	}
	return &workingSet{pending: pending, completed: completed, widened: true}, nil
}

// match selects the working-set tasks satisfying the filter. The default
// matcher applies unless the filter widened the set, in which case the
// explicit selectors take over and wait state no longer hides tasks.
func (ws *workingSet) match(f *filter.Filter, now time.Time) []*task.Task {
	matches := func(t *task.Task) bool {
		if ws.widened {
			return f.MatchesAll(t, now)
		}
		return f.Matches(t, now)
	}

	var out []*task.Task
	for _, t := range ws.pending {
		if matches(t) {
			out = append(out, t)
		}
	}
	for _, t := range ws.completed {
		if matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// snapshot pushes the pre-operation store state onto the undo log. Call
// with the state as loaded, before any save.
func (e *Engine) snapshot(pending, completed []*task.Task) error {
	if completed == nil {
		loaded, err := e.store.LoadCompleted()
		if err != nil {
			return err
		}
		completed = loaded
	}
	return e.store.PushUndo(pending, completed, e.undoLimit)
}

// parseFilter parses query tokens against the operation clock.
func (e *Engine) parseFilter(tokens []string, now time.Time) (*filter.Filter, error) {
	f, err := filter.Parse(tokens, e.parser, now)
	if err != nil {
		return nil, fmt.Errorf("failed to parse filter: %w", err)
	}
	return f, nil
}

func plural(n int) string {
	if n == 1 {
		return "task"
	}
	return "tasks"
}
