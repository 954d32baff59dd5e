package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yarlson/taskline/internal/task"
)

// Add creates a pending task from argument tokens: field tokens become a
// Modification, the remaining words the description.
func (e *Engine) Add(args []string) (*task.Task, error) {
	now := e.now()

	mod, err := ParseModification(args)
	if err != nil {
		return nil, err
	}
	if mod.Description == "" {
		return nil, fmt.Errorf("cannot add a task without a description")
	}

	t := task.New(mod.Description, now)
	mod.Description = ""
	if err := e.apply(t, mod, now); err != nil {
		return nil, err
	}

	ws, err := e.loadAll()
	if err != nil {
		return nil, err
	}

	t.ID = e.store.NextID(ws.pending)

	final, err := e.hooks.OnAdd(t)
	if err != nil {
		return nil, err
	}
	if err := final.Validate(); err != nil {
		return nil, fmt.Errorf("hook produced an invalid task: %w", err)
	}

	if err := e.snapshot(ws.pending, ws.completed); err != nil {
		return nil, err
	}
	if err := e.store.SavePending(append(ws.pending, final)); err != nil {
		return nil, err
	}

	fmt.Fprintf(e.out, "Created task %d.\n", final.ID)
	return final, nil
}

// Modify applies a typed modification to every task matching the filter.
func (e *Engine) Modify(filterTokens, modTokens []string) (int, error) {
	mod, err := ParseModification(modTokens)
	if err != nil {
		return 0, err
	}
	if mod.Empty() {
		return 0, fmt.Errorf("no modification specified")
	}

	return e.mutate(filterTokens, "Modified", func(old, updated *task.Task) error {
		return e.apply(updated, mod, e.now())
	})
}

// Done moves every matching task to the completed partition.
func (e *Engine) Done(filterTokens []string) (int, error) {
	return e.mutate(filterTokens, "Completed", func(old, updated *task.Task) error {
		if updated.Status.Closed() {
			return fmt.Errorf("task %s is already %s", updated.UUID, updated.Status)
		}
		updated.Close(task.StatusCompleted, e.now())
		return nil
	})
}

// Delete marks every matching task deleted.
func (e *Engine) Delete(filterTokens []string) (int, error) {
	return e.mutate(filterTokens, "Deleted", func(old, updated *task.Task) error {
		if updated.Status.Closed() {
			return fmt.Errorf("task %s is already %s", updated.UUID, updated.Status)
		}
		updated.Close(task.StatusDeleted, e.now())
		return nil
	})
}

// Start marks matching tasks active.
func (e *Engine) Start(filterTokens []string) (int, error) {
	return e.mutate(filterTokens, "Started", func(old, updated *task.Task) error {
		now := e.now()
		updated.Start = &now
		updated.Modified = now
		return nil
	})
}

// Stop clears the active marker on matching tasks.
func (e *Engine) Stop(filterTokens []string) (int, error) {
	return e.mutate(filterTokens, "Stopped", func(old, updated *task.Task) error {
		updated.Start = nil
		updated.Modified = e.now()
		return nil
	})
}

// Append adds text to the end of matching descriptions.
func (e *Engine) Append(filterTokens []string, text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("no text to append")
	}
	return e.mutate(filterTokens, "Appended to", func(old, updated *task.Task) error {
		updated.Description = updated.Description + " " + text
		updated.Modified = e.now()
		return nil
	})
}

// Prepend adds text to the front of matching descriptions.
func (e *Engine) Prepend(filterTokens []string, text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("no text to prepend")
	}
	return e.mutate(filterTokens, "Prepended to", func(old, updated *task.Task) error {
		updated.Description = text + " " + updated.Description
		updated.Modified = e.now()
		return nil
	})
}

// Annotate appends a timestamped note to matching tasks.
func (e *Engine) Annotate(filterTokens []string, text string) (int, error) {
	if text == "" {
		return 0, fmt.Errorf("no annotation text")
	}
	return e.mutate(filterTokens, "Annotated", func(old, updated *task.Task) error {
		now := e.now()
		updated.Annotations = append(updated.Annotations, task.Annotation{
			Entry:       now,
			Description: text,
		})
		updated.Modified = now
		return nil
	})
}

// Denotate removes one annotation from each matching task: by 1-based
// index when the pattern is a number, otherwise the first annotation
// containing the pattern.
func (e *Engine) Denotate(filterTokens []string, pattern string) (int, error) {
	if pattern == "" {
		return 0, fmt.Errorf("no annotation pattern")
	}
	return e.mutate(filterTokens, "Denotated", func(old, updated *task.Task) error {
		index := -1
		if n, err := strconv.Atoi(pattern); err == nil {
			if n < 1 || n > len(updated.Annotations) {
				return fmt.Errorf("task %s has no annotation %d", updated.UUID, n)
			}
			index = n - 1
		} else {
			for i, a := range updated.Annotations {
				if strings.Contains(a.Description, pattern) {
					index = i
					break
				}
			}
			if index == -1 {
				return fmt.Errorf("task %s has no annotation matching %q", updated.UUID, pattern)
			}
		}
		updated.Annotations = append(updated.Annotations[:index], updated.Annotations[index+1:]...)
		updated.Modified = e.now()
		return nil
	})
}

// Duplicate creates fresh pending copies of every matching task.
func (e *Engine) Duplicate(filterTokens []string) (int, error) {
	now := e.now()

	f, err := e.parseFilter(filterTokens, now)
	if err != nil {
		return 0, err
	}

	ws, err := e.load(f)
	if err != nil {
		return 0, err
	}

	matched := ws.match(f, now)
	if len(matched) == 0 {
		fmt.Fprintf(e.out, "Duplicated 0 tasks.\n")
		return 0, nil
	}

	pending := ws.pending
	var created []*task.Task
	for _, t := range matched {
		dup := t.Clone()
		dup.UUID = uuid.NewString()
		dup.Status = task.StatusPending
		dup.Entry = now
		dup.Modified = now
		dup.End = nil
		dup.Start = nil
		dup.ID = e.store.NextID(append(pending, created...))

		final, err := e.hooks.OnAdd(dup)
		if err != nil {
			return 0, err
		}
		created = append(created, final)
	}

	if err := e.snapshot(ws.pending, ws.completed); err != nil {
		return 0, err
	}
	if err := e.store.SavePending(append(pending, created...)); err != nil {
		return 0, err
	}

	fmt.Fprintf(e.out, "Duplicated %d %s.\n", len(created), plural(len(created)))
	return len(created), nil
}

// Undo restores the most recent snapshot. An empty undo log reports
// "nothing to undo" and succeeds.
func (e *Engine) Undo() error {
	snap, ok, err := e.store.PopUndo()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(e.out, "Nothing to undo.")
		return nil
	}

	if err := e.store.SavePending(snap.Pending); err != nil {
		return err
	}
	if err := e.store.SaveCompleted(snap.Completed); err != nil {
		return err
	}

	fmt.Fprintln(e.out, "Undo complete.")
	return nil
}

// mutate is the shared mutation pipeline: resolve the filter, transform
// clones of the matched tasks, run the modify hooks, push an undo
// snapshot and persist. Any failure abandons the operation before the
// first file write.
func (e *Engine) mutate(filterTokens []string, verb string, fn func(old, updated *task.Task) error) (int, error) {
	now := e.now()

	f, err := e.parseFilter(filterTokens, now)
	if err != nil {
		return 0, err
	}

	ws, err := e.load(f)
	if err != nil {
		return 0, err
	}

	matched := ws.match(f, now)
	if len(matched) == 0 {
		fmt.Fprintf(e.out, "%s 0 tasks.\n", verb)
		return 0, nil
	}

	replacements := make(map[*task.Task]*task.Task, len(matched))
	for _, t := range matched {
		updated := t.Clone()
		if err := fn(t, updated); err != nil {
			return 0, err
		}

		final, err := e.hooks.OnModify(t, updated)
		if err != nil {
			return 0, err
		}
		replacements[t] = final
	}

	if err := e.snapshot(ws.pending, ws.completed); err != nil {
		return 0, err
	}

	var pending, moved []*task.Task
	for _, t := range ws.pending {
		final, ok := replacements[t]
		if !ok {
			pending = append(pending, t)
			continue
		}
		if final.Status.Closed() {
			moved = append(moved, final)
			continue
		}
		pending = append(pending, final)
	}

	completed := ws.completed
	if ws.widened {
		completed = nil
		for _, t := range ws.completed {
			if final, ok := replacements[t]; ok {
				completed = append(completed, final)
				continue
			}
			completed = append(completed, t)
		}
	}

	if len(moved) > 0 {
		if !ws.widened {
			if completed, err = e.store.LoadCompleted(); err != nil {
				return 0, err
			}
		}
		completed = append(completed, moved...)
	}

	if err := e.store.SavePending(pending); err != nil {
		return 0, err
	}
	if ws.widened || len(moved) > 0 {
		if err := e.store.SaveCompleted(completed); err != nil {
			return 0, err
		}
	}

	fmt.Fprintf(e.out, "%s %d %s.\n", verb, len(matched), plural(len(matched)))
	return len(matched), nil
}
