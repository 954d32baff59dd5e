package engine

import (
	"io"

	"github.com/yarlson/taskline/internal/report"
	"github.com/yarlson/taskline/internal/task"
)

// RunReport renders a named report. The definition's embedded filter
// terms merge ahead of the caller's own terms, and the combined filter
// decides which partitions load.
func (e *Engine) RunReport(w io.Writer, def report.Definition, filterTokens []string) error {
	now := e.now()

	tokens := append(append([]string(nil), def.Filter...), filterTokens...)
	f, err := e.parseFilter(tokens, now)
	if err != nil {
		return err
	}

	ws, err := e.load(f)
	if err != nil {
		return err
	}

	var matched []*task.Task
	for _, t := range append(ws.pending, ws.completed...) {
		if f.Matches(t, now) {
			matched = append(matched, t)
		}
	}

	return e.Render(w, def, matched)
}

// Render writes tasks through the report engine in the project timezone.
func (e *Engine) Render(w io.Writer, def report.Definition, tasks []*task.Task) error {
	return report.Render(w, def, tasks, e.parser.Location(), e.now())
}
