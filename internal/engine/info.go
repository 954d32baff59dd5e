package engine

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yarlson/taskline/internal/report"
	"github.com/yarlson/taskline/internal/task"
)

// Info writes a field-by-field detail view of every matching task.
// Like export, wait state never hides a task here.
func (e *Engine) Info(w io.Writer, filterTokens []string) error {
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

	if len(matched) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	loc := e.parser.Location()
	for i, t := range matched {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeInfo(w, t, loc, now)
	}
	return nil
}

func writeInfo(w io.Writer, t *task.Task, loc *time.Location, now time.Time) {
	rows := [][2]string{
		{"ID", infoID(t)},
		{"UUID", t.UUID},
		{"Description", t.Description},
		{"Status", string(t.Status)},
	}
	if t.PresentsWaiting(now) && t.Status == task.StatusPending {
		rows[3][1] = string(task.StatusWaiting)
	}
	if t.Project != "" {
		rows = append(rows, [2]string{"Project", t.Project})
	}
	if t.Priority != "" {
		rows = append(rows, [2]string{"Priority", t.Priority})
	}
	if len(t.Tags) > 0 {
		rows = append(rows, [2]string{"Tags", strings.Join(t.Tags, " ")})
	}
	if len(t.Depends) > 0 {
		rows = append(rows, [2]string{"Depends", strings.Join(t.Depends, " ")})
	}
	rows = append(rows, [2]string{"Entered", infoTime(&t.Entry, loc)})
	rows = append(rows, [2]string{"Modified", infoTime(&t.Modified, loc)})
	for _, opt := range []struct {
		label string
		value *time.Time
	}{
		{"Due", t.Due},
		{"Scheduled", t.Scheduled},
		{"Wait until", t.Wait},
		{"Started", t.Start},
		{"Ended", t.End},
	} {
		if opt.value != nil {
			rows = append(rows, [2]string{opt.label, infoTime(opt.value, loc)})
		}
	}
	if !t.Status.Closed() {
		urgency := strconv.FormatFloat(report.Urgency(t, now), 'f', 1, 64)
		rows = append(rows, [2]string{"Urgency", urgency})
	}

	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%-*s  %s\n", width, row[0], row[1])
	}

	for _, a := range t.Annotations {
		fmt.Fprintf(w, "  %s  %s\n", a.Entry.In(loc).Format("2006-01-02 15:04"), a.Description)
	}
}

func infoID(t *task.Task) string {
	if t.ID == 0 {
		return "-"
	}
	return strconv.Itoa(t.ID)
}

func infoTime(ts *time.Time, loc *time.Location) string {
	return ts.In(loc).Format("2006-01-02 15:04:05")
}
