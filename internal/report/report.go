// Package report defines named column layouts, sort orders and the
// urgency score, and renders ordered tabular output.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/yarlson/taskline/internal/task"
)

// Column identifies a report column. The set is closed.
type Column string

// Valid report columns.
const (
	ColumnID          Column = "id"
	ColumnUUID        Column = "uuid"
	ColumnStatus      Column = "status"
	ColumnProject     Column = "project"
	ColumnTags        Column = "tags"
	ColumnPriority    Column = "priority"
	ColumnDue         Column = "due"
	ColumnScheduled   Column = "scheduled"
	ColumnWait        Column = "wait"
	ColumnEntry       Column = "entry"
	ColumnModified    Column = "modified"
	ColumnEnd         Column = "end"
	ColumnStart       Column = "start"
	ColumnDescription Column = "description"
	ColumnUrgency     Column = "urgency"
)

// validColumns contains all valid columns for quick lookup.
var validColumns = map[Column]bool{
	ColumnID:          true,
	ColumnUUID:        true,
	ColumnStatus:      true,
	ColumnProject:     true,
	ColumnTags:        true,
	ColumnPriority:    true,
	ColumnDue:         true,
	ColumnScheduled:   true,
	ColumnWait:        true,
	ColumnEntry:       true,
	ColumnModified:    true,
	ColumnEnd:         true,
	ColumnStart:       true,
	ColumnDescription: true,
	ColumnUrgency:     true,
}

// IsValid returns true if the column is part of the closed column set.
func (c Column) IsValid() bool {
	return validColumns[c]
}

// defaultLabel returns the canonical header label for a column.
func (c Column) defaultLabel() string {
	switch c {
	case ColumnID:
		return "ID"
	case ColumnUUID:
		return "UUID"
	case ColumnUrgency:
		return "Urg"
	default:
		return strings.ToUpper(string(c)[:1]) + string(c)[1:]
	}
}

// SortKey is one sort criterion with a direction flag.
type SortKey struct {
	Column     Column
	Descending bool
}

// Definition is a named report: columns, labels, sort order, an embedded
// filter merged ahead of the caller's terms, and an optional row limit.
type Definition struct {
	Name    string
	Columns []Column
	Labels  []string
	Sort    []SortKey
	Filter  []string
	Limit   int
}

// Validate checks the definition's shape.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("report name is required")
	}
	if len(d.Columns) == 0 {
		return fmt.Errorf("report %q has no columns", d.Name)
	}
	for _, c := range d.Columns {
		if !c.IsValid() {
			return fmt.Errorf("report %q has invalid column %q", d.Name, c)
		}
	}
	if len(d.Labels) != 0 && len(d.Labels) != len(d.Columns) {
		return fmt.Errorf("report %q has %d labels for %d columns", d.Name, len(d.Labels), len(d.Columns))
	}
	for _, k := range d.Sort {
		if !k.Column.IsValid() {
			return fmt.Errorf("report %q has invalid sort column %q", d.Name, k.Column)
		}
	}
	return nil
}

// labels returns the header labels, defaulting from the column names.
func (d *Definition) labels() []string {
	labels := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		if i < len(d.Labels) && d.Labels[i] != "" {
			labels[i] = d.Labels[i]
		} else {
			labels[i] = c.defaultLabel()
		}
	}
	return labels
}

// BuiltIn returns the built-in report definitions keyed by name.
func BuiltIn() map[string]Definition {
	defs := []Definition{
		{
			Name:    "next",
			Columns: []Column{ColumnID, ColumnProject, ColumnPriority, ColumnDue, ColumnDescription, ColumnUrgency},
			Sort:    []SortKey{{Column: ColumnUrgency, Descending: true}},
			Filter:  []string{"status:pending"},
		},
		{
			Name:    "list",
			Columns: []Column{ColumnID, ColumnProject, ColumnTags, ColumnDue, ColumnDescription},
			Sort:    []SortKey{{Column: ColumnDue}, {Column: ColumnProject}},
			Filter:  []string{"status:pending"},
		},
		{
			Name:    "all",
			Columns: []Column{ColumnID, ColumnStatus, ColumnProject, ColumnDue, ColumnDescription},
			Sort:    []SortKey{{Column: ColumnEntry}},
		},
		{
			Name:    "completed",
			Columns: []Column{ColumnEnd, ColumnProject, ColumnDescription},
			Sort:    []SortKey{{Column: ColumnEnd, Descending: true}},
			Filter:  []string{"status:completed"},
		},
		{
			Name:    "waiting",
			Columns: []Column{ColumnID, ColumnWait, ColumnDescription},
			Sort:    []SortKey{{Column: ColumnWait}},
			Filter:  []string{"status:waiting"},
		},
	}

	byName := make(map[string]Definition, len(defs))
	for _, d := range defs {
		byName[d.Name] = d
	}
	return byName
}

// Render writes the tasks as a plain-text table: header labels, a rule,
// then one row per task. Tasks are sorted by the definition's keys and
// the row limit is applied after sorting. Timestamps render in loc.
func Render(w io.Writer, def Definition, tasks []*task.Task, loc *time.Location, now time.Time) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if loc == nil {
		loc = time.UTC
	}

	ordered := Sort(tasks, def.Sort, now)
	if def.Limit > 0 && len(ordered) > def.Limit {
		ordered = ordered[:def.Limit]
	}

	labels := def.labels()
	rows := make([][]string, 0, len(ordered)+1)
	rows = append(rows, labels)
	for _, t := range ordered {
		row := make([]string, len(def.Columns))
		for i, c := range def.Columns {
			row[i] = cellValue(t, c, loc, now)
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(labels))
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(row []string) {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}

	writeRow(labels)
	rule := make([]string, len(labels))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	writeRow(rule)
	for _, row := range rows[1:] {
		writeRow(row)
	}

	return nil
}

// cellValue formats one column of one task.
func cellValue(t *task.Task, c Column, loc *time.Location, now time.Time) string {
	switch c {
	case ColumnID:
		if t.ID == 0 {
			return "-"
		}
		return strconv.Itoa(t.ID)
	case ColumnUUID:
		return t.UUID
	case ColumnStatus:
		if t.PresentsWaiting(now) {
			return string(task.StatusWaiting)
		}
		return string(t.Status)
	case ColumnProject:
		return t.Project
	case ColumnTags:
		return strings.Join(t.Tags, " ")
	case ColumnPriority:
		return t.Priority
	case ColumnDue:
		return formatDate(t.Due, loc)
	case ColumnScheduled:
		return formatDate(t.Scheduled, loc)
	case ColumnWait:
		return formatDate(t.Wait, loc)
	case ColumnEntry:
		return formatDate(&t.Entry, loc)
	case ColumnModified:
		return formatDate(&t.Modified, loc)
	case ColumnEnd:
		return formatDate(t.End, loc)
	case ColumnStart:
		return formatDate(t.Start, loc)
	case ColumnDescription:
		return t.Description
	case ColumnUrgency:
		return strconv.FormatFloat(Urgency(t, now), 'f', 1, 64)
	}
	return ""
}

func formatDate(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2006-01-02")
}
