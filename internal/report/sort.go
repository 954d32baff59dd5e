package report

import (
	"sort"
	"strings"
	"time"

	"github.com/yarlson/taskline/internal/task"
)

// Sort returns the tasks ordered by the given keys. The sort is stable
// multi-key: the first non-equal comparison wins, with its direction
// flag applied. Absent optional values order before present ones
// ascending, and the final tiebreak is always (ID ascending, UUID
// ascending) so the result is fully deterministic.
func Sort(tasks []*task.Task, keys []SortKey, now time.Time) []*task.Task {
	ordered := append([]*task.Task(nil), tasks...)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		for _, key := range keys {
			c := compareColumn(a, b, key.Column, now)
			if c == 0 {
				continue
			}
			if key.Descending {
				return c > 0
			}
			return c < 0
		}

		if a.ID != b.ID {
			// A missing ID (zero) still orders before any assigned one.
			return a.ID < b.ID
		}
		return a.UUID < b.UUID
	})

	return ordered
}

// compareColumn compares one column of two tasks: -1, 0 or 1.
func compareColumn(a, b *task.Task, c Column, now time.Time) int {
	switch c {
	case ColumnID:
		return compareInt(a.ID, b.ID)
	case ColumnUUID:
		return strings.Compare(a.UUID, b.UUID)
	case ColumnStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case ColumnProject:
		return strings.Compare(a.Project, b.Project)
	case ColumnTags:
		return strings.Compare(strings.Join(a.Tags, " "), strings.Join(b.Tags, " "))
	case ColumnPriority:
		return compareInt(priorityRank(a.Priority), priorityRank(b.Priority))
	case ColumnDue:
		return compareOptionalTime(a.Due, b.Due)
	case ColumnScheduled:
		return compareOptionalTime(a.Scheduled, b.Scheduled)
	case ColumnWait:
		return compareOptionalTime(a.Wait, b.Wait)
	case ColumnEntry:
		return compareTime(a.Entry, b.Entry)
	case ColumnModified:
		return compareTime(a.Modified, b.Modified)
	case ColumnEnd:
		return compareOptionalTime(a.End, b.End)
	case ColumnStart:
		return compareOptionalTime(a.Start, b.Start)
	case ColumnDescription:
		return strings.Compare(a.Description, b.Description)
	case ColumnUrgency:
		ua, ub := Urgency(a, now), Urgency(b, now)
		switch {
		case ua < ub:
			return -1
		case ua > ub:
			return 1
		}
		return 0
	}
	return 0
}

// priorityRank orders priorities low to high so ascending means least
// urgent first. Unrecognized values rank below L.
func priorityRank(p string) int {
	switch p {
	case "H":
		return 3
	case "M":
		return 2
	case "L":
		return 1
	}
	return 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// compareOptionalTime orders absent values before present ones.
func compareOptionalTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compareTime(*a, *b)
}
