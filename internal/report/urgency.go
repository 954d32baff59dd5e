package report

import (
	"time"

	"github.com/yarlson/taskline/internal/task"
)

// Urgency coefficients. The formula is a fixed heuristic: changing any
// constant or bucket boundary breaks parity with existing stores.
const (
	urgencyTagCoefficient = 0.8
	urgencyPriorityHigh   = 6.0
	urgencyPriorityMedium = 3.9
	urgencyPriorityLow    = 1.8
	urgencyActive         = 4.0
	urgencyWaiting        = -3.0
	urgencyBlocked        = -5.0
)

// Urgency computes the fixed heuristic score for a task at the given
// instant. Completed and deleted tasks score exactly 0.
func Urgency(t *task.Task, now time.Time) float64 {
	if t.Status.Closed() {
		return 0
	}

	urgency := urgencyTagCoefficient * float64(len(t.Tags))

	switch t.Priority {
	case "H":
		urgency += urgencyPriorityHigh
	case "M":
		urgency += urgencyPriorityMedium
	case "L":
		urgency += urgencyPriorityLow
	}

	waiting := t.PresentsWaiting(now)
	if t.Active() && !waiting {
		urgency += urgencyActive
	}
	if waiting {
		urgency += urgencyWaiting
	}
	if len(t.Depends) > 0 {
		urgency += urgencyBlocked
	}

	urgency += dueContribution(t.Due, now)

	return urgency
}

// dueContribution buckets the exact fractional days until due.
func dueContribution(due *time.Time, now time.Time) float64 {
	if due == nil {
		return 0
	}

	days := due.Sub(now).Hours() / 24

	switch {
	case days <= -1:
		return 9.7
	case days <= 0:
		return 9.3
	case days <= 1:
		return 8.8
	case days <= 2:
		return 8.4
	case days <= 7:
		return 6.0
	default:
		return 3.0
	}
}
