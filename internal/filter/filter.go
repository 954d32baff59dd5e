// Package filter parses free-form query tokens into typed predicates and
// matches them against tasks.
package filter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yarlson/taskline/internal/dates"
	"github.com/yarlson/taskline/internal/task"
)

// Predicate is a single typed condition on a task.
type Predicate interface {
	Match(t *task.Task, now time.Time) bool
}

// tagPresent matches tasks carrying the tag.
type tagPresent struct{ tag string }

func (p tagPresent) Match(t *task.Task, _ time.Time) bool { return t.HasTag(p.tag) }

// tagAbsent matches tasks not carrying the tag.
type tagAbsent struct{ tag string }

func (p tagAbsent) Match(t *task.Task, _ time.Time) bool { return !t.HasTag(p.tag) }

// byID matches a task by its working identifier.
type byID struct{ id int }

func (p byID) Match(t *task.Task, _ time.Time) bool { return t.ID != 0 && t.ID == p.id }

// byUUID matches a task by its immutable identity.
type byUUID struct{ id string }

func (p byUUID) Match(t *task.Task, _ time.Time) bool {
	return strings.EqualFold(t.UUID, p.id)
}

// projectEquals matches tasks in the given project.
type projectEquals struct{ project string }

func (p projectEquals) Match(t *task.Task, _ time.Time) bool { return t.Project == p.project }

// statusEquals matches the persisted status, except for the value
// "waiting" which is a pseudo-status matching the derived waiting
// presentation rather than the stored field.
type statusEquals struct{ status string }

func (p statusEquals) Match(t *task.Task, now time.Time) bool {
	if p.status == string(task.StatusWaiting) {
		return t.PresentsWaiting(now)
	}
	return string(t.Status) == p.status
}

// dueBefore matches tasks due strictly before the instant.
type dueBefore struct{ limit time.Time }

func (p dueBefore) Match(t *task.Task, _ time.Time) bool {
	return t.Due != nil && t.Due.Before(p.limit)
}

// dueAfter matches tasks due strictly after the instant.
type dueAfter struct{ limit time.Time }

func (p dueAfter) Match(t *task.Task, _ time.Time) bool {
	return t.Due != nil && t.Due.After(p.limit)
}

// descriptionSubstring matches the description case-insensitively.
type descriptionSubstring struct{ needle string }

func (p descriptionSubstring) Match(t *task.Task, _ time.Time) bool {
	return strings.Contains(strings.ToLower(t.Description), p.needle)
}

// Filter is an AND-combination of predicates.
type Filter struct {
	predicates  []Predicate
	hasStatus   bool
	hasIdentity bool
}

// Parse converts query tokens into a Filter. Per token, the forms are
// tried in order: +tag, -tag, numeric ID, UUID, project:, status:,
// due.before:, due.after:; anything else becomes a case-insensitive
// description substring match. Date expressions are resolved against now.
func Parse(tokens []string, parser *dates.Parser, now time.Time) (*Filter, error) {
	f := &Filter{}

	for _, token := range tokens {
		p, err := parseToken(token, parser, now)
		if err != nil {
			return nil, err
		}

		switch p.(type) {
		case statusEquals:
			f.hasStatus = true
		case byID, byUUID:
			f.hasIdentity = true
		}

		f.predicates = append(f.predicates, p)
	}

	return f, nil
}

func parseToken(token string, parser *dates.Parser, now time.Time) (Predicate, error) {
	if tag, ok := strings.CutPrefix(token, "+"); ok && tag != "" {
		return tagPresent{tag: tag}, nil
	}

	if tag, ok := strings.CutPrefix(token, "-"); ok && tag != "" {
		return tagAbsent{tag: tag}, nil
	}

	if id, err := strconv.ParseUint(token, 10, 32); err == nil {
		return byID{id: int(id)}, nil
	}

	if _, err := uuid.Parse(token); err == nil && len(token) == 36 {
		return byUUID{id: token}, nil
	}

	if value, ok := strings.CutPrefix(token, "project:"); ok {
		return projectEquals{project: value}, nil
	}

	if value, ok := strings.CutPrefix(token, "status:"); ok {
		if !task.Status(value).IsValid() {
			return nil, fmt.Errorf("invalid status filter %q", token)
		}
		return statusEquals{status: value}, nil
	}

	if expr, ok := strings.CutPrefix(token, "due.before:"); ok {
		limit, err := parser.Parse(expr, now)
		if err != nil {
			return nil, fmt.Errorf("failed to parse filter %q: %w", token, err)
		}
		return dueBefore{limit: limit}, nil
	}

	if expr, ok := strings.CutPrefix(token, "due.after:"); ok {
		limit, err := parser.Parse(expr, now)
		if err != nil {
			return nil, fmt.Errorf("failed to parse filter %q: %w", token, err)
		}
		return dueAfter{limit: limit}, nil
	}

	return descriptionSubstring{needle: strings.ToLower(token)}, nil
}

// Matches reports whether the task satisfies every predicate, applying
// the default visibility rule: unless the filter names a status
// explicitly, a task presenting as waiting does not match.
func (f *Filter) Matches(t *task.Task, now time.Time) bool {
	if !f.hasStatus && t.PresentsWaiting(now) {
		return false
	}
	return f.MatchesAll(t, now)
}

// MatchesAll reports whether the task satisfies every predicate, without
// the default waiting exclusion. Export and undo paths use this variant
// so wait state never hides a task from them.
func (f *Filter) MatchesAll(t *task.Task, now time.Time) bool {
	for _, p := range f.predicates {
		if !p.Match(t, now) {
			return false
		}
	}
	return true
}

// HasStatusPredicate reports whether the filter names a status (or the
// waiting pseudo-status) explicitly.
func (f *Filter) HasStatusPredicate() bool {
	return f.hasStatus
}

// HasIdentitySelector reports whether the filter selects by ID or UUID.
// Callers use this to widen the working set beyond the pending partition.
func (f *Filter) HasIdentitySelector() bool {
	return f.hasIdentity
}

// Empty reports whether the filter has no predicates at all.
func (f *Filter) Empty() bool {
	return len(f.predicates) == 0
}
