package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yarlson/taskline/internal/task"
)

// Modification is a typed set of field changes parsed from free-form
// argument tokens.
type Modification struct {
	// Description replaces the task description when non-empty.
	Description string

	AddTags    []string
	RemoveTags []string

	// Project and Priority set their fields; an empty value clears.
	Project  *string
	Priority *string

	// Due, Scheduled and Wait hold raw date expressions resolved at
	// apply time; an empty expression clears the field.
	Due       *string
	Scheduled *string
	Wait      *string

	// Depends lists dependency UUIDs to add.
	Depends []string
}

// Empty reports whether the modification changes nothing.
func (m *Modification) Empty() bool {
	return m.Description == "" &&
		len(m.AddTags) == 0 && len(m.RemoveTags) == 0 &&
		m.Project == nil && m.Priority == nil &&
		m.Due == nil && m.Scheduled == nil && m.Wait == nil &&
		len(m.Depends) == 0
}

// ParseModification converts argument tokens into a Modification.
// Recognized forms: +tag, -tag, project:V, priority:V, due:EXPR,
// scheduled:EXPR, wait:EXPR, depends:UUID[,UUID...]. Remaining tokens
// join into the description.
func ParseModification(tokens []string) (*Modification, error) {
	m := &Modification{}
	var words []string

	for _, token := range tokens {
		if tag, ok := strings.CutPrefix(token, "+"); ok && tag != "" {
			m.AddTags = append(m.AddTags, tag)
			continue
		}
		if tag, ok := strings.CutPrefix(token, "-"); ok && tag != "" {
			m.RemoveTags = append(m.RemoveTags, tag)
			continue
		}
		if value, ok := strings.CutPrefix(token, "project:"); ok {
			m.Project = &value
			continue
		}
		if value, ok := strings.CutPrefix(token, "priority:"); ok {
			m.Priority = &value
			continue
		}
		if value, ok := strings.CutPrefix(token, "due:"); ok {
			m.Due = &value
			continue
		}
		if value, ok := strings.CutPrefix(token, "scheduled:"); ok {
			m.Scheduled = &value
			continue
		}
		if value, ok := strings.CutPrefix(token, "wait:"); ok {
			m.Wait = &value
			continue
		}
		if value, ok := strings.CutPrefix(token, "depends:"); ok {
			for _, dep := range strings.Split(value, ",") {
				dep = strings.TrimSpace(dep)
				if dep == "" {
					continue
				}
				if _, err := uuid.Parse(dep); err != nil {
					return nil, fmt.Errorf("invalid dependency reference %q", dep)
				}
				m.Depends = append(m.Depends, dep)
			}
			continue
		}
		words = append(words, token)
	}

	m.Description = strings.Join(words, " ")
	return m, nil
}

// apply mutates the task in place according to the modification. Setting
// or clearing wait toggles a pending task between pending and waiting.
func (e *Engine) apply(t *task.Task, m *Modification, now time.Time) error {
	if m.Description != "" {
		t.Description = m.Description
	}

	for _, tag := range m.AddTags {
		t.AddTag(tag)
	}
	for _, tag := range m.RemoveTags {
		t.RemoveTag(tag)
	}

	if m.Project != nil {
		t.Project = *m.Project
	}
	if m.Priority != nil {
		t.Priority = *m.Priority
	}

	if err := e.applyDate(&t.Due, m.Due, "due", now); err != nil {
		return err
	}
	if err := e.applyDate(&t.Scheduled, m.Scheduled, "scheduled", now); err != nil {
		return err
	}
	if m.Wait != nil {
		if err := e.applyDate(&t.Wait, m.Wait, "wait", now); err != nil {
			return err
		}
		switch {
		case t.Status == task.StatusPending && t.Wait != nil && t.Wait.After(now):
			t.Status = task.StatusWaiting
		case t.Status == task.StatusWaiting && (t.Wait == nil || !t.Wait.After(now)):
			t.Status = task.StatusPending
		}
	}

	for _, dep := range m.Depends {
		if !contains(t.Depends, dep) {
			t.Depends = append(t.Depends, dep)
		}
	}

	t.Modified = now
	return nil
}

// applyDate resolves a raw date expression into the field. An empty
// expression clears it; a nil expression leaves it alone.
func (e *Engine) applyDate(field **time.Time, expr *string, name string, now time.Time) error {
	if expr == nil {
		return nil
	}
	if *expr == "" {
		*field = nil
		return nil
	}

	parsed, err := e.parser.Parse(*expr, now)
	if err != nil {
		return fmt.Errorf("failed to parse %s date: %w", name, err)
	}
	*field = &parsed
	return nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
