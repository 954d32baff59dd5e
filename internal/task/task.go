// Package task defines the task record type and its invariants.
package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the persisted state of a task.
type Status string

// Valid task status values.
const (
	StatusPending   Status = "pending"
	StatusWaiting   Status = "waiting"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
)

// validStatuses contains all valid status values for quick lookup.
var validStatuses = map[Status]bool{
	StatusPending:   true,
	StatusWaiting:   true,
	StatusCompleted: true,
	StatusDeleted:   true,
}

// IsValid returns true if the status is a valid Status value.
func (s Status) IsValid() bool {
	return validStatuses[s]
}

// Closed returns true for the two terminal states.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusDeleted
}

// Annotation is a timestamped note attached to a task.
type Annotation struct {
	// Entry is when the annotation was added.
	Entry time.Time

	// Description is the annotation text.
	Description string
}

// Task represents a single tracked task.
type Task struct {
	// UUID is the globally unique, immutable identity of the task.
	UUID string

	// ID is the small working identifier, assigned only while the task
	// is in the pending partition. Zero means no ID.
	ID int

	// Description is the task text. Required, non-empty at creation.
	Description string

	// Status is the persisted state of the task.
	Status Status

	// Entry is when the task was created.
	Entry time.Time

	// Modified is when the task was last mutated.
	Modified time.Time

	// End is when the task was completed or deleted. Present iff the
	// status is a terminal one.
	End *time.Time

	// Start is when work on the task began. Present only while active.
	Start *time.Time

	// Due, Scheduled and Wait are optional instants.
	Due       *time.Time
	Scheduled *time.Time
	Wait      *time.Time

	// Project is an optional single project tag.
	Project string

	// Priority is an optional free-form priority string. The scoring
	// engine interprets H, M and L; anything else scores zero.
	Priority string

	// Tags is a duplicate-free set of tag strings.
	Tags []string

	// Depends lists the UUIDs of tasks this task depends on.
	Depends []string

	// Annotations is the ordered, append-only list of notes.
	Annotations []Annotation

	// Extra holds unrecognized fields verbatim so third-party data
	// round-trips losslessly across load/save.
	Extra map[string]json.RawMessage
}

// New creates a pending task with a fresh UUID and the given description.
func New(description string, now time.Time) *Task {
	return &Task{
		UUID:        uuid.NewString(),
		Description: description,
		Status:      StatusPending,
		Entry:       now,
		Modified:    now,
	}
}

// Validate checks that the task has all required fields and valid values.
// Returns an error describing the first validation failure, or nil if valid.
func (t *Task) Validate() error {
	if t.UUID == "" {
		return fmt.Errorf("task uuid is required")
	}

	if _, err := uuid.Parse(t.UUID); err != nil {
		return fmt.Errorf("task uuid is invalid: %q", t.UUID)
	}

	if t.Description == "" {
		return fmt.Errorf("task description is required")
	}

	if !t.Status.IsValid() {
		return fmt.Errorf("task status is invalid: %q", t.Status)
	}

	if t.Entry.IsZero() {
		return fmt.Errorf("task entry is required")
	}

	if t.Modified.IsZero() {
		return fmt.Errorf("task modified is required")
	}

	if t.Status.Closed() && t.End == nil {
		return fmt.Errorf("task end is required for status %q", t.Status)
	}

	return nil
}

// PresentsWaiting reports whether the task currently presents as waiting:
// either its stored status is waiting, or it is pending with a wait
// instant still in the future.
func (t *Task) PresentsWaiting(now time.Time) bool {
	if t.Status == StatusWaiting {
		return true
	}
	return t.Status == StatusPending && t.Wait != nil && t.Wait.After(now)
}

// Active reports whether work on the task has been started.
func (t *Task) Active() bool {
	return t.Start != nil
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// AddTag adds a tag, keeping the tag set duplicate-free.
func (t *Task) AddTag(tag string) {
	if t.HasTag(tag) {
		return
	}
	t.Tags = append(t.Tags, tag)
}

// RemoveTag removes a tag if present.
func (t *Task) RemoveTag(tag string) {
	for i, existing := range t.Tags {
		if existing == tag {
			t.Tags = append(t.Tags[:i], t.Tags[i+1:]...)
			return
		}
	}
}

// Close moves the task into a terminal state: the working ID is cleared,
// end is stamped and any active start is dropped.
func (t *Task) Close(status Status, now time.Time) {
	end := now
	t.Status = status
	t.End = &end
	t.Start = nil
	t.ID = 0
	t.Modified = now
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	c.End = cloneTime(t.End)
	c.Start = cloneTime(t.Start)
	c.Due = cloneTime(t.Due)
	c.Scheduled = cloneTime(t.Scheduled)
	c.Wait = cloneTime(t.Wait)

	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Depends != nil {
		c.Depends = append([]string(nil), t.Depends...)
	}
	if t.Annotations != nil {
		c.Annotations = append([]Annotation(nil), t.Annotations...)
	}
	if t.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(t.Extra))
		for k, v := range t.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}

	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
