package task

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimeLayout is the on-disk timestamp format: compact UTC, no separators.
const TimeLayout = "20060102T150405Z"

// FormatTime renders an instant in the on-disk timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses an on-disk timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}

// knownFields lists every field name the model owns. Anything else on a
// stored record is preserved in Extra.
var knownFields = map[string]bool{
	"uuid":        true,
	"id":          true,
	"description": true,
	"status":      true,
	"entry":       true,
	"modified":    true,
	"end":         true,
	"start":       true,
	"due":         true,
	"scheduled":   true,
	"wait":        true,
	"project":     true,
	"priority":    true,
	"tags":        true,
	"depends":     true,
	"annotations": true,
}

// annotationJSON is the wire form of an Annotation.
type annotationJSON struct {
	Entry       string `json:"entry"`
	Description string `json:"description"`
}

// taskJSON is the wire form of a Task with timestamps as strings.
type taskJSON struct {
	ID          int              `json:"id,omitempty"`
	UUID        string           `json:"uuid"`
	Description string           `json:"description"`
	Status      Status           `json:"status"`
	Entry       string           `json:"entry"`
	Modified    string           `json:"modified"`
	End         string           `json:"end,omitempty"`
	Start       string           `json:"start,omitempty"`
	Due         string           `json:"due,omitempty"`
	Scheduled   string           `json:"scheduled,omitempty"`
	Wait        string           `json:"wait,omitempty"`
	Project     string           `json:"project,omitempty"`
	Priority    string           `json:"priority,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Depends     []string         `json:"depends,omitempty"`
	Annotations []annotationJSON `json:"annotations,omitempty"`
}

// MarshalJSON serializes the task with compact UTC timestamps and merges
// the Extra map back in verbatim. Key order is deterministic: the fixed
// field order when there are no extra fields, sorted keys otherwise.
func (t *Task) MarshalJSON() ([]byte, error) {
	wire := taskJSON{
		ID:          t.ID,
		UUID:        t.UUID,
		Description: t.Description,
		Status:      t.Status,
		Entry:       FormatTime(t.Entry),
		Modified:    FormatTime(t.Modified),
		End:         formatOptional(t.End),
		Start:       formatOptional(t.Start),
		Due:         formatOptional(t.Due),
		Scheduled:   formatOptional(t.Scheduled),
		Wait:        formatOptional(t.Wait),
		Project:     t.Project,
		Priority:    t.Priority,
		Tags:        t.Tags,
		Depends:     t.Depends,
	}
	for _, a := range t.Annotations {
		wire.Annotations = append(wire.Annotations, annotationJSON{
			Entry:       FormatTime(a.Entry),
			Description: a.Description,
		})
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return data, nil
	}

	// Merge extra fields. encoding/json sorts map keys, which keeps the
	// output deterministic.
	merged := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range t.Extra {
		if knownFields[k] {
			continue
		}
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON parses a stored record, routing unrecognized fields into
// Extra so they survive the next save untouched.
func (t *Task) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var wire taskJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*t = Task{
		ID:          wire.ID,
		UUID:        wire.UUID,
		Description: wire.Description,
		Status:      wire.Status,
		Project:     wire.Project,
		Priority:    wire.Priority,
		Tags:        wire.Tags,
		Depends:     wire.Depends,
	}

	var err error
	if t.Entry, err = parseField(wire.Entry, "entry"); err != nil {
		return err
	}
	if t.Modified, err = parseField(wire.Modified, "modified"); err != nil {
		return err
	}
	if t.End, err = parseOptional(wire.End, "end"); err != nil {
		return err
	}
	if t.Start, err = parseOptional(wire.Start, "start"); err != nil {
		return err
	}
	if t.Due, err = parseOptional(wire.Due, "due"); err != nil {
		return err
	}
	if t.Scheduled, err = parseOptional(wire.Scheduled, "scheduled"); err != nil {
		return err
	}
	if t.Wait, err = parseOptional(wire.Wait, "wait"); err != nil {
		return err
	}

	for _, a := range wire.Annotations {
		entry, err := parseField(a.Entry, "annotation entry")
		if err != nil {
			return err
		}
		t.Annotations = append(t.Annotations, Annotation{
			Entry:       entry,
			Description: a.Description,
		})
	}

	for k, v := range raw {
		if knownFields[k] {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]json.RawMessage)
		}
		t.Extra[k] = v
	}

	return nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTime(*t)
}

func parseField(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	parsed, err := ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s timestamp %q: %w", field, s, err)
	}
	return parsed, nil
}

func parseOptional(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	parsed, err := parseField(s, field)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
