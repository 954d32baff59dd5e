// Package dates parses human-friendly date expressions into absolute
// instants, resolved against a single project timezone.
package dates

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"
)

// supportedForms is the reference list quoted by parse errors.
const supportedForms = "now, today, tomorrow, yesterday, +Nd/-Nd/+Nh/-Nh/+Nm/-Nm, " +
	"YYYYMMDDTHHMMSSZ, RFC 3339, YYYY-MM-DD, YYYY-MM-DDTHH:MM, YYYY-MM-DD HH:MM"

// ParseError reports an unrecognized date expression.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unrecognized date expression %q (supported forms: %s)", e.Input, supportedForms)
}

// relativeRe matches relative offsets like +3d, -12h, +90m.
var relativeRe = regexp.MustCompile(`^([+-])(\d+)([dhm])$`)

// localDateTimeRe matches YYYY-MM-DDTHH:MM and YYYY-MM-DD HH:MM.
var localDateTimeRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[T ](\d{2}):(\d{2})$`)

// localDateRe matches a bare YYYY-MM-DD.
var localDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)

// Parser converts date expressions to instants. The location is the
// project timezone, fixed for the lifetime of the parser; warnings (such
// as ambiguous local times) are written to warn.
type Parser struct {
	loc  *time.Location
	warn io.Writer
}

// NewParser creates a Parser for the given project timezone. A nil
// location means UTC; a nil warn discards warnings.
func NewParser(loc *time.Location, warn io.Writer) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Parser{loc: loc, warn: warn}
}

// Location returns the parser's project timezone.
func (p *Parser) Location() *time.Location {
	return p.loc
}

// Parse converts a date expression to an absolute instant. The forms are
// tried in a fixed precedence order: keywords, relative offsets, compact
// UTC timestamps, RFC 3339, bare local dates, local date-times.
func (p *Parser) Parse(text string, now time.Time) (time.Time, error) {
	switch text {
	case "now":
		return now, nil
	case "today":
		return p.midnight(now, 0)
	case "tomorrow":
		return p.midnight(now, 1)
	case "yesterday":
		return p.midnight(now, -1)
	}

	if m := relativeRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, &ParseError{Input: text}
		}
		var unit time.Duration
		switch m[3] {
		case "d":
			unit = 24 * time.Hour
		case "h":
			unit = time.Hour
		case "m":
			unit = time.Minute
		}
		offset := time.Duration(n) * unit
		if m[1] == "-" {
			offset = -offset
		}
		return now.Add(offset), nil
	}

	if t, err := time.Parse("20060102T150405Z", text); err == nil {
		return t, nil
	}

	if t, err := time.Parse(time.RFC3339, text); err == nil {
		return t, nil
	}

	if m := localDateRe.FindStringSubmatch(text); m != nil {
		return p.local(atoi(m[1]), atoi(m[2]), atoi(m[3]), 0, 0, text)
	}

	if m := localDateTimeRe.FindStringSubmatch(text); m != nil {
		return p.local(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), text)
	}

	return time.Time{}, &ParseError{Input: text}
}

// midnight returns local midnight of today plus the given day offset.
func (p *Parser) midnight(now time.Time, days int) (time.Time, error) {
	y, m, d := now.In(p.loc).AddDate(0, 0, days).Date()
	return p.local(y, int(m), d, 0, 0, fmt.Sprintf("%04d-%02d-%02d", y, m, d))
}

// local resolves a wall-clock time in the project timezone. A wall time
// that does not exist (spring-forward gap) is an error; an ambiguous one
// (fall-back overlap) resolves to the earlier instant with a warning.
func (p *Parser) local(year, month, day, hour, minute int, text string) (time.Time, error) {
	// Reject invalid calendar dates (month 13, February 30) before the
	// DST checks; time.Date would silently normalize them.
	if !sameWall(time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.UTC), year, month, day, hour, minute) {
		return time.Time{}, &ParseError{Input: text}
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, p.loc)

	if !sameWall(t, year, month, day, hour, minute) {
		return time.Time{}, fmt.Errorf("local time %q does not exist in timezone %s", text, p.loc)
	}

	// DST transitions shift the clock by a whole or half hour. If the
	// instant one shift earlier reads the same on the wall clock, the
	// wall time is ambiguous and the earlier instant wins.
	for _, shift := range []time.Duration{time.Hour, 30 * time.Minute} {
		earlier := t.Add(-shift)
		if sameWall(earlier, year, month, day, hour, minute) {
			fmt.Fprintf(p.warn, "warning: local time %q is ambiguous in timezone %s, using the earlier instant\n", text, p.loc)
			return earlier, nil
		}
		later := t.Add(shift)
		if sameWall(later, year, month, day, hour, minute) {
			fmt.Fprintf(p.warn, "warning: local time %q is ambiguous in timezone %s, using the earlier instant\n", text, p.loc)
			return t, nil
		}
	}

	return t, nil
}

// sameWall reports whether the instant reads as the given wall clock in
// its own location.
func sameWall(t time.Time, year, month, day, hour, minute int) bool {
	y, m, d := t.Date()
	return y == year && int(m) == month && d == day &&
		t.Hour() == hour && t.Minute() == minute
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ResolveLocation picks the project timezone from an ordered candidate
// list (environment override, configured value, built-in default). Empty
// and unparseable names fall through; if every candidate fails, UTC is
// used silently.
func ResolveLocation(candidates ...string) *time.Location {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.UTC
}
