package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/taskline/internal/dates"
	"github.com/yarlson/taskline/internal/task"
)

var testNow = time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

func testParser() *dates.Parser {
	return dates.NewParser(time.UTC, nil)
}

func mustParse(t *testing.T, tokens ...string) *Filter {
	t.Helper()
	f, err := Parse(tokens, testParser(), testNow)
	require.NoError(t, err)
	return f
}

func newTask(t *testing.T, description string) *task.Task {
	t.Helper()
	tk := task.New(description, testNow.Add(-time.Hour))
	tk.ID = 1
	return tk
}

func TestParseTokens(t *testing.T) {
	t.Run("tag present", func(t *testing.T) {
		f := mustParse(t, "+home")
		tk := newTask(t, "x")
		assert.False(t, f.Matches(tk, testNow))
		tk.AddTag("home")
		assert.True(t, f.Matches(tk, testNow))
	})

	t.Run("tag absent", func(t *testing.T) {
		f := mustParse(t, "-home")
		tk := newTask(t, "x")
		assert.True(t, f.Matches(tk, testNow))
		tk.AddTag("home")
		assert.False(t, f.Matches(tk, testNow))
	})

	t.Run("numeric id", func(t *testing.T) {
		f := mustParse(t, "3")
		tk := newTask(t, "x")
		assert.False(t, f.Matches(tk, testNow))
		tk.ID = 3
		assert.True(t, f.Matches(tk, testNow))
		assert.True(t, f.HasIdentitySelector())
	})

	t.Run("uuid", func(t *testing.T) {
		tk := newTask(t, "x")
		f := mustParse(t, tk.UUID)
		assert.True(t, f.Matches(tk, testNow))
		assert.True(t, f.HasIdentitySelector())

		other := newTask(t, "y")
		assert.False(t, f.Matches(other, testNow))
	})

	t.Run("project", func(t *testing.T) {
		f := mustParse(t, "project:Home")
		tk := newTask(t, "x")
		tk.Project = "Home"
		assert.True(t, f.Matches(tk, testNow))
		tk.Project = "home"
		assert.False(t, f.Matches(tk, testNow))
	})

	t.Run("status", func(t *testing.T) {
		f := mustParse(t, "status:completed")
		assert.True(t, f.HasStatusPredicate())
		tk := newTask(t, "x")
		assert.False(t, f.Matches(tk, testNow))
		tk.Close(task.StatusCompleted, testNow)
		assert.True(t, f.Matches(tk, testNow))
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := Parse([]string{"status:open"}, testParser(), testNow)
		assert.Error(t, err)
	})

	t.Run("due before and after are strict", func(t *testing.T) {
		tk := newTask(t, "x")
		due := testNow.Add(24 * time.Hour)
		tk.Due = &due

		assert.True(t, mustParse(t, "due.before:+2d").Matches(tk, testNow))
		assert.False(t, mustParse(t, "due.before:+1d").Matches(tk, testNow))
		assert.True(t, mustParse(t, "due.after:now").Matches(tk, testNow))
		assert.False(t, mustParse(t, "due.after:+1d").Matches(tk, testNow))

		noDue := newTask(t, "y")
		assert.False(t, mustParse(t, "due.before:+2d").Matches(noDue, testNow))
		assert.False(t, mustParse(t, "due.after:-2d").Matches(noDue, testNow))
	})

	t.Run("bad due expression", func(t *testing.T) {
		_, err := Parse([]string{"due.before:whenever"}, testParser(), testNow)
		assert.Error(t, err)
	})

	t.Run("substring fallback is case-insensitive", func(t *testing.T) {
		f := mustParse(t, "MILK")
		assert.True(t, f.Matches(newTask(t, "Buy milk"), testNow))
		assert.False(t, f.Matches(newTask(t, "Buy bread"), testNow))
	})
}

func TestAndSemantics(t *testing.T) {
	tk := newTask(t, "Buy milk")
	tk.AddTag("errand")
	tk.Project = "Home"

	p1 := []string{"+errand"}
	p2 := []string{"project:Home", "milk"}

	combined := mustParse(t, append(append([]string{}, p1...), p2...)...)
	assert.Equal(t,
		mustParse(t, p1...).Matches(tk, testNow) && mustParse(t, p2...).Matches(tk, testNow),
		combined.Matches(tk, testNow))
	assert.True(t, combined.Matches(tk, testNow))

	tk.RemoveTag("errand")
	assert.False(t, combined.Matches(tk, testNow))
	assert.False(t, mustParse(t, p1...).Matches(tk, testNow))
	assert.True(t, mustParse(t, p2...).Matches(tk, testNow))
}

func TestWaitingDefaultExclusion(t *testing.T) {
	tk := newTask(t, "Later")
	wait := testNow.Add(24 * time.Hour)
	tk.Wait = &wait

	t.Run("empty filter excludes waiting", func(t *testing.T) {
		f := mustParse(t)
		assert.True(t, f.Empty())
		assert.False(t, f.Matches(tk, testNow))
	})

	t.Run("status waiting includes it", func(t *testing.T) {
		f := mustParse(t, "status:waiting")
		assert.True(t, f.Matches(tk, testNow))
	})

	t.Run("status pending matches stored status", func(t *testing.T) {
		f := mustParse(t, "status:pending")
		assert.True(t, f.Matches(tk, testNow))
	})

	t.Run("MatchesAll ignores wait state", func(t *testing.T) {
		f := mustParse(t)
		assert.True(t, f.MatchesAll(tk, testNow))
	})

	t.Run("wait in the past is visible", func(t *testing.T) {
		past := testNow.Add(-time.Hour)
		tk := newTask(t, "Ready now")
		tk.Wait = &past
		assert.True(t, mustParse(t).Matches(tk, testNow))
	})
}
