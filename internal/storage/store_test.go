package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarlson/taskline/internal/task"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data"))
	require.NoError(t, err)
	return s
}

func newTestTask(t *testing.T, description string, id int) *task.Task {
	t.Helper()
	now := time.Date(2026, 2, 17, 9, 0, 0, 0, time.UTC)
	tk := task.New(description, now)
	tk.ID = id
	return tk
}

func TestNewStore(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		_, err := NewStore(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("fails when path is a file", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "file")
		require.NoError(t, os.WriteFile(filePath, []byte("content"), 0644))

		_, err := NewStore(filePath)
		assert.Error(t, err)
	})
}

func TestSaveAndLoad(t *testing.T) {
	t.Run("round-trips pending tasks in order", func(t *testing.T) {
		s := newTestStore(t)
		tasks := []*task.Task{
			newTestTask(t, "first", 1),
			newTestTask(t, "second", 2),
		}

		require.NoError(t, s.SavePending(tasks))

		loaded, err := s.LoadPending()
		require.NoError(t, err)
		assert.Equal(t, tasks, loaded)
	})

	t.Run("missing file loads as empty", func(t *testing.T) {
		s := newTestStore(t)
		loaded, err := s.LoadPending()
		require.NoError(t, err)
		assert.Empty(t, loaded)
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		s := newTestStore(t)
		tk := newTestTask(t, "only", 1)
		require.NoError(t, s.SavePending([]*task.Task{tk}))

		path := filepath.Join(s.Dir(), PendingFile)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, append([]byte("\n\n"), append(data, '\n')...), 0644))

		loaded, err := s.LoadPending()
		require.NoError(t, err)
		require.Len(t, loaded, 1)
		assert.Equal(t, "only", loaded[0].Description)
	})

	t.Run("malformed line names file and line", func(t *testing.T) {
		s := newTestStore(t)
		tk := newTestTask(t, "good", 1)
		require.NoError(t, s.SavePending([]*task.Task{tk}))

		path := filepath.Join(s.Dir(), PendingFile)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, append(data, []byte("{broken\n")...), 0644))

		_, err = s.LoadPending()
		require.Error(t, err)

		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, path, parseErr.File)
		assert.Equal(t, 2, parseErr.Line)
	})

	t.Run("completed partition is separate", func(t *testing.T) {
		s := newTestStore(t)
		done := newTestTask(t, "done", 0)
		done.Close(task.StatusCompleted, time.Now())

		require.NoError(t, s.SaveCompleted([]*task.Task{done}))
		require.NoError(t, s.SavePending([]*task.Task{newTestTask(t, "open", 1)}))

		completed, err := s.LoadCompleted()
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, task.StatusCompleted, completed[0].Status)

		pending, err := s.LoadPending()
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, task.StatusPending, pending[0].Status)
	})
}

func TestAtomicSave(t *testing.T) {
	t.Run("failed rename leaves original untouched", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.SavePending([]*task.Task{newTestTask(t, "original", 1)}))

		path := filepath.Join(s.Dir(), PendingFile)
		before, err := os.ReadFile(path)
		require.NoError(t, err)

		renameFile = func(oldpath, newpath string) error {
			return errors.New("simulated crash before rename")
		}
		defer func() { renameFile = os.Rename }()

		err = s.SavePending([]*task.Task{newTestTask(t, "replacement", 2)})
		require.Error(t, err)

		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("no temporary files left behind", func(t *testing.T) {
		s := newTestStore(t)
		require.NoError(t, s.SavePending([]*task.Task{newTestTask(t, "x", 1)}))

		entries, err := os.ReadDir(s.Dir())
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), ".tmp-")
		}
	})
}

func TestNextID(t *testing.T) {
	t.Run("empty set starts at one", func(t *testing.T) {
		s := newTestStore(t)
		assert.Equal(t, 1, s.NextID(nil))
	})

	t.Run("one past the highest", func(t *testing.T) {
		s := newTestStore(t)
		pending := []*task.Task{
			newTestTask(t, "a", 1),
			newTestTask(t, "b", 5),
			newTestTask(t, "c", 3),
		}
		assert.Equal(t, 6, s.NextID(pending))
	})

	t.Run("not reused within a session", func(t *testing.T) {
		s := newTestStore(t)
		pending := []*task.Task{newTestTask(t, "a", 1)}
		assert.Equal(t, 2, s.NextID(pending))

		// The task with ID 2 completed; the pending set shrank back.
		assert.Equal(t, 3, s.NextID(pending))
	})
}

func TestUndo(t *testing.T) {
	t.Run("push then pop returns the snapshot", func(t *testing.T) {
		s := newTestStore(t)
		pending := []*task.Task{newTestTask(t, "p", 1)}
		completed := []*task.Task{newTestTask(t, "c", 0)}
		completed[0].Close(task.StatusCompleted, time.Date(2026, 2, 17, 10, 0, 0, 0, time.UTC))

		require.NoError(t, s.PushUndo(pending, completed, 0))

		snap, ok, err := s.PopUndo()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, pending, snap.Pending)
		assert.Equal(t, completed, snap.Completed)
	})

	t.Run("pop on empty log is a no-op", func(t *testing.T) {
		s := newTestStore(t)
		snap, ok, err := s.PopUndo()
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, snap)
	})

	t.Run("pops in reverse push order", func(t *testing.T) {
		s := newTestStore(t)
		first := []*task.Task{newTestTask(t, "first", 1)}
		second := []*task.Task{newTestTask(t, "second", 2)}

		require.NoError(t, s.PushUndo(first, nil, 0))
		require.NoError(t, s.PushUndo(second, nil, 0))

		snap, ok, err := s.PopUndo()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "second", snap.Pending[0].Description)

		snap, ok, err = s.PopUndo()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "first", snap.Pending[0].Description)

		_, ok, err = s.PopUndo()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("limit drops the oldest entries", func(t *testing.T) {
		s := newTestStore(t)
		for i := 1; i <= 4; i++ {
			pending := []*task.Task{newTestTask(t, "entry", i)}
			require.NoError(t, s.PushUndo(pending, nil, 2))
		}

		depth, err := s.UndoDepth()
		require.NoError(t, err)
		assert.Equal(t, 2, depth)

		snap, ok, err := s.PopUndo()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 4, snap.Pending[0].ID)
	})
}
