package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoneCmd_CompletesTask(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "finish the report")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "done", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Completed 1 task.")

	pending, err := os.ReadFile(filepath.Join(dataDir, "pending.data"))
	require.NoError(t, err)
	assert.NotContains(t, string(pending), "finish the report")

	completed, err := os.ReadFile(filepath.Join(dataDir, "completed.data"))
	require.NoError(t, err)
	assert.Contains(t, string(completed), "finish the report")
}

func TestDoneCmd_NoArgs(t *testing.T) {
	_, err := execute(t, t.TempDir(), "done")
	assert.Error(t, err)
}
