package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteCmd_MarksDeleted(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "obsolete item")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 task.")

	completed, err := os.ReadFile(filepath.Join(dataDir, "completed.data"))
	require.NoError(t, err)
	assert.Contains(t, string(completed), `"status":"deleted"`)
}

func TestDeleteCmd_AlreadyDeleted(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "gone")
	require.NoError(t, err)
	_, err = execute(t, dataDir, "delete", "1")
	require.NoError(t, err)

	_, err = execute(t, dataDir, "delete", "status:deleted")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already deleted")
}
