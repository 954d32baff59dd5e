package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopCmd_ClearsActive(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "dig")
	require.NoError(t, err)
	_, err = execute(t, dataDir, "start", "1")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "stop", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped 1 task.")

	data, err := os.ReadFile(filepath.Join(dataDir, "pending.data"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"start":`)
}
