package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrependCmd_PrependsText(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "the plumber")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "prepend", "-m", "call", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Prepended to 1 task.")

	data, err := os.ReadFile(filepath.Join(dataDir, "pending.data"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description":"call the plumber"`)
}
