package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCmd_Structure(t *testing.T) {
	cmd := newAddCmd()

	assert.Equal(t, "add <description and field tokens>...", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestAddCmd_CreatesTask(t *testing.T) {
	dataDir := t.TempDir()

	out, err := execute(t, dataDir, "add", "buy", "milk", "project:Home", "+errand")
	require.NoError(t, err)
	assert.Contains(t, out, "Created task 1.")

	data, err := os.ReadFile(filepath.Join(dataDir, "pending.data"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description":"buy milk"`)
	assert.Contains(t, string(data), `"project":"Home"`)
}

func TestAddCmd_NoArgs(t *testing.T) {
	_, err := execute(t, t.TempDir(), "add")
	assert.Error(t, err)
}

func TestAddCmd_BadDateExpression(t *testing.T) {
	_, err := execute(t, t.TempDir(), "add", "x", "due:whenever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "due")
}
