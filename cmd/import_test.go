package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCmd_FromFile(t *testing.T) {
	dataDir := t.TempDir()
	input := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(input, []byte(`[{"description":"imported"}]`), 0644))

	out, err := execute(t, dataDir, "import", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 task.")

	data, err := os.ReadFile(filepath.Join(dataDir, "pending.data"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description":"imported"`)
}

func TestImportCmd_FromStdin(t *testing.T) {
	dataDir := t.TempDir()

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"import", "--data", dataDir})
	cmd.SetIn(strings.NewReader(`{"description":"first"}` + "\n" + `{"description":"second"}`))

	var outBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&outBuf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, outBuf.String(), "Imported 2 tasks.")
}

func TestImportCmd_MissingFile(t *testing.T) {
	_, err := execute(t, t.TempDir(), "import", "no-such-file.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open import file")
}

func TestImportCmd_RoundTrip(t *testing.T) {
	source := t.TempDir()
	_, err := execute(t, source, "add", "travel", "project:Trip", "+plane", "due:+3d")
	require.NoError(t, err)

	exported, err := execute(t, source, "export")
	require.NoError(t, err)

	target := t.TempDir()
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"import", "--data", target})
	cmd.SetIn(strings.NewReader(exported))

	var outBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&outBuf)
	require.NoError(t, cmd.Execute())

	out, err := execute(t, target, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "travel")
}
