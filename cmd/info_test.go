package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoCmd_ShowsDetails(t *testing.T) {
	dataDir := t.TempDir()
	_, err := execute(t, dataDir, "add", "plant tulips", "project:Garden")
	require.NoError(t, err)

	out, err := execute(t, dataDir, "info", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "plant tulips")
	assert.Contains(t, out, "Garden")
	assert.Contains(t, out, "UUID")
}

func TestInfoCmd_NoArgs(t *testing.T) {
	_, err := execute(t, t.TempDir(), "info")
	assert.Error(t, err)
}
