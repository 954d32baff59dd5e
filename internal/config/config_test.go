package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ".taskline"), cfg.Data.Dir)
	assert.True(t, cfg.Hooks.Enabled)
	assert.Zero(t, cfg.Undo.Limit)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `data:
  dir: /tmp/elsewhere
timezone: Europe/Amsterdam
hooks:
  enabled: false
undo:
  limit: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taskline.yaml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/elsewhere", cfg.Data.Dir)
	assert.False(t, cfg.Hooks.Enabled)
	assert.Equal(t, 10, cfg.Undo.Limit)
	assert.Equal(t, "Europe/Amsterdam", cfg.Location().String())
}

func TestLoadFromPath(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.True(t, cfg.Hooks.Enabled)
	})

	t.Run("reads the named file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(path, []byte("undo:\n  limit: 3\n"), 0644))

		cfg, err := LoadFromPath(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.Undo.Limit)
	})
}

func TestTimezoneResolution(t *testing.T) {
	t.Run("environment override wins", func(t *testing.T) {
		t.Setenv(TimezoneEnv, "America/New_York")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taskline.yaml"),
			[]byte("timezone: Europe/Amsterdam\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "America/New_York", cfg.Location().String())
	})

	t.Run("unparseable override falls through to config", func(t *testing.T) {
		t.Setenv(TimezoneEnv, "Not/AZone")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taskline.yaml"),
			[]byte("timezone: Europe/Amsterdam\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Amsterdam", cfg.Location().String())
	})

	t.Run("everything unparseable is silently UTC", func(t *testing.T) {
		t.Setenv(TimezoneEnv, "Not/AZone")

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "taskline.yaml"),
			[]byte("timezone: Also/Broken\n"), 0644))

		cfg, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, cfg.Location())
	})

	t.Run("zero config is UTC", func(t *testing.T) {
		cfg := &Config{}
		assert.Equal(t, time.UTC, cfg.Location())
	})
}
