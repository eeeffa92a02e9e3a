package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullWorkflow(t *testing.T) {
	tmp := t.TempDir()

	cfgPath := filepath.Join(tmp, "reelbox", "config.toml")
	require.NoError(t, WriteDefault(cfgPath))

	t.Setenv("REELBOX_LIBRARY", filepath.Join(tmp, "videos"))
	t.Setenv("REELBOX_DB", "")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmp, "videos"), cfg.Library.Root)
	assert.Equal(t, "./data/reelbox.db", cfg.Database.Path)
	assert.Equal(t, 10, cfg.Library.RecentLimit)
	assert.Equal(t, 30*time.Second, cfg.Media.ProbeTimeout)
	assert.Equal(t, 5*time.Second, cfg.Player.CheckpointInterval)
	assert.Empty(t, cfg.Log.File)
}
