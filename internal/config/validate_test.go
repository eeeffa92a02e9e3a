package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Defaults(t *testing.T) {
	assert.Empty(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"missing root", func(c *Config) { c.Library.Root = "" }, "library.root"},
		{"negative recent limit", func(c *Config) { c.Library.RecentLimit = -1 }, "library.recent_limit"},
		{"missing database", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"negative probe timeout", func(c *Config) { c.Media.ProbeTimeout = -time.Second }, "media.probe_timeout"},
		{"negative thumbnail offset", func(c *Config) { c.Media.ThumbnailAt = -time.Second }, "media.thumbnail_at"},
		{"sample interval too small", func(c *Config) { c.Player.SampleInterval = time.Millisecond }, "player.sample_interval"},
		{"negative checkpoint", func(c *Config) { c.Player.CheckpointInterval = -time.Second }, "player.checkpoint_interval"},
		{"negative skip", func(c *Config) { c.Player.SkipSeconds = -5 }, "player.skip_seconds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)

			errs := cfg.Validate()
			if assert.Len(t, errs, 1) {
				assert.Contains(t, errs[0], tt.want)
			}
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Library.Root = ""
	cfg.Database.Path = ""
	cfg.Log.Level = "loud"

	assert.Len(t, cfg.Validate(), 3)
}
