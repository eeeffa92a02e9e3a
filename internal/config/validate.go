package config

import (
	"fmt"
	"time"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

const minSampleInterval = 10 * time.Millisecond

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Library.Root == "" {
		errs = append(errs, "library.root: required")
	}
	if c.Library.RecentLimit < 0 {
		errs = append(errs, fmt.Sprintf("library.recent_limit: must not be negative, got %d", c.Library.RecentLimit))
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Media.ProbeTimeout < 0 {
		errs = append(errs, fmt.Sprintf("media.probe_timeout: must be positive, got %s", c.Media.ProbeTimeout))
	}
	if c.Media.ThumbnailAt < 0 {
		errs = append(errs, fmt.Sprintf("media.thumbnail_at: must not be negative, got %s", c.Media.ThumbnailAt))
	}

	if c.Player.SampleInterval != 0 && c.Player.SampleInterval < minSampleInterval {
		errs = append(errs, fmt.Sprintf("player.sample_interval: must be at least %s, got %s", minSampleInterval, c.Player.SampleInterval))
	}
	if c.Player.CheckpointInterval < 0 {
		errs = append(errs, fmt.Sprintf("player.checkpoint_interval: must be positive, got %s", c.Player.CheckpointInterval))
	}
	if c.Player.SkipSeconds < 0 {
		errs = append(errs, fmt.Sprintf("player.skip_seconds: must be positive, got %v", c.Player.SkipSeconds))
	}

	return errs
}
