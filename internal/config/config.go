// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Library  LibraryConfig  `toml:"library"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Media    MediaConfig    `toml:"media"`
	Player   PlayerConfig   `toml:"player"`
}

type LibraryConfig struct {
	Root        string `toml:"root"`
	RecentLimit int    `toml:"recent_limit"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // empty logs to stderr
}

type MediaConfig struct {
	FFprobe      string        `toml:"ffprobe"`
	FFmpeg       string        `toml:"ffmpeg"`
	ProbeTimeout time.Duration `toml:"probe_timeout"`
	ThumbnailAt  time.Duration `toml:"thumbnail_at"`
}

type PlayerConfig struct {
	MPV                string        `toml:"mpv"`
	SampleInterval     time.Duration `toml:"sample_interval"`
	CheckpointInterval time.Duration `toml:"checkpoint_interval"`
	SkipSeconds        float64       `toml:"skip_seconds"`
}

// DataDir returns the XDG data directory for reelbox.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./data"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "reelbox")
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Library.Root == "" {
		c.Library.Root = filepath.Join(DataDir(), "videos")
	}
	if c.Library.RecentLimit == 0 {
		c.Library.RecentLimit = 10
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(DataDir(), "reelbox.db")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Media.FFprobe == "" {
		c.Media.FFprobe = "ffprobe"
	}
	if c.Media.FFmpeg == "" {
		c.Media.FFmpeg = "ffmpeg"
	}
	if c.Media.ProbeTimeout == 0 {
		c.Media.ProbeTimeout = 30 * time.Second
	}
	if c.Media.ThumbnailAt == 0 {
		c.Media.ThumbnailAt = time.Second
	}
	if c.Player.MPV == "" {
		c.Player.MPV = "mpv"
	}
	if c.Player.SampleInterval == 0 {
		c.Player.SampleInterval = 100 * time.Millisecond
	}
	if c.Player.CheckpointInterval == 0 {
		c.Player.CheckpointInterval = 5 * time.Second
	}
	if c.Player.SkipSeconds == 0 {
		c.Player.SkipSeconds = 15
	}
}

// Load reads, substitutes, parses and validates the configuration file.
// Unresolved variables and validation failures are reported as *ConfigError.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file with defaults
// applied, skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+strings.TrimSpace(arg))
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
