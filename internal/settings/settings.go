// Package settings persists user preferences in the SQLite settings table.
package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Keys in the settings table.
const (
	KeyDefaultPlaybackSpeed = "default_playback_speed"
	KeyAutoPlayNext         = "auto_play_next"
	KeyRememberPosition     = "remember_position"
	KeyShowThumbnails       = "show_thumbnails"
)

// ErrUnknownKey indicates a key outside the known settings.
var ErrUnknownKey = errors.New("unknown setting")

// ErrInvalidValue indicates a value that cannot be parsed for its key.
var ErrInvalidValue = errors.New("invalid setting value")

// AvailableSpeeds are the playback multipliers offered to the user.
var AvailableSpeeds = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0}

// Settings holds user preferences.
type Settings struct {
	DefaultPlaybackSpeed float64
	AutoPlayNext         bool
	RememberPosition     bool
	ShowThumbnails       bool
}

// Defaults returns the settings used when nothing is stored.
func Defaults() Settings {
	return Settings{
		DefaultPlaybackSpeed: 1.0,
		ShowThumbnails:       true,
	}
}

// SpeedLabel formats a multiplier for display.
func SpeedLabel(speed float64) string {
	if speed == 1.0 {
		return "Normal"
	}
	return strconv.FormatFloat(speed, 'f', 2, 64) + "x"
}

// Keys lists the known setting keys in display order.
func Keys() []string {
	return []string{KeyDefaultPlaybackSpeed, KeyAutoPlayNext, KeyRememberPosition, KeyShowThumbnails}
}

// Store reads and writes settings.
type Store struct {
	db *sql.DB
}

// NewStore creates a settings store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load returns the stored settings with defaults for missing keys.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	out := Defaults()

	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return out, fmt.Errorf("load settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return out, fmt.Errorf("scan setting: %w", err)
		}
		// Unknown or unparsable rows fall back to defaults
		_ = out.apply(key, value)
	}
	if err := rows.Err(); err != nil {
		return out, fmt.Errorf("iterate settings: %w", err)
	}
	return out, nil
}

// Save writes every field of st.
func (s *Store) Save(ctx context.Context, st Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, key := range Keys() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, st.value(key), now,
		); err != nil {
			return fmt.Errorf("save setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Set parses and stores a single key.
func (s *Store) Set(ctx context.Context, key, value string) (Settings, error) {
	st, err := s.Load(ctx)
	if err != nil {
		return st, err
	}
	if err := st.apply(key, value); err != nil {
		return st, err
	}
	if err := s.Save(ctx, st); err != nil {
		return st, err
	}
	return st, nil
}

// Reset removes all stored settings so defaults apply.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM settings"); err != nil {
		return fmt.Errorf("reset settings: %w", err)
	}
	return nil
}

// DefaultPlaybackSpeed is the single read a playback session makes at open.
// A stored speed of zero or less, or one that is not finite, reads as 1.0.
func (s *Store) DefaultPlaybackSpeed(ctx context.Context) (float64, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", KeyDefaultPlaybackSpeed).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 1.0, nil
	}
	if err != nil {
		return 1.0, fmt.Errorf("read playback speed: %w", err)
	}
	speed, err := strconv.ParseFloat(value, 64)
	if err != nil || !(speed > 0) || math.IsInf(speed, 1) {
		return 1.0, nil
	}
	return speed, nil
}

// Value returns the display value of key.
func (st Settings) Value(key string) (string, error) {
	switch key {
	case KeyDefaultPlaybackSpeed, KeyAutoPlayNext, KeyRememberPosition, KeyShowThumbnails:
		return st.value(key), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

func (st Settings) value(key string) string {
	switch key {
	case KeyDefaultPlaybackSpeed:
		return strconv.FormatFloat(st.DefaultPlaybackSpeed, 'f', -1, 64)
	case KeyAutoPlayNext:
		return strconv.FormatBool(st.AutoPlayNext)
	case KeyRememberPosition:
		return strconv.FormatBool(st.RememberPosition)
	case KeyShowThumbnails:
		return strconv.FormatBool(st.ShowThumbnails)
	}
	return ""
}

func (st *Settings) apply(key, value string) error {
	switch key {
	case KeyDefaultPlaybackSpeed:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		if v == 0 {
			v = 1.0
		}
		st.DefaultPlaybackSpeed = v
	case KeyAutoPlayNext, KeyRememberPosition, KeyShowThumbnails:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidValue, key, value)
		}
		switch key {
		case KeyAutoPlayNext:
			st.AutoPlayNext = v
		case KeyRememberPosition:
			st.RememberPosition = v
		default:
			st.ShowThumbnails = v
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}
