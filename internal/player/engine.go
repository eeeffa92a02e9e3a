// Package player drives a media engine for one video at a time and writes the
// playback history back to the library.
package player

//go:generate mockgen -destination=mocks/mock_player.go -package=mocks . Engine,Recorder,SpeedProvider

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrInvalidSpeed indicates a playback speed that is not a positive
	// finite number.
	ErrInvalidSpeed = errors.New("playback speed must be positive")

	// ErrNotFinite indicates a NaN or infinite position or level.
	ErrNotFinite = errors.New("value must be a finite number")

	// ErrNotLoaded indicates the media failed to open.
	ErrNotLoaded = errors.New("media not loaded")

	// ErrClosed indicates the session has ended.
	ErrClosed = errors.New("session closed")
)

// Engine is the media playback capability. Implementations must be safe for
// concurrent use; the session polls Position from its sampler goroutine.
type Engine interface {
	// Open loads the media at locator, paused at the start.
	Open(ctx context.Context, locator string) error
	// SetRate sets the playback rate; 0 pauses.
	SetRate(rate float64) error
	Seek(seconds float64) error
	// SetVolume sets the output level in [0, 1].
	SetVolume(level float64) error
	Position() (float64, error)
	// Duration blocks until the container reports its duration.
	Duration(ctx context.Context) (float64, error)
	Close() error
}

// Recorder receives playback history.
type Recorder interface {
	RecordViewStart(ctx context.Context, id uuid.UUID) error
	RecordPlaybackPosition(ctx context.Context, id uuid.UUID, seconds float64) error
}

// SpeedProvider supplies the initial playback speed of a session.
type SpeedProvider interface {
	DefaultPlaybackSpeed(ctx context.Context) (float64, error)
}
