// Package library manages the video collection: imported files, their
// metadata, and per-video playback history.
package library

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Video is one imported video file.
type Video struct {
	ID                  uuid.UUID
	Title               string
	Path                string // locator in managed storage
	DurationSeconds     float64
	SizeBytes           int64
	Thumbnail           []byte // PNG, nil when generation failed
	MimeType            string
	AddedAt             time.Time
	IsFavorite          bool
	LastPositionSeconds float64
	ViewCount           int64
	LastWatchedAt       *time.Time
}

// Clone returns a deep copy of v.
func (v *Video) Clone() *Video {
	if v == nil {
		return nil
	}
	c := *v
	if v.Thumbnail != nil {
		c.Thumbnail = append([]byte(nil), v.Thumbnail...)
	}
	if v.LastWatchedAt != nil {
		t := *v.LastWatchedAt
		c.LastWatchedAt = &t
	}
	return &c
}

// HasThumbnail reports whether a thumbnail was captured at import.
func (v *Video) HasThumbnail() bool {
	return len(v.Thumbnail) > 0
}

// ClampPosition bounds seconds to [0, duration]. Videos with an unknown
// duration are only bounded below. NaN reads as 0 and infinities take the
// nearest finite bound.
func (v *Video) ClampPosition(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	if v.DurationSeconds > 0 && seconds > v.DurationSeconds {
		return v.DurationSeconds
	}
	if math.IsInf(seconds, 1) {
		return 0
	}
	return seconds
}
