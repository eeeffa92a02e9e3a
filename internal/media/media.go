// Package media extracts container metadata and still frames from video files
// by shelling out to ffprobe and ffmpeg.
package media

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

var (
	// ErrProbeFailed indicates the container could not be read.
	ErrProbeFailed = errors.New("probe failed")

	// ErrNoFrame indicates no frame could be decoded at the requested time.
	ErrNoFrame = errors.New("no frame decoded")
)

// Info is the container metadata captured at import time.
type Info struct {
	DurationSeconds float64
	Width           int
	Height          int
	VideoCodec      string
	AudioStreams    int
}

// Prober reads container metadata.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// Thumbnailer decodes a single still frame.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, path string, at time.Duration) ([]byte, error)
}

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
