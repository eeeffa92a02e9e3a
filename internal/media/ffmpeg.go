package media

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxThumbnailSize bounds both thumbnail dimensions in pixels.
const MaxThumbnailSize = 300

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// FFmpeg renders thumbnails with the ffmpeg CLI.
type FFmpeg struct {
	Binary  string
	Timeout time.Duration
	Run     CommandRunner
}

// NewFFmpeg constructs a Thumbnailer that shells out to ffmpeg.
func NewFFmpeg(binary string, timeout time.Duration) *FFmpeg {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFmpeg{
		Binary:  binary,
		Timeout: timeout,
		Run:     defaultCommandRunner,
	}
}

// Thumbnail decodes the frame at the given offset and returns it PNG-encoded,
// scaled to fit within MaxThumbnailSize on both axes.
func (f *FFmpeg) Thumbnail(ctx context.Context, path string, at time.Duration) ([]byte, error) {
	run := f.Run
	if run == nil {
		run = defaultCommandRunner
	}
	if at < 0 {
		at = 0
	}

	execCtx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	size := strconv.Itoa(MaxThumbnailSize)
	args := []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(at.Seconds(), 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-vf", "scale=w=" + size + ":h=" + size + ":force_original_aspect_ratio=decrease",
		"-f", "image2pipe",
		"-vcodec", "png",
		"pipe:1",
	}

	out, err := run(execCtx, f.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg execution: %w", err)
	}
	if !bytes.HasPrefix(out, pngSignature) {
		return nil, ErrNoFrame
	}
	return out, nil
}

// ThumbnailOffset picks the frame offset for a clip: the preferred offset, or
// the midpoint when the clip is shorter than that.
func ThumbnailOffset(preferred time.Duration, durationSeconds float64) time.Duration {
	if durationSeconds <= 0 {
		return preferred
	}
	total := time.Duration(durationSeconds * float64(time.Second))
	if preferred >= total {
		return total / 2
	}
	return preferred
}
