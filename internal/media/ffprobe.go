package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FFprobe reads metadata with the ffprobe CLI.
type FFprobe struct {
	Binary  string
	Timeout time.Duration
	Run     CommandRunner
}

// NewFFprobe constructs a Prober that shells out to ffprobe.
func NewFFprobe(binary string, timeout time.Duration) *FFprobe {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &FFprobe{
		Binary:  binary,
		Timeout: timeout,
		Run:     defaultCommandRunner,
	}
}

// Probe runs ffprobe against path and parses its JSON report.
func (p *FFprobe) Probe(ctx context.Context, path string) (Info, error) {
	run := p.Run
	if run == nil {
		run = defaultCommandRunner
	}

	probeCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		"-i", path,
	}

	out, err := run(probeCtx, p.Binary, args...)
	if err != nil {
		return Info{}, fmt.Errorf("%w: ffprobe execution: %v", ErrProbeFailed, err)
	}
	return parseProbeOutput(out)
}

// parseProbeOutput parses the JSON output from ffprobe -show_format -show_streams.
func parseProbeOutput(output []byte) (Info, error) {
	var probeData struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
			Duration  string `json:"duration"`
		} `json:"streams"`
	}

	if err := json.Unmarshal(output, &probeData); err != nil {
		return Info{}, fmt.Errorf("%w: parse ffprobe output: %v", ErrProbeFailed, err)
	}

	var info Info
	info.DurationSeconds = parseSeconds(probeData.Format.Duration)

	for _, s := range probeData.Streams {
		switch s.CodecType {
		case "video":
			if info.VideoCodec != "" {
				continue
			}
			info.VideoCodec = s.CodecName
			info.Width = s.Width
			info.Height = s.Height
			// Some containers only carry duration on the stream
			if info.DurationSeconds == 0 {
				info.DurationSeconds = parseSeconds(s.Duration)
			}
		case "audio":
			info.AudioStreams++
		}
	}

	if info.VideoCodec == "" {
		return Info{}, fmt.Errorf("%w: no video stream", ErrProbeFailed)
	}
	return info, nil
}

func parseSeconds(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
