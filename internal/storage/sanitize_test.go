package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Holiday 2023.mp4", "Holiday 2023.mp4"},
		{"path separators", "clips/beach\\day.mov", "clips beach day.mov"},
		{"path traversal", "../../../etc/passwd", "etc passwd"},
		{"double dots", "clip..final.mp4", "clip.final.mp4"},
		{"illegal chars", "Trip: <Day *1*>.mkv", "Trip Day 1 .mkv"},
		{"null bytes", "clip\x00.mp4", "clip.mp4"},
		{"leading/trailing", "  .clip.mp4.  ", "clip.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.want, got, "SanitizeFilename(%q)", tt.input)
		})
	}
}

func TestValidatePath(t *testing.T) {
	root := "/data/videos"

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid file", "/data/videos/clip.mp4", false},
		{"exact root", "/data/videos", false},
		{"traversal attempt", "/data/videos/../secrets.txt", true},
		{"outside root", "/data/other/clip.mp4", true},
		{"prefix sibling", "/data/videos2/clip.mp4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path, root)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPathTraversal)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsVideo(t *testing.T) {
	tests := []struct {
		mime string
		path string
		want bool
	}{
		{"video/mp4", "clip.bin", true},
		{"video/quicktime", "IMG_0001.MOV", true},
		{"application/octet-stream", "clip.MKV", true},
		{"text/plain; charset=utf-8", "notes.txt", false},
		{"audio/mp4", "song.m4a", false},
		{"image/png", "frame.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVideo(tt.mime, tt.path))
		})
	}
}
