package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var videoExtensions = map[string]bool{
	".mkv": true, ".mp4": true, ".m4v": true, ".mov": true, ".avi": true,
	".wmv": true, ".webm": true, ".ts": true, ".mpg": true, ".mpeg": true,
	".3gp": true,
}

// IsVideoFile reports whether path has a known video extension.
func IsVideoFile(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsVideo accepts a sniffed video MIME type, or falls back to the file
// extension when the container was not recognised.
func IsVideo(mime, path string) bool {
	if strings.HasPrefix(mime, "video/") {
		return true
	}
	return IsVideoFile(path)
}

// Sniff detects the MIME type of src from its leading bytes.
func (d *Dir) Sniff(src string) (string, error) {
	f, err := d.fs.Open(src)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = f.Close() }()

	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect type of %s: %w", src, err)
	}
	return m.String(), nil
}
