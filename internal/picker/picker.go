// Package picker provides import sources that yield at most one local file.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotRegular indicates the picked path is a directory or special file.
var ErrNotRegular = errors.New("not a regular file")

// Source yields zero or one readable local file path. ok is false when the
// user cancelled.
type Source interface {
	Pick(ctx context.Context) (path string, ok bool, err error)
}

// PathSource picks a file already on the local filesystem.
type PathSource struct {
	Path string
}

// Pick returns the configured path. An empty path means the pick was cancelled.
func (s PathSource) Pick(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p := strings.TrimSpace(s.Path)
	if p == "" {
		return "", false, nil
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false, fmt.Errorf("resolve %s: %w", p, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", false, fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return "", false, fmt.Errorf("%s: %w", abs, ErrNotRegular)
	}
	return abs, true, nil
}

// StreamSource materializes a transient stream into a temporary file, the way
// a photo library hands over an asset. Close removes the temporary file.
type StreamSource struct {
	Reader io.Reader
	// Name is the suggested file name, used for the title and extension.
	Name string
	// Dir is where the temporary file is created; empty uses os.TempDir.
	Dir string

	tmpDir string
}

// Pick copies the stream into a temporary file named after Name. A stream
// that yields no bytes counts as a cancelled pick.
func (s *StreamSource) Pick(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if s.Reader == nil {
		return "", false, nil
	}

	dir, err := os.MkdirTemp(s.Dir, "reelbox-pick-*")
	if err != nil {
		return "", false, fmt.Errorf("create temp dir: %w", err)
	}
	s.tmpDir = dir

	name := filepath.Base(strings.TrimSpace(s.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "video"
	}
	dst := filepath.Join(dir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", false, fmt.Errorf("create %s: %w", dst, err)
	}

	n, err := io.Copy(f, contextReader{ctx: ctx, r: s.Reader})
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", false, fmt.Errorf("copy stream: %w", err)
	}
	if n == 0 {
		return "", false, nil
	}
	return dst, true, nil
}

// Close removes the temporary file created by Pick.
func (s *StreamSource) Close() error {
	if s.tmpDir == "" {
		return nil
	}
	dir := s.tmpDir
	s.tmpDir = ""
	return os.RemoveAll(dir)
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
