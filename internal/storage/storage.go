// Package storage manages the application-private directory that imported
// videos are copied into and deleted from.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// maxPlaceAttempts bounds the suffix search for a free file name.
const maxPlaceAttempts = 10000

// Dir is a managed storage directory.
type Dir struct {
	fs   afero.Fs
	root string
}

// New creates a managed directory rooted at root on fs.
func New(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: filepath.Clean(root)}
}

// NewOS creates a managed directory on the local filesystem.
func NewOS(root string) *Dir {
	return New(afero.NewOsFs(), root)
}

// Root returns the managed directory path.
func (d *Dir) Root() string { return d.root }

// Ensure creates the managed directory if needed.
func (d *Dir) Ensure() error {
	if err := d.fs.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Place returns a destination path for name that does not collide with an
// existing file. "clip.mp4" becomes "clip_1.mp4", "clip_2.mp4", ... while
// taken.
func (d *Dir) Place(name string) (string, error) {
	name = SanitizeFilename(name)
	if name == "" {
		name = "video"
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	candidate := filepath.Join(d.root, name)
	for i := 1; i <= maxPlaceAttempts; i++ {
		exists, err := afero.Exists(d.fs, candidate)
		if err != nil {
			return "", fmt.Errorf("%w: stat %s: %v", ErrUnavailable, candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = filepath.Join(d.root, fmt.Sprintf("%s_%d%s", stem, i, ext))
	}
	return "", fmt.Errorf("no free name for %q after %d attempts", name, maxPlaceAttempts)
}

// Import copies src into the managed directory under a collision-free name.
// Returns the destination path and the number of bytes copied.
func (d *Dir) Import(src string) (string, int64, error) {
	if err := d.Ensure(); err != nil {
		return "", 0, err
	}
	for {
		dst, err := d.Place(filepath.Base(src))
		if err != nil {
			return "", 0, err
		}
		size, err := d.CopyFile(src, dst)
		if errors.Is(err, ErrDestinationExists) {
			// Lost a race with another writer; pick the next name.
			continue
		}
		if err != nil {
			return "", 0, err
		}
		return dst, size, nil
	}
}

// CopyFile copies a file from src to dst.
// Creates destination directory if it doesn't exist.
// Returns ErrDestinationExists if dst already exists.
func (d *Dir) CopyFile(src, dst string) (int64, error) {
	if err := d.fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("%w: create directory: %v", ErrCopyFailed, err)
	}

	srcFile, err := d.fs.Open(src)
	if err != nil {
		return 0, fmt.Errorf("%w: open source: %v", ErrCopyFailed, err)
	}
	defer func() { _ = srcFile.Close() }()

	dstFile, err := d.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, ErrDestinationExists
		}
		return 0, fmt.Errorf("%w: create destination: %v", ErrCopyFailed, err)
	}
	defer func() { _ = dstFile.Close() }()

	size, err := io.Copy(dstFile, srcFile)
	if err != nil {
		// Clean up partial file on error
		_ = d.fs.Remove(dst)
		return 0, fmt.Errorf("%w: copy content: %v", ErrCopyFailed, err)
	}

	if err := dstFile.Sync(); err != nil {
		_ = d.fs.Remove(dst)
		return 0, fmt.Errorf("%w: sync: %v", ErrCopyFailed, err)
	}

	return size, nil
}

// Remove deletes a file inside the managed directory.
func (d *Dir) Remove(path string) error {
	if err := ValidatePath(path, d.root); err != nil {
		return err
	}
	return d.fs.Remove(path)
}

// Exists reports whether path exists.
func (d *Dir) Exists(path string) bool {
	ok, err := afero.Exists(d.fs, path)
	return err == nil && ok
}

// Size returns the size in bytes of path.
func (d *Dir) Size(path string) (int64, error) {
	fi, err := d.fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
