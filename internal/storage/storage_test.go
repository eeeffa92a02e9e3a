package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemDir(t *testing.T) (*Dir, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0o755))
	return New(fs, "/library"), fs
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestDir_Import(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/src/beach.mp4", "fake video bytes")

	dst, size, err := dir.Import("/src/beach.mp4")
	require.NoError(t, err)

	assert.Equal(t, "/library/beach.mp4", dst)
	assert.Equal(t, int64(len("fake video bytes")), size)

	got, err := afero.ReadFile(fs, dst)
	require.NoError(t, err)
	assert.Equal(t, "fake video bytes", string(got))

	// Source is copied, never moved
	assert.True(t, dir.Exists("/src/beach.mp4"))
}

func TestDir_Import_CollisionFreeNames(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/src/a/clip.mp4", "first")
	writeFile(t, fs, "/src/b/clip.mp4", "second")
	writeFile(t, fs, "/src/c/clip.mp4", "third")

	first, _, err := dir.Import("/src/a/clip.mp4")
	require.NoError(t, err)
	second, _, err := dir.Import("/src/b/clip.mp4")
	require.NoError(t, err)
	third, _, err := dir.Import("/src/c/clip.mp4")
	require.NoError(t, err)

	assert.Equal(t, "/library/clip.mp4", first)
	assert.Equal(t, "/library/clip_1.mp4", second)
	assert.Equal(t, "/library/clip_2.mp4", third)

	// Earlier copies were not overwritten
	got, err := afero.ReadFile(fs, first)
	require.NoError(t, err)
	assert.Equal(t, "first", string(got))
}

func TestDir_Place_NoExtension(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/library/recording", "x")

	dst, err := dir.Place("recording")
	require.NoError(t, err)
	assert.Equal(t, "/library/recording_1", dst)
}

func TestDir_Place_EmptyName(t *testing.T) {
	dir, _ := newMemDir(t)

	dst, err := dir.Place("..")
	require.NoError(t, err)
	assert.Equal(t, "/library/video", dst)
}

func TestDir_Import_MissingSource(t *testing.T) {
	dir, _ := newMemDir(t)

	_, _, err := dir.Import("/src/missing.mp4")
	require.ErrorIs(t, err, ErrCopyFailed)
}

func TestDir_CopyFile_DestinationExists(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/src/clip.mp4", "new")
	writeFile(t, fs, "/library/clip.mp4", "old")

	_, err := dir.CopyFile("/src/clip.mp4", "/library/clip.mp4")
	require.ErrorIs(t, err, ErrDestinationExists)

	got, err := afero.ReadFile(fs, "/library/clip.mp4")
	require.NoError(t, err)
	assert.Equal(t, "old", string(got))
}

func TestDir_Remove(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/library/clip.mp4", "x")
	writeFile(t, fs, "/src/keep.mp4", "x")

	require.NoError(t, dir.Remove("/library/clip.mp4"))
	assert.False(t, dir.Exists("/library/clip.mp4"))

	err := dir.Remove("/src/keep.mp4")
	require.ErrorIs(t, err, ErrPathTraversal)
	assert.True(t, dir.Exists("/src/keep.mp4"))
}

func TestDir_Sniff(t *testing.T) {
	dir, fs := newMemDir(t)
	writeFile(t, fs, "/src/notes.txt", "just some plain text\n")

	mime, err := dir.Sniff("/src/notes.txt")
	require.NoError(t, err)
	assert.Contains(t, mime, "text/plain")
	assert.False(t, IsVideo(mime, "/src/notes.txt"))
}

func TestDir_Import_OSFilesystem(t *testing.T) {
	srcDir := t.TempDir()
	root := filepath.Join(t.TempDir(), "managed")
	src := filepath.Join(srcDir, "clip.mkv")
	require.NoError(t, os.WriteFile(src, []byte("content"), 0o644))

	dir := NewOS(root)
	dst, size, err := dir.Import(src)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "clip.mkv"), dst)
	assert.Equal(t, int64(7), size)
	_, err = os.Stat(dst)
	assert.NoError(t, err)
}
