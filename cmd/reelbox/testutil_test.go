package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/config"
	"github.com/vmunix/reelbox/internal/media"
)

type stubProber struct{}

func (stubProber) Probe(context.Context, string) (media.Info, error) {
	return media.Info{DurationSeconds: 95, Width: 1280, Height: 720, VideoCodec: "h264"}, nil
}

type stubThumbnailer struct{}

func (stubThumbnailer) Thumbnail(context.Context, string, time.Duration) ([]byte, error) {
	return []byte("\x89PNG\r\n\x1a\nthumb"), nil
}

// setupCLI writes a config pointing at temp storage and stubs the media tools.
func setupCLI(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	cfg := config.Default()
	cfg.Library.Root = filepath.Join(tmp, "videos")
	cfg.Database.Path = filepath.Join(tmp, "reelbox.db")
	cfg.Log.Level = "error"
	cfgPath := filepath.Join(tmp, "config.toml")
	require.NoError(t, cfg.Write(cfgPath))

	prev := appOptions
	appOptions = app.Options{Stderr: io.Discard, Prober: stubProber{}, Thumbnailer: stubThumbnailer{}}
	t.Cleanup(func() { appOptions = prev })

	return cfgPath
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and stdin, returning combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, "", args...)
	require.NoError(t, err, out)
	return out
}

// mp4Header returns the leading bytes of an ISO base media file.
func mp4Header() []byte {
	return []byte{
		0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p',
		'm', 'p', '4', '2', 0x00, 0x00, 0x00, 0x00,
		'm', 'p', '4', '2', 'i', 's', 'o', 'm',
	}
}

func writeVideo(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, mp4Header(), 0644))
	return path
}

// importVideo imports a new file called name and returns its record.
func importVideo(t *testing.T, cfgPath, name string) videoView {
	t.Helper()
	out := mustExecute(t, "--config", cfgPath, "--json", "import", writeVideo(t, name))

	var v videoView
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}
