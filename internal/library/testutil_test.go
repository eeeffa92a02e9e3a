package library

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/media"
	"github.com/vmunix/reelbox/internal/migrations"
	"github.com/vmunix/reelbox/internal/storage"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "library.db")+"?_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := migrations.Up(db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return db
}

type fakeProber struct {
	info  media.Info
	err   error
	calls int
}

func (p *fakeProber) Probe(ctx context.Context, path string) (media.Info, error) {
	p.calls++
	return p.info, p.err
}

type fakeThumbnailer struct {
	data []byte
	err  error
	at   time.Duration
}

func (f *fakeThumbnailer) Thumbnail(ctx context.Context, path string, at time.Duration) ([]byte, error) {
	f.at = at
	return f.data, f.err
}

// stepClock advances one minute per reading.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

type testEnv struct {
	db      *sql.DB
	fs      afero.Fs
	dir     *storage.Dir
	prober  *fakeProber
	thumbs  *fakeThumbnailer
	bus     *events.Bus
	events  <-chan events.Event
	clock   *stepClock
	manager *Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	fs := afero.NewMemMapFs()
	dir := storage.New(fs, "/library")

	env := &testEnv{
		db:     db,
		fs:     fs,
		dir:    dir,
		prober: &fakeProber{info: media.Info{DurationSeconds: 120, VideoCodec: "h264"}},
		thumbs: &fakeThumbnailer{data: []byte("\x89PNG\r\n\x1a\nthumb")},
		bus:    events.NewBus(nil, nil),
		clock:  &stepClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)},
	}
	env.events = env.bus.SubscribeAll(64)
	t.Cleanup(func() { _ = env.bus.Close() })

	env.manager = NewManager(ManagerConfig{
		Store:       NewStore(db),
		Files:       dir,
		Prober:      env.prober,
		Thumbnailer: env.thumbs,
		Bus:         env.bus,
		Now:         env.clock.Now,
	})
	require.NoError(t, env.manager.Refresh(context.Background()))
	return env
}

// source writes a file outside managed storage and returns its path.
func (e *testEnv) source(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join("/incoming", name)
	require.NoError(t, afero.WriteFile(e.fs, path, []byte(content), 0644))
	return path
}

func (e *testEnv) importVideo(t *testing.T, name string) *Video {
	t.Helper()
	v, err := e.manager.Import(context.Background(), e.source(t, name, "video data for "+name))
	require.NoError(t, err)
	return v
}

// drain returns the events published so far.
func (e *testEnv) drain() []events.Event {
	var out []events.Event
	for {
		select {
		case ev := <-e.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func newVideo(title string, added time.Time) *Video {
	return &Video{
		ID:      uuid.New(),
		Title:   title,
		Path:    "/library/" + title + ".mp4",
		AddedAt: added,
	}
}

func ptr[T any](v T) *T {
	return &v
}
