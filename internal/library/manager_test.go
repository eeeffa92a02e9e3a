package library

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/media"
	"github.com/vmunix/reelbox/internal/picker"
)

func TestManager_Import(t *testing.T) {
	env := newTestEnv(t)

	v := env.importVideo(t, "Beach Day.mp4")

	assert.NotEqual(t, uuid.Nil, v.ID)
	assert.Equal(t, "Beach Day", v.Title)
	assert.Equal(t, "/library/Beach Day.mp4", v.Path)
	assert.Equal(t, 120.0, v.DurationSeconds)
	assert.Equal(t, int64(len("video data for Beach Day.mp4")), v.SizeBytes)
	assert.True(t, v.HasThumbnail())
	assert.Equal(t, time.Second, env.thumbs.at)
	assert.True(t, env.dir.Exists(v.Path))

	// Persisted and visible through the collection
	stored, err := NewStore(env.db).GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Title, stored.Title)
	assert.Equal(t, 1, env.manager.Count())

	evts := env.drain()
	require.Len(t, evts, 1)
	imported, ok := evts[0].(*events.VideoImported)
	require.True(t, ok)
	assert.Equal(t, v.ID.String(), imported.EntityID())
	assert.Equal(t, 1, imported.Total)
	assert.True(t, imported.HasThumbnail)
}

func TestManager_Import_UniqueIDsAndCollisionFreeNames(t *testing.T) {
	env := newTestEnv(t)

	ids := map[uuid.UUID]bool{}
	paths := map[string]bool{}
	for i := 0; i < 3; i++ {
		v := env.importVideo(t, "clip.mp4")
		assert.False(t, ids[v.ID], "duplicate id %s", v.ID)
		assert.False(t, paths[v.Path], "duplicate path %s", v.Path)
		ids[v.ID] = true
		paths[v.Path] = true
	}

	assert.True(t, paths["/library/clip.mp4"])
	assert.True(t, paths["/library/clip_1.mp4"])
	assert.True(t, paths["/library/clip_2.mp4"])
	assert.Equal(t, 3, env.manager.Count())
}

func TestManager_Import_ShortClipThumbnailAtMidpoint(t *testing.T) {
	env := newTestEnv(t)
	env.prober.info.DurationSeconds = 0.5

	env.importVideo(t, "blink.mp4")
	assert.Equal(t, 250*time.Millisecond, env.thumbs.at)
}

func TestManager_Import_ThumbnailFailureTolerated(t *testing.T) {
	env := newTestEnv(t)
	env.thumbs.err = errors.New("no frame")

	v := env.importVideo(t, "dark.mov")
	assert.False(t, v.HasThumbnail())
	assert.Equal(t, 1, env.manager.Count())
}

func TestManager_Import_RejectsNonVideo(t *testing.T) {
	env := newTestEnv(t)
	src := env.source(t, "notes.txt", "just text")

	_, err := env.manager.Import(context.Background(), src)

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, OpSniff, ie.Op)
	assert.ErrorIs(t, err, ErrNotVideo)
	assert.Equal(t, 0, env.prober.calls)
	assert.Equal(t, 0, env.manager.Count())

	evts := env.drain()
	require.Len(t, evts, 1)
	failed, ok := evts[0].(*events.VideoImportFailed)
	require.True(t, ok)
	assert.Equal(t, OpSniff, failed.Step)
	assert.Equal(t, src, failed.SourcePath)
}

func TestManager_Import_MissingSource(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.Import(context.Background(), "/incoming/missing.mp4")

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, OpSniff, ie.Op)
}

func TestManager_Import_ProbeFailureRemovesCopy(t *testing.T) {
	env := newTestEnv(t)
	env.prober.err = errors.New("moov atom not found")

	_, err := env.manager.Import(context.Background(), env.source(t, "broken.mp4", "garbage"))

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, OpProbe, ie.Op)
	assert.False(t, env.dir.Exists("/library/broken.mp4"), "copied file should be rolled back")
	assert.Equal(t, 0, env.manager.Count())
}

// gatedProber blocks in Probe until released.
type gatedProber struct {
	started chan struct{}
	release chan struct{}
}

func (p *gatedProber) Probe(ctx context.Context, path string) (media.Info, error) {
	close(p.started)
	select {
	case <-p.release:
		return media.Info{DurationSeconds: 60, VideoCodec: "h264"}, nil
	case <-ctx.Done():
		return media.Info{}, ctx.Err()
	}
}

func TestManager_ImportDoesNotBlockReads(t *testing.T) {
	env := newTestEnv(t)
	existing := env.importVideo(t, "first.mp4")
	ctx := context.Background()

	gate := &gatedProber{started: make(chan struct{}), release: make(chan struct{})}
	env.manager.prober = gate

	result := env.manager.ImportAsync(ctx, env.source(t, "second.mp4", "more video data"))
	<-gate.started

	done := make(chan error, 1)
	go func() {
		_ = env.manager.Query(QueryOptions{})
		_ = env.manager.Count()
		done <- env.manager.RecordPlaybackPosition(ctx, existing.ID, 12)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		close(gate.release)
		t.Fatal("reads blocked while another import was probing")
	}

	close(gate.release)
	res := <-result
	require.NoError(t, res.Err)
	assert.Equal(t, 2, env.manager.Count())

	got, err := env.manager.Get(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.LastPositionSeconds)
}

func TestManager_Import_SaveFailureRemovesCopy(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.db.Exec("DROP TABLE videos")
	require.NoError(t, err)

	_, err = env.manager.Import(context.Background(), env.source(t, "clip.mp4", "data"))

	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, OpSave, ie.Op)
	assert.False(t, env.dir.Exists("/library/clip.mp4"))
	assert.Equal(t, 0, env.manager.Count())
}

func TestManager_ImportAsync(t *testing.T) {
	env := newTestEnv(t)

	src := env.source(t, "party.mp4", "x")

	var results []<-chan ImportResult
	for i := 0; i < 4; i++ {
		results = append(results, env.manager.ImportAsync(context.Background(), src))
	}

	ids := map[uuid.UUID]bool{}
	for _, ch := range results {
		res, ok := <-ch
		require.True(t, ok)
		require.NoError(t, res.Err)
		ids[res.Video.ID] = true

		_, open := <-ch
		assert.False(t, open, "channel closes after the single result")
	}
	assert.Len(t, ids, 4)
	assert.Equal(t, 4, env.manager.Count())
}

func TestManager_ImportFrom(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.manager.ImportFrom(context.Background(), picker.PathSource{})
	assert.ErrorIs(t, err, ErrNothingPicked)
	assert.Equal(t, 0, env.manager.Count())
}

type stubSource struct {
	path string
	err  error
}

func (s stubSource) Pick(ctx context.Context) (string, bool, error) {
	return s.path, s.path != "", s.err
}

func TestManager_ImportFrom_Source(t *testing.T) {
	env := newTestEnv(t)
	src := env.source(t, "garden.mp4", "data")

	v, err := env.manager.ImportFrom(context.Background(), stubSource{path: src})
	require.NoError(t, err)
	assert.Equal(t, "garden", v.Title)

	_, err = env.manager.ImportFrom(context.Background(), stubSource{err: errors.New("denied")})
	var ie *ImportError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, OpPick, ie.Op)
}

func TestManager_Delete(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	keep := env.importVideo(t, "other.mp4")
	env.drain()

	require.NoError(t, env.manager.Delete(context.Background(), v.ID))

	assert.False(t, env.dir.Exists(v.Path))
	for _, got := range env.manager.Query(QueryOptions{}) {
		assert.NotEqual(t, v.ID, got.ID)
	}
	assert.Equal(t, 1, env.manager.Count())

	_, err := NewStore(env.db).GetVideo(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.manager.Get(keep.ID)
	assert.NoError(t, err)

	evts := env.drain()
	require.Len(t, evts, 1)
	deleted, ok := evts[0].(*events.VideoDeleted)
	require.True(t, ok)
	assert.True(t, deleted.FileRemoved)
	assert.Equal(t, 1, deleted.Total)
}

type stuckFiles struct {
	*testEnv
}

func (s stuckFiles) Sniff(src string) (string, error)         { return s.dir.Sniff(src) }
func (s stuckFiles) Import(src string) (string, int64, error) { return s.dir.Import(src) }
func (s stuckFiles) Remove(path string) error                 { return errors.New("permission denied") }

func TestManager_Delete_FileRemovalFailureStillRemovesRecord(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")

	m := NewManager(ManagerConfig{Store: NewStore(env.db), Files: stuckFiles{env}, Prober: env.prober, Bus: env.bus})
	require.NoError(t, m.Refresh(context.Background()))
	env.drain()

	require.NoError(t, m.Delete(context.Background(), v.ID))

	assert.True(t, env.dir.Exists(v.Path), "file stays when removal fails")
	assert.Equal(t, 0, m.Count())

	evts := env.drain()
	require.Len(t, evts, 1)
	assert.False(t, evts[0].(*events.VideoDeleted).FileRemoved)
}

func TestManager_Delete_NotFound(t *testing.T) {
	env := newTestEnv(t)
	assert.ErrorIs(t, env.manager.Delete(context.Background(), uuid.New()), ErrNotFound)
}

func TestManager_Rename(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "IMG_0042.mov")
	env.drain()

	require.NoError(t, env.manager.Rename(context.Background(), v.ID, "Ski Trip"))

	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ski Trip", got.Title)

	evts := env.drain()
	require.Len(t, evts, 1)
	updated := evts[0].(*events.VideoUpdated)
	assert.Equal(t, "title", updated.Field)
	assert.Equal(t, "IMG_0042", updated.OldValue)
	assert.Equal(t, "Ski Trip", updated.NewValue)
}

func TestManager_Rename_KeepsTitleAsGiven(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")

	require.NoError(t, env.manager.Rename(context.Background(), v.ID, "  Ski Trip  "))

	stored, err := NewStore(env.db).GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "  Ski Trip  ", stored.Title)
}

func TestManager_Rename_RejectsEmpty(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	env.drain()

	require.NoError(t, env.manager.Rename(context.Background(), v.ID, ""))
	require.NoError(t, env.manager.Rename(context.Background(), v.ID, "   "))

	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip", got.Title)
	assert.Empty(t, env.drain())
}

func TestManager_Favorite(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	env.drain()
	ctx := context.Background()

	require.NoError(t, env.manager.SetFavorite(ctx, v.ID, true))
	assert.Len(t, env.manager.Query(QueryOptions{Filter: FilterFavorites}), 1)

	value, err := env.manager.ToggleFavorite(ctx, v.ID)
	require.NoError(t, err)
	assert.False(t, value)
	assert.Empty(t, env.manager.Query(QueryOptions{Filter: FilterFavorites}))

	stored, err := NewStore(env.db).GetVideo(v.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsFavorite)

	evts := env.drain()
	require.Len(t, evts, 2)
	assert.Equal(t, "true", evts[0].(*events.VideoUpdated).NewValue)
	assert.Equal(t, "false", evts[1].(*events.VideoUpdated).NewValue)
}

func TestManager_RecordViewStart_Monotonic(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	env.drain()
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		require.NoError(t, env.manager.RecordViewStart(ctx, v.ID))
	}
	last := env.clock.t

	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.ViewCount)
	require.NotNil(t, got.LastWatchedAt)
	assert.True(t, last.Equal(*got.LastWatchedAt), "want %v, got %v", last, got.LastWatchedAt)

	evts := env.drain()
	require.Len(t, evts, n)
	assert.Equal(t, int64(n), evts[n-1].(*events.VideoWatched).ViewCount)

	assert.Len(t, env.manager.Query(QueryOptions{Filter: FilterRecentlyWatched}), 1)
}

func TestManager_RecordPlaybackPosition_NoRepublish(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	env.drain()
	ctx := context.Background()

	require.NoError(t, env.manager.RecordPlaybackPosition(ctx, v.ID, 42))

	videos := env.manager.Query(QueryOptions{})
	require.Len(t, videos, 1)
	assert.Equal(t, 42.0, videos[0].LastPositionSeconds)
	assert.Empty(t, env.drain(), "position updates are not published")

	stored, err := NewStore(env.db).GetVideo(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.0, stored.LastPositionSeconds)

	// Clamped to the duration
	require.NoError(t, env.manager.RecordPlaybackPosition(ctx, v.ID, 999))
	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 120.0, got.LastPositionSeconds)

	require.NoError(t, env.manager.RecordPlaybackPosition(ctx, v.ID, -3))
	got, err = env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.LastPositionSeconds)
}

func TestManager_QueryReturnsCopies(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")

	list := env.manager.Query(QueryOptions{})
	list[0].Title = "mutated"

	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "clip", got.Title)
}

func TestManager_TotalSize(t *testing.T) {
	env := newTestEnv(t)
	a := env.importVideo(t, "a.mp4")
	b := env.importVideo(t, "b.mp4")
	require.NoError(t, env.manager.SetFavorite(context.Background(), a.ID, true))

	assert.Equal(t, a.SizeBytes+b.SizeBytes, env.manager.TotalSize())
}

func TestManager_Next(t *testing.T) {
	env := newTestEnv(t)
	first := env.importVideo(t, "first.mp4")
	second := env.importVideo(t, "second.mp4")

	opts := QueryOptions{Sort: SortDateAddedOldest}
	next, ok := env.manager.Next(first.ID, opts)
	require.True(t, ok)
	assert.Equal(t, second.ID, next.ID)

	_, ok = env.manager.Next(second.ID, opts)
	assert.False(t, ok)
}

func TestManager_Resolve(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")

	got, err := env.manager.Resolve(v.ID.String())
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	got, err = env.manager.Resolve(v.ID.String()[:8])
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)

	_, err = env.manager.Resolve("zzzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_RefreshReconcilesWithDatabase(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")

	// Another writer changed the row behind the manager's back
	_, err := env.db.Exec("UPDATE videos SET title = 'external' WHERE id = ?", v.ID)
	require.NoError(t, err)

	require.NoError(t, env.manager.Refresh(context.Background()))
	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "external", got.Title)
}

func TestManager_ConcurrentMutations(t *testing.T) {
	env := newTestEnv(t)
	v := env.importVideo(t, "clip.mp4")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, env.manager.RecordViewStart(ctx, v.ID))
		}()
		go func() {
			defer wg.Done()
			_ = env.manager.Query(QueryOptions{Search: "clip"})
		}()
	}
	wg.Wait()

	got, err := env.manager.Get(v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.ViewCount)
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "Beach Day", titleFromPath("/tmp/Beach Day.mp4"))
	assert.Equal(t, "archive.tar", titleFromPath("archive.tar.gz"))
	assert.Equal(t, "Untitled", titleFromPath("/tmp/.mp4"))
	assert.Equal(t, "noext", titleFromPath("noext"))
}

func TestManager_NotFoundOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := uuid.New()

	assert.ErrorIs(t, env.manager.Rename(ctx, id, "x"), ErrNotFound)
	assert.ErrorIs(t, env.manager.SetFavorite(ctx, id, true), ErrNotFound)
	assert.ErrorIs(t, env.manager.RecordViewStart(ctx, id), ErrNotFound)
	assert.ErrorIs(t, env.manager.RecordPlaybackPosition(ctx, id, 1), ErrNotFound)

	_, err := env.manager.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}
