package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/media"
	"github.com/vmunix/reelbox/internal/picker"
	"github.com/vmunix/reelbox/internal/storage"
)

// Files is the managed storage the manager copies into and deletes from.
type Files interface {
	Sniff(src string) (string, error)
	Import(src string) (dst string, size int64, err error)
	Remove(path string) error
}

// ManagerConfig holds the collaborators of a Manager.
type ManagerConfig struct {
	Store       *Store
	Files       Files
	Prober      media.Prober
	Thumbnailer media.Thumbnailer // optional
	Bus         *events.Bus       // optional
	Logger      *slog.Logger
	ThumbnailAt time.Duration // default 1s
	Now         func() time.Time
}

// Manager owns the in-memory collection and mediates every mutation.
// Each mutation holds the lock through persist, refetch and publish, so
// readers never observe a collection that disagrees with the database.
type Manager struct {
	importMu    sync.Mutex
	mu          sync.RWMutex
	videos      []*Video // newest first
	store       *Store
	files       Files
	prober      media.Prober
	thumbnailer media.Thumbnailer
	bus         *events.Bus
	logger      *slog.Logger
	thumbnailAt time.Duration
	now         func() time.Time
}

// NewManager creates a manager. Call Refresh to load the collection.
func NewManager(cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	thumbnailAt := cfg.ThumbnailAt
	if thumbnailAt <= 0 {
		thumbnailAt = time.Second
	}
	return &Manager{
		store:       cfg.Store,
		files:       cfg.Files,
		prober:      cfg.Prober,
		thumbnailer: cfg.Thumbnailer,
		bus:         cfg.Bus,
		logger:      logger.With("component", "library"),
		thumbnailAt: thumbnailAt,
		now:         now,
	}
}

// ImportResult is delivered once per ImportAsync call.
type ImportResult struct {
	Video *Video
	Err   error
}

// Refresh reloads the full collection from the database.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	videos, err := m.store.ListVideos()
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	m.videos = videos
	return nil
}

// Import copies src into managed storage and records it.
// Failures are reported as *ImportError. A copy whose record could not be
// committed is removed again. Imports run one at a time and only take the
// collection lock to commit.
func (m *Manager) Import(ctx context.Context, src string) (*Video, error) {
	m.importMu.Lock()
	defer m.importMu.Unlock()

	v, err := m.prepareImport(ctx, src)
	if err == nil {
		err = m.commitImport(ctx, src, v)
	}
	if err != nil {
		m.logger.Error("import failed", "source", src, "error", err)
		failed := &events.VideoImportFailed{
			BaseEvent:  events.NewBaseEvent(events.EventVideoImportFailed, events.EntityVideo, ""),
			SourcePath: src,
			Reason:     err.Error(),
		}
		var ie *ImportError
		if errors.As(err, &ie) {
			failed.Step = ie.Op
			failed.Reason = ie.Err.Error()
		}
		m.publish(ctx, failed)
		return nil, err
	}
	return v.Clone(), nil
}

// prepareImport sniffs, copies, probes and thumbnails src. It does not touch
// the collection.
func (m *Manager) prepareImport(ctx context.Context, src string) (*Video, error) {
	fail := func(op string, err error) error {
		return &ImportError{Path: src, Op: op, Err: err}
	}

	mime, err := m.files.Sniff(src)
	if err != nil {
		return nil, fail(OpSniff, err)
	}
	if !storage.IsVideo(mime, src) {
		return nil, fail(OpSniff, fmt.Errorf("%w: %s", ErrNotVideo, mime))
	}

	dst, size, err := m.files.Import(src)
	if err != nil {
		return nil, fail(OpCopy, err)
	}

	info, err := m.prober.Probe(ctx, dst)
	if err != nil {
		m.removeCopy(dst)
		return nil, fail(OpProbe, err)
	}

	var thumb []byte
	if m.thumbnailer != nil {
		at := media.ThumbnailOffset(m.thumbnailAt, info.DurationSeconds)
		thumb, err = m.thumbnailer.Thumbnail(ctx, dst, at)
		if err != nil {
			m.logger.Debug("thumbnail unavailable", "path", dst, "error", err)
			thumb = nil
		}
	}

	return &Video{
		ID:              uuid.New(),
		Title:           titleFromPath(src),
		Path:            dst,
		DurationSeconds: info.DurationSeconds,
		SizeBytes:       size,
		Thumbnail:       thumb,
		MimeType:        mime,
	}, nil
}

// commitImport inserts v, reloads the collection and publishes the import.
func (m *Manager) commitImport(ctx context.Context, src string, v *Video) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v.AddedAt = m.now()
	if err := m.persist(ctx, func(tx *Tx) error { return tx.AddVideo(v) }); err != nil {
		m.removeCopy(v.Path)
		return &ImportError{Path: src, Op: OpSave, Err: err}
	}
	m.refetchLocked(func() {
		m.videos = append([]*Video{v}, m.videos...)
	})

	m.logger.Info("video imported", "id", v.ID, "title", v.Title, "path", v.Path, "size", v.SizeBytes)
	m.publish(ctx, &events.VideoImported{
		BaseEvent:       events.NewBaseEvent(events.EventVideoImported, events.EntityVideo, v.ID.String()),
		Title:           v.Title,
		Path:            v.Path,
		SizeBytes:       v.SizeBytes,
		DurationSeconds: v.DurationSeconds,
		HasThumbnail:    v.HasThumbnail(),
		Total:           len(m.videos),
	})
	return nil
}

func (m *Manager) removeCopy(path string) {
	if err := m.files.Remove(path); err != nil {
		m.logger.Warn("failed to remove copied file", "path", path, "error", err)
	}
}

// ImportAsync runs Import on its own goroutine. Exactly one result is sent
// on the returned channel, which is then closed.
func (m *Manager) ImportAsync(ctx context.Context, src string) <-chan ImportResult {
	ch := make(chan ImportResult, 1)
	go func() {
		defer close(ch)
		v, err := m.Import(ctx, src)
		ch <- ImportResult{Video: v, Err: err}
	}()
	return ch
}

// ImportFrom imports the file yielded by source.
// Returns ErrNothingPicked when the source was cancelled.
func (m *Manager) ImportFrom(ctx context.Context, source picker.Source) (*Video, error) {
	path, ok, err := source.Pick(ctx)
	if err != nil {
		return nil, &ImportError{Op: OpPick, Err: err}
	}
	if !ok {
		return nil, ErrNothingPicked
	}
	return m.Import(ctx, path)
}

// Delete removes the backing file and the record. Failing to remove the file
// is logged and does not keep the record.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.findLocked(id)
	if err != nil {
		return err
	}

	fileRemoved := true
	if err := m.files.Remove(v.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fileRemoved = false
		m.logger.Warn("failed to remove video file", "id", id, "path", v.Path, "error", err)
	}

	if err := m.persist(ctx, func(tx *Tx) error { return tx.DeleteVideo(id) }); err != nil {
		m.logger.Error("failed to delete video record", "id", id, "error", err)
		return err
	}

	m.refetchLocked(func() {
		m.videos = removeVideo(m.videos, id)
	})

	m.logger.Info("video deleted", "id", id, "title", v.Title, "file_removed", fileRemoved)
	m.publish(ctx, &events.VideoDeleted{
		BaseEvent:   events.NewBaseEvent(events.EventVideoDeleted, events.EntityVideo, id.String()),
		Path:        v.Path,
		FileRemoved: fileRemoved,
		Total:       len(m.videos),
	})
	return nil
}

// Rename sets the title as given. Empty or whitespace-only titles are ignored.
func (m *Manager) Rename(ctx context.Context, id uuid.UUID, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.findLocked(id)
	if err != nil {
		return err
	}
	updated := v.Clone()
	updated.Title = title
	if err := m.saveLocked(ctx, updated); err != nil {
		return err
	}

	m.publish(ctx, &events.VideoUpdated{
		BaseEvent: events.NewBaseEvent(events.EventVideoUpdated, events.EntityVideo, id.String()),
		Field:     "title",
		OldValue:  v.Title,
		NewValue:  title,
	})
	return nil
}

// SetFavorite sets the favorite flag.
func (m *Manager) SetFavorite(ctx context.Context, id uuid.UUID, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setFavoriteLocked(ctx, id, func(bool) bool { return value })
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (m *Manager) ToggleFavorite(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var value bool
	err := m.setFavoriteLocked(ctx, id, func(old bool) bool {
		value = !old
		return value
	})
	return value, err
}

func (m *Manager) setFavoriteLocked(ctx context.Context, id uuid.UUID, next func(bool) bool) error {
	v, err := m.findLocked(id)
	if err != nil {
		return err
	}
	updated := v.Clone()
	updated.IsFavorite = next(v.IsFavorite)
	if err := m.saveLocked(ctx, updated); err != nil {
		return err
	}

	m.publish(ctx, &events.VideoUpdated{
		BaseEvent: events.NewBaseEvent(events.EventVideoUpdated, events.EntityVideo, id.String()),
		Field:     "favorite",
		OldValue:  strconv.FormatBool(v.IsFavorite),
		NewValue:  strconv.FormatBool(updated.IsFavorite),
	})
	return nil
}

// RecordPlaybackPosition stores the last playback position, clamped to the
// video's duration. The collection is updated in place and nothing is
// published, so high-frequency checkpoints stay quiet.
func (m *Manager) RecordPlaybackPosition(ctx context.Context, id uuid.UUID, seconds float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.findLocked(id)
	if err != nil {
		return err
	}
	updated := v.Clone()
	updated.LastPositionSeconds = v.ClampPosition(seconds)

	if err := m.persist(ctx, func(tx *Tx) error { return tx.UpdateVideo(updated) }); err != nil {
		m.logger.Error("failed to save playback position", "id", id, "error", err)
		return err
	}
	m.replaceLocked(updated)
	return nil
}

// RecordViewStart increments the view count and stamps the watch time.
func (m *Manager) RecordViewStart(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, err := m.findLocked(id)
	if err != nil {
		return err
	}
	now := m.now()
	updated := v.Clone()
	updated.ViewCount++
	updated.LastWatchedAt = &now
	if err := m.saveLocked(ctx, updated); err != nil {
		return err
	}

	m.publish(ctx, &events.VideoWatched{
		BaseEvent: events.NewBaseEvent(events.EventVideoWatched, events.EntityVideo, id.String()),
		ViewCount: updated.ViewCount,
	})
	return nil
}

// Query returns copies of the videos matching opts. It never mutates state.
func (m *Manager) Query(opts QueryOptions) []*Video {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneAll(Query(m.videos, opts))
}

// Suggest proposes the title closest to text across the whole collection.
func (m *Manager) Suggest(text string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Suggest(m.videos, text)
}

// Next returns the video after id in the listing described by opts.
func (m *Manager) Next(id uuid.UUID, opts QueryOptions) (*Video, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := Query(m.videos, opts)
	for i, v := range list {
		if v.ID == id && i+1 < len(list) {
			return list[i+1].Clone(), true
		}
	}
	return nil, false
}

// Get returns a copy of the video with id.
func (m *Manager) Get(id uuid.UUID) (*Video, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, err := m.findLocked(id)
	if err != nil {
		return nil, err
	}
	return v.Clone(), nil
}

// Resolve finds a video by full id or unique id prefix.
func (m *Manager) Resolve(ref string) (*Video, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return m.Get(id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var match *Video
	for _, v := range m.videos {
		if ref != "" && strings.HasPrefix(v.ID.String(), ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: ambiguous id prefix %q", ErrInvalidOption, ref)
			}
			match = v
		}
	}
	if match == nil {
		return nil, fmt.Errorf("video %s: %w", ref, ErrNotFound)
	}
	return match.Clone(), nil
}

// Count returns the number of videos.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.videos)
}

// TotalSize sums the size of every video in the collection.
func (m *Manager) TotalSize() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, v := range m.videos {
		total += v.SizeBytes
	}
	return total
}

// persist runs fn in a transaction, retrying while the database is locked.
func (m *Manager) persist(ctx context.Context, fn func(tx *Tx) error) error {
	return retry.Do(
		func() error {
			tx, err := m.store.Begin()
			if err != nil {
				return err
			}
			if err := fn(tx); err != nil {
				_ = tx.Rollback()
				return err
			}
			return tx.Commit()
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(25*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrBusy) }),
	)
}

// saveLocked persists the mutable fields of updated and reloads the collection.
func (m *Manager) saveLocked(ctx context.Context, updated *Video) error {
	if err := m.persist(ctx, func(tx *Tx) error { return tx.UpdateVideo(updated) }); err != nil {
		m.logger.Error("failed to save video", "id", updated.ID, "error", err)
		return err
	}
	m.refetchLocked(func() { m.replaceLocked(updated) })
	return nil
}

// refetchLocked reloads the collection after a committed change. When the
// reload fails the committed change is applied to memory with local instead.
func (m *Manager) refetchLocked(local func()) {
	videos, err := m.store.ListVideos()
	if err != nil {
		m.logger.Error("refetch failed, applying change locally", "error", err)
		local()
		return
	}
	m.videos = videos
}

func (m *Manager) findLocked(id uuid.UUID) (*Video, error) {
	for _, v := range m.videos {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
}

func (m *Manager) replaceLocked(updated *Video) {
	for i, v := range m.videos {
		if v.ID == updated.ID {
			m.videos[i] = updated
			return
		}
	}
}

func (m *Manager) publish(ctx context.Context, e events.Event) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(ctx, e); err != nil {
		m.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}

func removeVideo(videos []*Video, id uuid.UUID) []*Video {
	out := make([]*Video, 0, len(videos))
	for _, v := range videos {
		if v.ID != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneAll(videos []*Video) []*Video {
	out := make([]*Video, len(videos))
	for i, v := range videos {
		out[i] = v.Clone()
	}
	return out
}

// titleFromPath derives a display title from a file name without extension.
func titleFromPath(path string) string {
	base := filepath.Base(path)
	title := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if title == "" || title == "." {
		return "Untitled"
	}
	return norm.NFC.String(title)
}
