package player

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vmunix/reelbox/internal/events"
)

// Status is the transport state of a session.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
)

const (
	DefaultSampleInterval     = 100 * time.Millisecond
	DefaultCheckpointInterval = 5 * time.Second

	// endTolerance is how close to the duration counts as the end.
	endTolerance = 0.25
)

// Config describes a session.
type Config struct {
	VideoID uuid.UUID
	Locator string
	// StartPosition is the stored position, used when Resume is set.
	StartPosition float64
	Resume        bool

	Engine   Engine
	Recorder Recorder      // optional
	Speeds   SpeedProvider // optional, defaults to 1.0
	Bus      *events.Bus   // optional
	Logger   *slog.Logger

	SampleInterval     time.Duration
	CheckpointInterval time.Duration
}

// State is a snapshot of the observable transport fields.
type State struct {
	Status      Status
	IsPlaying   bool
	CurrentTime float64
	Duration    float64
	Speed       float64
	Volume      float64
}

// Session plays one video. Commands may be issued from any goroutine.
type Session struct {
	id       uuid.UUID
	engine   Engine
	recorder Recorder
	bus      *events.Bus
	logger   *slog.Logger
	interval time.Duration

	mu           sync.Mutex
	status       Status
	currentTime  float64
	duration     float64
	speed        float64
	volume       float64
	viewRecorded bool
	finished     bool
	closed       bool
	loadErr      error

	checkpoint rate.Sometimes
	cancel     context.CancelFunc
	group      *errgroup.Group
}

// Open creates a session and loads the media. A load failure leaves the
// session Idle with zero duration; LoadErr reports the cause.
func Open(ctx context.Context, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := cfg.SampleInterval
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	checkpointEvery := cfg.CheckpointInterval
	if checkpointEvery <= 0 {
		checkpointEvery = DefaultCheckpointInterval
	}

	s := &Session{
		id:         cfg.VideoID,
		engine:     cfg.Engine,
		recorder:   cfg.Recorder,
		bus:        cfg.Bus,
		logger:     logger.With("component", "player", "video", cfg.VideoID),
		interval:   interval,
		status:     StatusIdle,
		speed:      1.0,
		volume:     1.0,
		checkpoint: rate.Sometimes{Interval: checkpointEvery},
	}

	if cfg.Speeds != nil {
		speed, err := cfg.Speeds.DefaultPlaybackSpeed(ctx)
		switch {
		case err != nil:
			s.logger.Warn("default speed unavailable", "error", err)
		case speed > 0 && !math.IsInf(speed, 1):
			s.speed = speed
		}
	}

	if err := s.engine.Open(ctx, cfg.Locator); err != nil {
		s.loadErr = err
		s.logger.Warn("failed to open media", "locator", cfg.Locator, "error", err)
		return s
	}

	if cfg.Resume && cfg.StartPosition > 0 {
		if err := s.engine.Seek(cfg.StartPosition); err != nil {
			s.logger.Warn("resume seek failed", "position", cfg.StartPosition, "error", err)
		} else {
			s.currentTime = cfg.StartPosition
		}
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	g, gctx := errgroup.WithContext(runCtx)
	s.cancel = cancel
	s.group = g
	g.Go(func() error { return s.sample(gctx) })
	g.Go(func() error { return s.resolveDuration(gctx) })

	return s
}

// VideoID returns the id of the video being played.
func (s *Session) VideoID() uuid.UUID { return s.id }

// LoadErr returns the error that prevented the media from opening, if any.
func (s *Session) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Snapshot returns the current transport state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Status:      s.status,
		IsPlaying:   s.status == StatusPlaying,
		CurrentTime: s.currentTime,
		Duration:    s.duration,
		Speed:       s.speed,
		Volume:      s.volume,
	}
}

// Play starts or resumes playback at the current speed. The first Play of a
// session records a view.
func (s *Session) Play(ctx context.Context) error {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status == StatusPlaying {
		s.mu.Unlock()
		return nil
	}

	// Play after the end starts over
	if s.finished {
		if err := s.engine.Seek(0); err != nil {
			s.mu.Unlock()
			return err
		}
		s.currentTime = 0
		s.finished = false
	}

	if err := s.engine.SetRate(s.speed); err != nil {
		s.mu.Unlock()
		return err
	}
	old := s.transitionLocked(StatusPlaying)
	firstView := !s.viewRecorded
	s.viewRecorded = true
	pos := s.currentTime
	s.mu.Unlock()

	s.publishState(ctx, old, StatusPlaying, pos)

	if firstView && s.recorder != nil {
		if err := s.recorder.RecordViewStart(ctx, s.id); err != nil {
			s.logger.Error("failed to record view", "error", err)
		}
	}
	return nil
}

// Pause stops playback, keeping the position.
func (s *Session) Pause(ctx context.Context) error {
	s.mu.Lock()
	if err := s.usableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.status != StatusPlaying {
		s.mu.Unlock()
		return nil
	}
	if err := s.engine.SetRate(0); err != nil {
		s.mu.Unlock()
		return err
	}
	old := s.transitionLocked(StatusPaused)
	pos := s.currentTime
	s.mu.Unlock()

	s.publishState(ctx, old, StatusPaused, pos)
	return nil
}

// TogglePlayPause plays when paused and pauses when playing.
func (s *Session) TogglePlayPause(ctx context.Context) error {
	if s.Snapshot().IsPlaying {
		return s.Pause(ctx)
	}
	return s.Play(ctx)
}

// Seek moves to seconds, clamped to [0, duration].
func (s *Session) Seek(seconds float64) error {
	if !isFinite(seconds) {
		return ErrNotFinite
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	return s.seekLocked(s.clampLocked(seconds))
}

// Skip moves by delta seconds from the current time, clamped to the media.
func (s *Session) Skip(delta float64) error {
	if !isFinite(delta) {
		return ErrNotFinite
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	return s.seekLocked(s.clampLocked(s.currentTime + delta))
}

// SetPlaybackSpeed stores the multiplier. It is applied at once while playing
// and on the next Play otherwise.
func (s *Session) SetPlaybackSpeed(multiplier float64) error {
	if !(multiplier > 0) || math.IsInf(multiplier, 1) {
		return ErrInvalidSpeed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.status == StatusPlaying {
		if err := s.engine.SetRate(multiplier); err != nil {
			return err
		}
	}
	s.speed = multiplier
	return nil
}

// SetVolume sets the output level, clamped to [0, 1].
func (s *Session) SetVolume(level float64) error {
	if !isFinite(level) {
		return ErrNotFinite
	}
	level = min(max(level, 0), 1)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usableLocked(); err != nil {
		return err
	}
	if err := s.engine.SetVolume(level); err != nil {
		return err
	}
	s.volume = level
	return nil
}

// Close pauses, stops the background goroutines, saves the last position and
// releases the engine. Calling Close more than once is safe.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	loaded := s.loadErr == nil
	wasPlaying := s.status == StatusPlaying
	if wasPlaying {
		if err := s.engine.SetRate(0); err != nil {
			s.logger.Warn("pause on close failed", "error", err)
		}
		s.status = StatusPaused
	}
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		_ = s.group.Wait()
	}

	if loaded {
		s.mu.Lock()
		if pos, err := s.engine.Position(); err == nil {
			s.currentTime = s.clampLocked(pos)
		}
		pos := s.currentTime
		s.mu.Unlock()

		if wasPlaying {
			s.publishState(ctx, StatusPlaying, StatusPaused, pos)
		}
		s.saveAt(ctx, pos)
	}

	return s.engine.Close()
}

// sample polls the engine position until ctx is cancelled.
func (s *Session) sample(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Session) tick(ctx context.Context) {
	pos, err := s.engine.Position()
	if err != nil {
		s.logger.Debug("position unavailable", "error", err)
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	pos = s.clampLocked(pos)
	changed := pos != s.currentTime
	s.currentTime = pos
	dur := s.duration
	playing := s.status == StatusPlaying
	reachedEnd := playing && dur > 0 && pos >= dur-endTolerance
	if reachedEnd {
		if err := s.engine.SetRate(0); err != nil {
			s.logger.Warn("pause at end failed", "error", err)
		}
		s.transitionLocked(StatusPaused)
		s.finished = true
	}
	s.mu.Unlock()

	if changed {
		s.publish(ctx, &events.PlaybackProgressed{
			BaseEvent: events.NewBaseEvent(events.EventPlaybackProgressed, events.EntityVideo, s.id.String()),
			Position:  pos,
			Duration:  dur,
		})
	}

	if reachedEnd {
		s.publishState(ctx, StatusPlaying, StatusPaused, pos)
		s.saveAt(ctx, pos)
		s.publish(ctx, &events.PlaybackFinished{
			BaseEvent: events.NewBaseEvent(events.EventPlaybackFinished, events.EntityVideo, s.id.String()),
			Position:  pos,
		})
		return
	}

	if playing {
		s.checkpoint.Do(func() { s.saveAt(ctx, pos) })
	}
}

// resolveDuration waits for the engine to report the duration and publishes
// it once.
func (s *Session) resolveDuration(ctx context.Context) error {
	d, err := s.engine.Duration(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("duration unavailable", "error", err)
		}
		return nil
	}
	if d <= 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.duration = d
	s.currentTime = s.clampLocked(s.currentTime)
	s.mu.Unlock()

	s.logger.Debug("duration resolved", "seconds", d)
	s.publish(ctx, &events.PlaybackDurationResolved{
		BaseEvent: events.NewBaseEvent(events.EventPlaybackDuration, events.EntityVideo, s.id.String()),
		Duration:  d,
	})
	return nil
}

func (s *Session) usableLocked() error {
	if s.closed {
		return ErrClosed
	}
	if s.loadErr != nil {
		return ErrNotLoaded
	}
	return nil
}

func (s *Session) clampLocked(seconds float64) float64 {
	if math.IsNaN(seconds) || seconds < 0 {
		return 0
	}
	if s.duration > 0 && seconds > s.duration {
		return s.duration
	}
	return seconds
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *Session) seekLocked(target float64) error {
	if err := s.engine.Seek(target); err != nil {
		return err
	}
	s.currentTime = target
	if s.duration == 0 || target < s.duration {
		s.finished = false
	}
	return nil
}

func (s *Session) transitionLocked(to Status) Status {
	old := s.status
	s.status = to
	return old
}

func (s *Session) saveAt(ctx context.Context, pos float64) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordPlaybackPosition(ctx, s.id, pos); err != nil {
		s.logger.Error("failed to save playback position", "position", pos, "error", err)
	}
}

func (s *Session) publishState(ctx context.Context, from, to Status, pos float64) {
	s.publish(ctx, &events.PlaybackStateChanged{
		BaseEvent: events.NewBaseEvent(events.EventPlaybackState, events.EntityVideo, s.id.String()),
		OldState:  string(from),
		NewState:  string(to),
		Position:  pos,
	})
}

func (s *Session) publish(ctx context.Context, e events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
