package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/player"
	"github.com/vmunix/reelbox/internal/settings"
)

// Catalog is the part of the library the runner reads and records into.
type Catalog interface {
	player.Recorder
	Get(id uuid.UUID) (*library.Video, error)
	Next(id uuid.UUID, opts library.QueryOptions) (*library.Video, bool)
}

// Preferences supplies the stored settings.
type Preferences interface {
	player.SpeedProvider
	Load(ctx context.Context) (settings.Settings, error)
}

// Display receives what the runner wants shown to the user.
type Display interface {
	Started(v *library.Video, st player.State)
	Status(v *library.Video, st player.State)
	Failed(err error)
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Catalog     Catalog
	Preferences Preferences
	NewEngine   func() player.Engine
	Bus         *events.Bus // required for auto-play-next
	Display     Display     // optional
	Logger      *slog.Logger

	// Query orders the videos auto-play-next walks through.
	Query library.QueryOptions
	// Speed overrides the default playback speed when positive.
	Speed float64
	// Resume starts from the stored position even when remember_position is off.
	Resume bool

	SkipSeconds        float64
	SampleInterval     time.Duration
	CheckpointInterval time.Duration
}

// Runner plays a video and, when auto-play-next is enabled, the videos that
// follow it, until the commands end or the context is canceled.
type Runner struct {
	config RunnerConfig
	logger *slog.Logger
}

// NewRunner creates a new runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.SkipSeconds <= 0 {
		cfg.SkipSeconds = 15
	}
	return &Runner{
		config: cfg,
		logger: logger.With("component", "runner"),
	}
}

type fixedSpeed float64

func (f fixedSpeed) DefaultPlaybackSpeed(context.Context) (float64, error) {
	return float64(f), nil
}

// Run plays id and blocks until a quit command, the end of commands, or
// context cancellation. The open session is always closed before returning.
func (r *Runner) Run(ctx context.Context, id uuid.UUID, commands <-chan Command) error {
	prefs, err := r.config.Preferences.Load(ctx)
	if err != nil {
		r.logger.Warn("settings unavailable, using defaults", "error", err)
		prefs = settings.Defaults()
	}

	var finished <-chan events.Event
	if r.config.Bus != nil {
		ch := r.config.Bus.Subscribe(events.EventPlaybackFinished, 4)
		defer r.config.Bus.Unsubscribe(ch)
		finished = ch
	}

	video, err := r.config.Catalog.Get(id)
	if err != nil {
		return err
	}

	for video != nil {
		session := r.open(ctx, video, prefs)
		if err := session.LoadErr(); err != nil {
			_ = session.Close(ctx)
			return fmt.Errorf("open %q: %w", video.Title, err)
		}
		if err := session.Play(ctx); err != nil {
			_ = session.Close(ctx)
			return fmt.Errorf("play %q: %w", video.Title, err)
		}
		if r.config.Display != nil {
			r.config.Display.Started(video, session.Snapshot())
		}

		next, runErr := r.drive(ctx, session, video, prefs, commands, &finished)
		closeErr := session.Close(context.WithoutCancel(ctx))
		if runErr != nil {
			return runErr
		}
		if closeErr != nil {
			r.logger.Warn("close session", "video", video.ID, "error", closeErr)
		}
		video = next
	}
	return nil
}

func (r *Runner) open(ctx context.Context, video *library.Video, prefs settings.Settings) *player.Session {
	var speeds player.SpeedProvider = r.config.Preferences
	if r.config.Speed > 0 {
		speeds = fixedSpeed(r.config.Speed)
	}

	return player.Open(ctx, player.Config{
		VideoID:            video.ID,
		Locator:            video.Path,
		StartPosition:      video.LastPositionSeconds,
		Resume:             r.config.Resume || prefs.RememberPosition,
		Engine:             r.config.NewEngine(),
		Recorder:           r.config.Catalog,
		Speeds:             speeds,
		Bus:                r.config.Bus,
		Logger:             r.logger,
		SampleInterval:     r.config.SampleInterval,
		CheckpointInterval: r.config.CheckpointInterval,
	})
}

// drive applies commands to the session. It returns the next video to play
// when the current one finishes and auto-play-next has a successor.
func (r *Runner) drive(ctx context.Context, s *player.Session, video *library.Video, prefs settings.Settings,
	commands <-chan Command, finished *<-chan events.Event) (*library.Video, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case cmd, ok := <-commands:
			if !ok || cmd.Op == OpQuit {
				return nil, nil
			}
			if err := r.apply(ctx, s, video, cmd); err != nil {
				r.logger.Debug("command failed", "op", cmd.Op, "error", err)
				if r.config.Display != nil {
					r.config.Display.Failed(err)
				}
			}

		case e, ok := <-*finished:
			if !ok {
				*finished = nil
				continue
			}
			if e.EntityID() != video.ID.String() || !prefs.AutoPlayNext {
				continue
			}
			next, found := r.config.Catalog.Next(video.ID, r.config.Query)
			if !found {
				r.logger.Debug("end of list", "video", video.ID)
				continue
			}
			r.logger.Info("playing next", "from", video.ID, "to", next.ID)
			return next, nil
		}
	}
}

func (r *Runner) apply(ctx context.Context, s *player.Session, video *library.Video, cmd Command) error {
	switch cmd.Op {
	case OpToggle:
		return s.TogglePlayPause(ctx)
	case OpForward:
		return s.Skip(r.config.SkipSeconds)
	case OpBack:
		return s.Skip(-r.config.SkipSeconds)
	case OpSpeed:
		return s.SetPlaybackSpeed(cmd.Value)
	case OpVolume:
		return s.SetVolume(cmd.Value)
	case OpSeek:
		return s.Seek(cmd.Value)
	case OpStatus:
		if r.config.Display != nil {
			r.config.Display.Status(video, s.Snapshot())
		}
		return nil
	default:
		return ErrUnknownCommand
	}
}
