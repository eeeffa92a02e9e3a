// Package app wires the library, settings, event bus and media tools into a
// running application.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/vmunix/reelbox/internal/config"
	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/media"
	"github.com/vmunix/reelbox/internal/migrations"
	"github.com/vmunix/reelbox/internal/mpv"
	"github.com/vmunix/reelbox/internal/player"
	"github.com/vmunix/reelbox/internal/settings"
	"github.com/vmunix/reelbox/internal/storage"
)

// Options overrides collaborators, mainly for tests.
type Options struct {
	Stderr      io.Writer // log destination when no log file is configured
	Prober      media.Prober
	Thumbnailer media.Thumbnailer
}

// App holds the opened database and the components built on it.
type App struct {
	Config   *config.Config
	DB       *sql.DB
	Logger   *slog.Logger
	Bus      *events.Bus
	Events   *events.EventLog
	Settings *settings.Store
	Files    *storage.Dir
	Library  *library.Manager

	logCloser io.Closer
}

// Open opens the database, applies migrations and loads the library.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger, logCloser, err := NewLogger(cfg.Log, stderr)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, Logger: logger, logCloser: logCloser}
	if err := a.open(ctx, opts); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) open(ctx context.Context, opts Options) error {
	cfg := a.Config

	dbDir := filepath.Dir(cfg.Database.Path)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Database.Path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	a.DB = db

	if err := migrations.Up(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	a.Files = storage.NewOS(cfg.Library.Root)
	if err := a.Files.Ensure(); err != nil {
		return fmt.Errorf("library root: %w", err)
	}

	a.Events = events.NewEventLog(db)
	a.Bus = events.NewBus(a.Events, a.Logger.With("component", "bus"))
	a.Settings = settings.NewStore(db)

	prober := opts.Prober
	if prober == nil {
		prober = media.NewFFprobe(cfg.Media.FFprobe, cfg.Media.ProbeTimeout)
	}
	thumbnailer := opts.Thumbnailer
	if thumbnailer == nil {
		thumbnailer = media.NewFFmpeg(cfg.Media.FFmpeg, cfg.Media.ProbeTimeout)
	}

	a.Library = library.NewManager(library.ManagerConfig{
		Store:       library.NewStore(db),
		Files:       a.Files,
		Prober:      prober,
		Thumbnailer: thumbnailer,
		Bus:         a.Bus,
		Logger:      a.Logger,
		ThumbnailAt: cfg.Media.ThumbnailAt,
	})
	if err := a.Library.Refresh(ctx); err != nil {
		return fmt.Errorf("load library: %w", err)
	}

	a.Logger.Debug("opened", "db", cfg.Database.Path, "root", cfg.Library.Root, "videos", a.Library.Count())
	return nil
}

// NewEngine returns a media engine backed by the configured mpv binary.
func (a *App) NewEngine() player.Engine {
	return mpv.New(mpv.Config{
		Binary: a.Config.Player.MPV,
		Logger: a.Logger,
	})
}

// Close releases the bus, database and log file.
func (a *App) Close() error {
	var errs []error
	if a.Bus != nil {
		errs = append(errs, a.Bus.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}
