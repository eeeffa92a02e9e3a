package mpv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	durationObserverID = 1

	commandTimeout = 2 * time.Second
	quitTimeout    = 3 * time.Second
)

// Config configures the mpv process.
type Config struct {
	Binary       string
	ExtraArgs    []string
	StartTimeout time.Duration
	Logger       *slog.Logger
}

// Engine plays media in an mpv child process.
type Engine struct {
	binary       string
	extraArgs    []string
	startTimeout time.Duration
	logger       *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	dir    string
	client *Client
}

// New creates an engine. Open starts the process.
func New(cfg Config) *Engine {
	binary := cfg.Binary
	if binary == "" {
		binary = "mpv"
	}
	timeout := cfg.StartTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		binary:       binary,
		extraArgs:    cfg.ExtraArgs,
		startTimeout: timeout,
		logger:       logger.With("component", "mpv"),
	}
}

// Open starts mpv paused, connects to its IPC socket and loads locator.
func (e *Engine) Open(ctx context.Context, locator string) error {
	if _, err := os.Stat(locator); err != nil {
		return fmt.Errorf("open media: %w", err)
	}

	dir, err := os.MkdirTemp("", "reelbox-mpv-*")
	if err != nil {
		return fmt.Errorf("create socket dir: %w", err)
	}
	socket := filepath.Join(dir, "ipc.sock")

	args := append([]string{
		"--idle=yes",
		"--pause",
		"--keep-open=yes",
		"--no-terminal",
		"--force-window=yes",
		"--input-ipc-server=" + socket,
	}, e.extraArgs...)

	cmd := exec.Command(e.binary, args...)
	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(dir)
		return fmt.Errorf("start mpv: %w", err)
	}
	e.logger.Debug("mpv started", "pid", cmd.Process.Pid, "socket", socket)

	e.mu.Lock()
	e.cmd = cmd
	e.dir = dir
	e.mu.Unlock()

	startCtx, cancel := context.WithTimeout(ctx, e.startTimeout)
	defer cancel()

	var conn net.Conn
	err = retry.Do(
		func() error {
			var dialer net.Dialer
			c, err := dialer.DialContext(startCtx, "unix", socket)
			if err != nil {
				return err
			}
			conn = c
			return nil
		},
		retry.Context(startCtx),
		retry.Attempts(0),
		retry.Delay(50*time.Millisecond),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = e.Close()
		return fmt.Errorf("connect to mpv: %w", err)
	}

	if err := e.attach(startCtx, NewClient(conn), locator); err != nil {
		_ = e.Close()
		return err
	}
	return nil
}

// attach loads locator over an established connection.
func (e *Engine) attach(ctx context.Context, client *Client, locator string) error {
	e.mu.Lock()
	e.client = client
	e.mu.Unlock()

	if err := client.Observe(ctx, durationObserverID, "duration"); err != nil {
		return fmt.Errorf("observe duration: %w", err)
	}
	if _, err := client.Command(ctx, "loadfile", locator, "replace"); err != nil {
		return fmt.Errorf("load %s: %w", locator, err)
	}
	if err := client.WaitLoaded(ctx); err != nil {
		return fmt.Errorf("load %s: %w", locator, err)
	}
	return nil
}

func (e *Engine) conn() (*Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client == nil {
		return nil, ErrClosed
	}
	return e.client, nil
}

// SetRate pauses for 0, otherwise sets speed and unpauses.
func (e *Engine) SetRate(rate float64) error {
	c, err := e.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	if rate <= 0 {
		return c.Set(ctx, "pause", true)
	}
	if err := c.Set(ctx, "speed", rate); err != nil {
		return err
	}
	return c.Set(ctx, "pause", false)
}

// Seek jumps to an absolute position.
func (e *Engine) Seek(seconds float64) error {
	c, err := e.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	_, err = c.Command(ctx, "seek", seconds, "absolute")
	return err
}

// SetVolume maps [0, 1] onto mpv's 0-100 volume.
func (e *Engine) SetVolume(level float64) error {
	c, err := e.conn()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return c.Set(ctx, "volume", level*100)
}

// Position reads time-pos. Before the first frame it reports 0.
func (e *Engine) Position() (float64, error) {
	c, err := e.conn()
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	raw, err := c.Get(ctx, "time-pos")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.Reason == "property unavailable" {
			return 0, nil
		}
		return 0, err
	}
	pos, err := decodeFloat(raw)
	if errors.Is(err, ErrUnavailable) {
		return 0, nil
	}
	return pos, err
}

// Duration waits for mpv to report the duration of the loaded file.
func (e *Engine) Duration(ctx context.Context) (float64, error) {
	c, err := e.conn()
	if err != nil {
		return 0, err
	}
	raw, err := c.WaitProperty(ctx, "duration")
	if err != nil {
		return 0, err
	}
	return decodeFloat(raw)
}

// Close asks mpv to quit, then kills it if it lingers.
func (e *Engine) Close() error {
	e.mu.Lock()
	client, cmd, dir := e.client, e.cmd, e.dir
	e.client, e.cmd, e.dir = nil, nil, ""
	e.mu.Unlock()

	if client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		_, _ = client.Command(ctx, "quit")
		cancel()
		_ = client.Close()
	}

	if cmd != nil {
		waitDone := make(chan error, 1)
		go func() { waitDone <- cmd.Wait() }()
		select {
		case <-waitDone:
		case <-time.After(quitTimeout):
			e.logger.Warn("mpv did not exit, killing", "pid", cmd.Process.Pid)
			_ = cmd.Process.Kill()
			<-waitDone
		}
	}

	if dir != "" {
		_ = os.RemoveAll(dir)
	}
	return nil
}
