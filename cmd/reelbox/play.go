package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/format"
	"github.com/vmunix/reelbox/internal/library"
	"github.com/vmunix/reelbox/internal/player"
	"github.com/vmunix/reelbox/internal/settings"
)

var playCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Play a video",
	Long: `Plays a video with mpv and reads commands from standard input:

  p          play/pause
  f, b       skip forward/back
  s <x>      playback speed (e.g. s 1.5)
  v <0-100>  volume
  g <sec>    seek to position
  i          show position
  q          quit

End of input also stops playback. With auto_play_next enabled, the next
video of the listing selected by --filter/--sort/--search follows.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().Float64("speed", 0, "Playback speed (default: stored setting)")
	playCmd.Flags().Bool("resume", false, "Resume from the stored position")
	playCmd.Flags().StringP("filter", "f", "all", "Listing used for auto-play-next")
	playCmd.Flags().StringP("sort", "s", "newest", "Order used for auto-play-next")
	playCmd.Flags().StringP("search", "q", "", "Title search used for auto-play-next")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	speed, _ := cmd.Flags().GetFloat64("speed")
	resume, _ := cmd.Flags().GetBool("resume")
	if speed < 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		return player.ErrInvalidSpeed
	}

	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.Resolve(args[0])
		if err != nil {
			return err
		}
		opts, err := queryOptions(cmd, a)
		if err != nil {
			return err
		}

		display := &terminalDisplay{out: cmd.OutOrStdout()}
		runner := app.NewRunner(app.RunnerConfig{
			Catalog:            a.Library,
			Preferences:        a.Settings,
			NewEngine:          newEngine(a),
			Bus:                a.Bus,
			Display:            display,
			Logger:             a.Logger,
			Query:              opts,
			Speed:              speed,
			Resume:             resume,
			SkipSeconds:        a.Config.Player.SkipSeconds,
			SampleInterval:     a.Config.Player.SampleInterval,
			CheckpointInterval: a.Config.Player.CheckpointInterval,
		})

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		commands := make(chan app.Command)
		go readCommands(ctx, cmd.InOrStdin(), commands, display)

		err = runner.Run(ctx, v.ID, commands)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
}

// newEngine is replaced by tests.
var newEngine = func(a *app.App) func() player.Engine {
	return a.NewEngine
}

// readCommands parses lines from r until EOF, then closes commands.
func readCommands(ctx context.Context, r io.Reader, commands chan<- app.Command, display app.Display) {
	defer close(commands)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, err := app.ParseCommand(line)
		if err != nil {
			display.Failed(err)
			continue
		}
		select {
		case commands <- cmd:
		case <-ctx.Done():
			return
		}
	}
}

// terminalDisplay prints playback status lines.
type terminalDisplay struct {
	mu  sync.Mutex
	out io.Writer
}

func (d *terminalDisplay) Started(v *library.Video, st player.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "Playing %q (%s) at %s speed\n", v.Title, format.Duration(v.DurationSeconds), settings.SpeedLabel(st.Speed))
}

func (d *terminalDisplay) Status(v *library.Video, st player.State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[%s] %s / %s  speed %s  volume %d%%\n",
		st.Status,
		format.Duration(st.CurrentTime),
		format.Duration(st.Duration),
		settings.SpeedLabel(st.Speed),
		int(st.Volume*100+0.5))
}

func (d *terminalDisplay) Failed(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "error: %v\n", err)
}
