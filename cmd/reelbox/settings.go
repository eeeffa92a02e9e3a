package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change playback preferences",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show current settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShow,
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting",
		Long: `Changes a setting. Keys:

  default_playback_speed  speed multiplier (0.5, 0.75, 1, 1.25, 1.5, 2)
  auto_play_next          true/false
  remember_position       true/false
  show_thumbnails         true/false`,
		Args: cobra.ExactArgs(2),
		RunE: runSettingsSet,
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore default settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsReset,
	}

	settingsCmd.AddCommand(showCmd, setCmd, resetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		st, err := a.Settings.Load(cmd.Context())
		if err != nil {
			return err
		}
		return printSettings(cmd, st)
	})
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		st, err := a.Settings.Set(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printSettings(cmd, st)
	})
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		if err := a.Settings.Reset(cmd.Context()); err != nil {
			return err
		}
		return printSettings(cmd, settings.Defaults())
	})
}

func printSettings(cmd *cobra.Command, st settings.Settings) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		values := make(map[string]string, len(settings.Keys()))
		for _, key := range settings.Keys() {
			values[key], _ = st.Value(key)
		}
		return printJSON(out, values)
	}

	for _, key := range settings.Keys() {
		value, _ := st.Value(key)
		if key == settings.KeyDefaultPlaybackSpeed {
			value = settings.SpeedLabel(st.DefaultPlaybackSpeed)
		}
		fmt.Fprintf(out, "  %-24s %s\n", key, value)
	}
	fmt.Fprintf(out, "\n  Speeds: %s\n", speedList())
	return nil
}

func speedList() string {
	s := ""
	for i, speed := range settings.AvailableSpeeds {
		if i > 0 {
			s += ", "
		}
		s += strconv.FormatFloat(speed, 'f', -1, 64)
	}
	return s
}
