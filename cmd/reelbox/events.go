package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/events"
	"github.com/vmunix/reelbox/internal/format"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent events",
	Args:  cobra.NoArgs,
	RunE:  runEventsCmd,
}

func init() {
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().Duration("since", 0, "Only events newer than this (e.g. 24h)")
	eventsCmd.Flags().String("video", "", "Only events for this video id")

	pruneCmd := &cobra.Command{
		Use:   "prune <age>",
		Short: "Delete events older than age (e.g. 720h)",
		Args:  cobra.ExactArgs(1),
		RunE:  runEventsPrune,
	}
	eventsCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsPrune(cmd *cobra.Command, args []string) error {
	age, err := time.ParseDuration(args[0])
	if err != nil || age <= 0 {
		return fmt.Errorf("invalid age %q", args[0])
	}
	return withApp(cmd, func(a *app.App) error {
		n, err := a.Events.Prune(age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d events\n", n)
		return nil
	})
}

type eventView struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurred_at"`
}

func runEventsCmd(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")
	videoRef, _ := cmd.Flags().GetString("video")

	return withApp(cmd, func(a *app.App) error {
		var raw []events.RawEvent
		var err error
		switch {
		case videoRef != "":
			v, rerr := a.Library.Resolve(videoRef)
			if rerr != nil {
				return rerr
			}
			raw, err = a.Events.ForEntity(events.EntityVideo, v.ID.String())
		case since > 0:
			raw, err = a.Events.Since(time.Now().Add(-since))
		default:
			raw, err = a.Events.Recent(limit)
			slices.Reverse(raw)
		}
		if err != nil {
			return fmt.Errorf("failed to fetch events: %w", err)
		}
		if limit > 0 && len(raw) > limit {
			raw = raw[len(raw)-limit:]
		}

		registry := events.DefaultRegistry()
		items := make([]eventView, len(raw))
		for i, r := range raw {
			items[i] = eventView{
				ID:         r.ID,
				Type:       r.EventType,
				EntityType: r.EntityType,
				EntityID:   r.EntityID,
				Summary:    summarize(registry, r),
				OccurredAt: r.OccurredAt,
			}
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No events")
			return nil
		}

		fmt.Fprintf(out, "Events (%d):\n\n", len(items))
		fmt.Fprintf(out, "  %-14s %-28s %-10s %s\n", "TIME", "TYPE", "VIDEO", "DETAIL")
		fmt.Fprintln(out, "  "+strings.Repeat("-", 80))
		for _, e := range items {
			entity := e.EntityID
			if len(entity) > 8 {
				entity = entity[:8]
			}
			fmt.Fprintf(out, "  %-14s %-28s %-10s %s\n", format.Ago(e.OccurredAt), e.Type, entity, e.Summary)
		}
		return nil
	})
}

// summarize renders the payload of a stored event as a short description.
func summarize(registry *events.Registry, raw events.RawEvent) string {
	e, err := registry.Unmarshal(raw)
	if err != nil {
		return ""
	}
	switch e := e.(type) {
	case *events.VideoImported:
		return fmt.Sprintf("%q %s", e.Title, format.FileSize(e.SizeBytes))
	case *events.VideoImportFailed:
		return fmt.Sprintf("%s failed at %s: %s", e.SourcePath, e.Step, e.Reason)
	case *events.VideoUpdated:
		return fmt.Sprintf("%s %q -> %q", e.Field, e.OldValue, e.NewValue)
	case *events.VideoDeleted:
		return e.Path
	case *events.VideoWatched:
		return fmt.Sprintf("view %d", e.ViewCount)
	case *events.PlaybackStateChanged:
		return fmt.Sprintf("%s -> %s at %s", e.OldState, e.NewState, format.Duration(e.Position))
	case *events.PlaybackDurationResolved:
		return format.Duration(e.Duration)
	case *events.PlaybackFinished:
		return "at " + format.Duration(e.Position)
	}
	return ""
}
