package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show details of a video",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a video",
		Long:  "Sets the display title. A blank title leaves the video unchanged.",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runRename,
	}

	favoriteCmd := &cobra.Command{
		Use:     "favorite <id>",
		Aliases: []string{"fav"},
		Short:   "Mark a video as favorite",
		Args:    cobra.ExactArgs(1),
		RunE:    runFavorite,
	}
	favoriteCmd.Flags().Bool("off", false, "Clear the favorite flag")
	favoriteCmd.Flags().Bool("toggle", false, "Flip the favorite flag")
	favoriteCmd.MarkFlagsMutuallyExclusive("off", "toggle")

	deleteCmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a video and its file",
		Args:    cobra.ExactArgs(1),
		RunE:    runDelete,
	}

	rootCmd.AddCommand(showCmd, renameCmd, favoriteCmd, deleteCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.Resolve(args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), toView(v))
		}
		printVideo(cmd.OutOrStdout(), v)
		return nil
	})
}

func runRename(cmd *cobra.Command, args []string) error {
	title := strings.Join(args[1:], " ")

	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := a.Library.Rename(cmd.Context(), v.ID, title); err != nil {
			return err
		}
		updated, err := a.Library.Get(v.ID)
		if err != nil {
			return err
		}
		if updated.Title == v.Title {
			fmt.Fprintf(cmd.OutOrStdout(), "Title unchanged: %q\n", v.Title)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", v.Title, updated.Title)
		return nil
	})
}

func runFavorite(cmd *cobra.Command, args []string) error {
	off, _ := cmd.Flags().GetBool("off")
	toggle, _ := cmd.Flags().GetBool("toggle")

	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.Resolve(args[0])
		if err != nil {
			return err
		}

		favorite := !off
		if toggle {
			favorite, err = a.Library.ToggleFavorite(cmd.Context(), v.ID)
		} else {
			err = a.Library.SetFavorite(cmd.Context(), v.ID, favorite)
		}
		if err != nil {
			return err
		}

		if favorite {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is a favorite\n", v.Title)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%q is no longer a favorite\n", v.Title)
		}
		return nil
	})
}

func runDelete(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		v, err := a.Library.Resolve(args[0])
		if err != nil {
			return err
		}
		if err := a.Library.Delete(cmd.Context(), v.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%d videos left)\n", v.Title, a.Library.Count())
		return nil
	})
}
