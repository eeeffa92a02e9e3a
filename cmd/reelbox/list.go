package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/reelbox/internal/app"
	"github.com/vmunix/reelbox/internal/format"
	"github.com/vmunix/reelbox/internal/library"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List videos in the library",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringP("filter", "f", "all", "Filter: "+joinNames(library.Filters()))
	listCmd.Flags().StringP("sort", "s", "newest", "Sort: "+joinNames(library.SortOrders()))
	listCmd.Flags().StringP("search", "q", "", "Case-insensitive title search")
	listCmd.Flags().IntP("limit", "l", 0, "Maximum number of videos to show (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func joinNames[T ~string](names []T) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}

func queryOptions(cmd *cobra.Command, a *app.App) (library.QueryOptions, error) {
	filterName, _ := cmd.Flags().GetString("filter")
	sortName, _ := cmd.Flags().GetString("sort")
	search, _ := cmd.Flags().GetString("search")

	filter, err := library.ParseFilter(filterName)
	if err != nil {
		return library.QueryOptions{}, err
	}
	order, err := library.ParseSort(sortName)
	if err != nil {
		return library.QueryOptions{}, err
	}
	return library.QueryOptions{
		Filter:      filter,
		Sort:        order,
		Search:      search,
		RecentLimit: a.Config.Library.RecentLimit,
	}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	return withApp(cmd, func(a *app.App) error {
		opts, err := queryOptions(cmd, a)
		if err != nil {
			return err
		}

		videos := a.Library.Query(opts)
		total := len(videos)
		if limit > 0 && total > limit {
			videos = videos[:limit]
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			views := make([]videoView, len(videos))
			for i, v := range videos {
				views[i] = toView(v)
			}
			return printJSON(out, views)
		}

		if total == 0 {
			if opts.Search == "" {
				fmt.Fprintln(out, "No videos.")
				return nil
			}
			fmt.Fprintf(out, "No videos match %q.\n", opts.Search)
			if title, ok := a.Library.Suggest(opts.Search); ok {
				fmt.Fprintf(out, "Did you mean %q?\n", title)
			}
			return nil
		}

		fmt.Fprintf(out, "Videos (%d, %s):\n\n", total, opts.Sort)
		printVideoList(out, videos)
		if total > len(videos) {
			fmt.Fprintf(out, "\n  Showing %d of %d videos. Use --limit to see more.\n", len(videos), total)
		}
		return nil
	})
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library totals",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

type statsView struct {
	Videos    int     `json:"videos"`
	Favorites int     `json:"favorites"`
	Watched   int     `json:"watched"`
	SizeBytes int64   `json:"size_bytes"`
	Seconds   float64 `json:"duration_seconds"`
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app.App) error {
		all := a.Library.Query(library.QueryOptions{})
		st := statsView{
			Videos:    a.Library.Count(),
			Favorites: len(a.Library.Query(library.QueryOptions{Filter: library.FilterFavorites})),
			SizeBytes: a.Library.TotalSize(),
		}
		for _, v := range all {
			st.Seconds += v.DurationSeconds
			if v.ViewCount > 0 {
				st.Watched++
			}
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, st)
		}
		fmt.Fprintf(out, "Videos:     %d\n", st.Videos)
		fmt.Fprintf(out, "Favorites:  %d\n", st.Favorites)
		fmt.Fprintf(out, "Watched:    %d\n", st.Watched)
		fmt.Fprintf(out, "Total size: %s\n", format.FileSize(st.SizeBytes))
		fmt.Fprintf(out, "Total time: %s\n", format.Duration(st.Seconds))
		return nil
	})
}
