package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmunix/reelbox/internal/format"
	"github.com/vmunix/reelbox/internal/library"
)

// videoView is the JSON shape of a video.
type videoView struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Path            string     `json:"path"`
	DurationSeconds float64    `json:"duration_seconds"`
	SizeBytes       int64      `json:"size_bytes"`
	MimeType        string     `json:"mime_type"`
	HasThumbnail    bool       `json:"has_thumbnail"`
	AddedAt         time.Time  `json:"added_at"`
	IsFavorite      bool       `json:"is_favorite"`
	LastPosition    float64    `json:"last_position_seconds"`
	ViewCount       int64      `json:"view_count"`
	LastWatchedAt   *time.Time `json:"last_watched_at,omitempty"`
}

func toView(v *library.Video) videoView {
	return videoView{
		ID:              v.ID.String(),
		Title:           v.Title,
		Path:            v.Path,
		DurationSeconds: v.DurationSeconds,
		SizeBytes:       v.SizeBytes,
		MimeType:        v.MimeType,
		HasThumbnail:    v.HasThumbnail(),
		AddedAt:         v.AddedAt,
		IsFavorite:      v.IsFavorite,
		LastPosition:    v.LastPositionSeconds,
		ViewCount:       v.ViewCount,
		LastWatchedAt:   v.LastWatchedAt,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// shortID is the id prefix shown in listings; Resolve accepts it back.
func shortID(v *library.Video) string {
	return v.ID.String()[:8]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printVideoList(w io.Writer, videos []*library.Video) {
	fmt.Fprintf(w, "  %-8s %-3s %-40s %8s %9s %s\n", "ID", "", "TITLE", "LENGTH", "SIZE", "ADDED")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 84))

	for _, v := range videos {
		fav := ""
		if v.IsFavorite {
			fav = "*"
		}
		fmt.Fprintf(w, "  %-8s %-3s %-40s %8s %9s %s\n",
			shortID(v),
			fav,
			truncate(v.Title, 40),
			format.Duration(v.DurationSeconds),
			format.FileSize(v.SizeBytes),
			format.Ago(v.AddedAt))
	}
}

func printVideo(w io.Writer, v *library.Video) {
	fmt.Fprintf(w, "%s\n\n", v.Title)
	fmt.Fprintf(w, "  ID:        %s\n", v.ID)
	fmt.Fprintf(w, "  File:      %s\n", v.Path)
	fmt.Fprintf(w, "  Type:      %s\n", v.MimeType)
	fmt.Fprintf(w, "  Length:    %s\n", format.Duration(v.DurationSeconds))
	fmt.Fprintf(w, "  Size:      %s\n", format.FileSize(v.SizeBytes))
	fmt.Fprintf(w, "  Added:     %s (%s)\n", v.AddedAt.Local().Format(time.DateTime), format.Ago(v.AddedAt))
	fmt.Fprintf(w, "  Favorite:  %t\n", v.IsFavorite)
	fmt.Fprintf(w, "  Thumbnail: %t\n", v.HasThumbnail())
	fmt.Fprintf(w, "  Views:     %d\n", v.ViewCount)
	if v.LastWatchedAt != nil {
		fmt.Fprintf(w, "  Watched:   %s\n", format.Ago(*v.LastWatchedAt))
	}
	if v.LastPositionSeconds > 0 {
		fmt.Fprintf(w, "  Position:  %s\n", format.Duration(v.LastPositionSeconds))
	}
}
