package library

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// DefaultRecentLimit caps the recently watched filter.
const DefaultRecentLimit = 10

// Filter selects a subset of the collection.
type Filter string

const (
	FilterAll             Filter = "all"
	FilterFavorites       Filter = "favorites"
	FilterRecentlyWatched Filter = "recent"
)

// Filters lists the available filters.
func Filters() []Filter {
	return []Filter{FilterAll, FilterFavorites, FilterRecentlyWatched}
}

// ParseFilter converts a filter name. Empty selects FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return FilterAll, nil
	}
	f := Filter(strings.ToLower(s))
	if !slices.Contains(Filters(), f) {
		return "", fmt.Errorf("%w: filter %q", ErrInvalidOption, s)
	}
	return f, nil
}

// SortOrder orders a listing.
type SortOrder string

const (
	SortDateAddedNewest  SortOrder = "newest"
	SortDateAddedOldest  SortOrder = "oldest"
	SortTitleAsc         SortOrder = "title"
	SortTitleDesc        SortOrder = "title-desc"
	SortDurationShortest SortOrder = "shortest"
	SortDurationLongest  SortOrder = "longest"
	SortSizeSmallest     SortOrder = "smallest"
	SortSizeLargest      SortOrder = "largest"
)

// SortOrders lists the available sort orders.
func SortOrders() []SortOrder {
	return []SortOrder{
		SortDateAddedNewest, SortDateAddedOldest,
		SortTitleAsc, SortTitleDesc,
		SortDurationShortest, SortDurationLongest,
		SortSizeSmallest, SortSizeLargest,
	}
}

// ParseSort converts a sort name. Empty selects SortDateAddedNewest.
func ParseSort(s string) (SortOrder, error) {
	if s == "" {
		return SortDateAddedNewest, nil
	}
	o := SortOrder(strings.ToLower(s))
	if !slices.Contains(SortOrders(), o) {
		return "", fmt.Errorf("%w: sort %q", ErrInvalidOption, s)
	}
	return o, nil
}

// QueryOptions describes a listing.
type QueryOptions struct {
	Filter      Filter
	Sort        SortOrder
	Search      string
	RecentLimit int // 0 = DefaultRecentLimit
}

// Query derives a listing from videos: filter, then sort, then narrow by
// case-insensitive title search. The recently watched cap applies before the
// search. videos is not modified; the returned slice shares its elements.
func Query(videos []*Video, opts QueryOptions) []*Video {
	out := applyFilter(videos, opts)
	sortVideos(out, opts.Sort)
	return applySearch(out, opts.Search)
}

func applyFilter(videos []*Video, opts QueryOptions) []*Video {
	out := make([]*Video, 0, len(videos))
	switch opts.Filter {
	case FilterFavorites:
		for _, v := range videos {
			if v.IsFavorite {
				out = append(out, v)
			}
		}
	case FilterRecentlyWatched:
		for _, v := range videos {
			if v.LastWatchedAt != nil {
				out = append(out, v)
			}
		}
		slices.SortStableFunc(out, func(a, b *Video) int {
			return b.LastWatchedAt.Compare(*a.LastWatchedAt)
		})
		limit := opts.RecentLimit
		if limit <= 0 {
			limit = DefaultRecentLimit
		}
		if len(out) > limit {
			out = out[:limit]
		}
	default:
		out = append(out, videos...)
	}
	return out
}

func sortVideos(videos []*Video, order SortOrder) {
	var less func(a, b *Video) int
	switch order {
	case SortDateAddedOldest:
		less = func(a, b *Video) int { return a.AddedAt.Compare(b.AddedAt) }
	case SortTitleAsc:
		less = func(a, b *Video) int { return strings.Compare(a.Title, b.Title) }
	case SortTitleDesc:
		less = func(a, b *Video) int { return strings.Compare(b.Title, a.Title) }
	case SortDurationShortest:
		less = func(a, b *Video) int { return cmp.Compare(a.DurationSeconds, b.DurationSeconds) }
	case SortDurationLongest:
		less = func(a, b *Video) int { return cmp.Compare(b.DurationSeconds, a.DurationSeconds) }
	case SortSizeSmallest:
		less = func(a, b *Video) int { return cmp.Compare(a.SizeBytes, b.SizeBytes) }
	case SortSizeLargest:
		less = func(a, b *Video) int { return cmp.Compare(b.SizeBytes, a.SizeBytes) }
	default:
		less = func(a, b *Video) int { return b.AddedAt.Compare(a.AddedAt) }
	}
	slices.SortStableFunc(videos, less)
}

func applySearch(videos []*Video, text string) []*Video {
	text = strings.TrimSpace(text)
	if text == "" {
		return videos
	}
	// Caser carries state; one per call
	fold := cases.Fold()
	needle := fold.String(text)

	out := videos[:0]
	for _, v := range videos {
		if strings.Contains(fold.String(v.Title), needle) {
			out = append(out, v)
		}
	}
	return out
}
