package library

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/cases"
)

// suggestThreshold is the minimum Jaro-Winkler similarity for a suggestion.
const suggestThreshold = 0.7

// Suggest returns the title closest to text, for "did you mean" hints when a
// search yields nothing. ok is false when no title is similar enough.
func Suggest(videos []*Video, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || len(videos) == 0 {
		return "", false
	}

	fold := cases.Fold()
	needle := fold.String(text)

	var best string
	var bestScore float32
	for _, v := range videos {
		score := edlib.JaroWinklerSimilarity(needle, fold.String(v.Title))
		// Titles often embed the search term; score the closest word too
		for _, word := range strings.Fields(v.Title) {
			if s := edlib.JaroWinklerSimilarity(needle, fold.String(word)); s > score {
				score = s
			}
		}
		if score > bestScore {
			best = v.Title
			bestScore = score
		}
	}

	if bestScore < suggestThreshold {
		return "", false
	}
	return best, true
}
