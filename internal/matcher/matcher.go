package matcher

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	DefaultMaxSuggestions = 3
	DefaultCutoff         = 0.6
)

// Filter returns the items whose title contains query, ignoring case.
// Input order is preserved.
func Filter[T any](query string, items []T, title func(T) string) []T {
	needle := strings.ToLower(query)

	var matched []T
	for _, item := range items {
		if strings.Contains(strings.ToLower(title(item)), needle) {
			matched = append(matched, item)
		}
	}

	return matched
}

type candidate struct {
	title string
	score float64
}

// Suggest returns up to n lower-cased titles whose similarity ratio with
// query is at least cutoff, best first. Equal scores are ordered by title,
// descending. n <= 0 and cutoff outside [0, 1] fall back to the defaults.
func Suggest(query string, titles []string, n int, cutoff float64) []string {
	if n <= 0 {
		n = DefaultMaxSuggestions
	}
	if cutoff < 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}

	word := strings.ToLower(query)

	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(runes(word))

	var candidates []candidate
	for _, title := range titles {
		lower := strings.ToLower(title)
		m.SetSeq1(runes(lower))

		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		if score := m.Ratio(); score >= cutoff {
			candidates = append(candidates, candidate{title: lower, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].title > candidates[j].title
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.title)
	}

	return suggestions
}

// runes splits s into one element per character, which is the sequence
// granularity the matcher compares at.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
