// Package suggest ranks "did you mean" candidates and turns resolution
// failures into diagnostics.
package suggest

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the candidates close enough to attempted, closest first.
// Ties keep the order of available. The result is empty when nothing is
// close enough.
func Suggest(attempted string, available []string) []string {
	if attempted == "" {
		return nil
	}

	type candidate struct {
		name     string
		distance int
		order    int
	}

	lowered := strings.ToLower(attempted)
	budget := utf8.RuneCountInString(attempted) / 2
	subsequence := utf8.RuneCountInString(attempted) >= 2

	var matches []candidate
	for i, name := range available {
		distance := fuzzy.LevenshteinDistance(lowered, strings.ToLower(name))
		if distance <= budget || subsequence && fuzzy.MatchFold(attempted, name) {
			matches = append(matches, candidate{name: name, distance: distance, order: i})
		}
	}

	slices.SortStableFunc(matches, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.distance, b.distance), cmp.Compare(a.order, b.order))
	})

	out := make([]string, len(matches))
	for i, match := range matches {
		out[i] = match.name
	}
	return out
}
