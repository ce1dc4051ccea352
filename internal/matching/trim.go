package matching

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// NormalizeTrim merges the user trim with the trims scraped from the two
// history sources, longest words first. Longer words tend to be the more
// distinguishing qualifiers ("limited" over "se"); this is a weighting
// heuristic for the matcher, not a canonical trim.
func NormalizeTrim(userTrim, sourceATrim, sourceBTrim string) string {
	parts := make([]string, 0, 3)
	for _, t := range []string{userTrim, sourceATrim, sourceBTrim} {
		if t = strings.TrimSpace(t); t != "" {
			parts = append(parts, t)
		}
	}
	return SortByLength(strings.Join(parts, " "))
}

// SortByLength reorders the words of s by descending length. Words of equal
// length keep their relative order.
func SortByLength(s string) string {
	words := strings.Fields(s)
	sort.SliceStable(words, func(i, j int) bool {
		return utf8.RuneCountInString(words[i]) > utf8.RuneCountInString(words[j])
	})
	return strings.Join(words, " ")
}
