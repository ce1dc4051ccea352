package matching

import (
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	unbaseScale   = 0.95
	partialScale  = 0.90
	longTextScale = 0.60
)

// Match is one scored candidate
type Match struct {
	Candidate string `json:"candidate"`
	Score     int    `json:"score"`
	Index     int    `json:"-"` // position in the candidate list
}

// BestMatch returns the highest scoring candidate for query. The first
// candidate wins ties.
func BestMatch(query string, candidates []string) (Match, error) {
	matches, err := TopMatches(query, candidates, 1)
	if err != nil {
		return Match{}, err
	}
	return matches[0], nil
}

// TopMatches scores every candidate against query and returns up to limit
// matches ordered by descending score. A limit <= 0 returns all of them.
func TopMatches(query string, candidates []string, limit int) ([]Match, error) {
	if len(candidates) == 0 {
		return nil, ErrEmptyCandidates
	}

	processed := Process(query)
	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{
			Candidate: c,
			Score:     weightedRatio(processed, Process(c)),
			Index:     i,
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

// WRatio scores the similarity of a and b from 0 to 100. It ignores case,
// accents, punctuation and word order, and rates a string that is a token
// subset of the other highly.
func WRatio(a, b string) int {
	return weightedRatio(Process(a), Process(b))
}

func weightedRatio(p1, p2 string) int {
	if p1 == "" || p2 == "" {
		return 0
	}

	base := ratio(p1, p2)

	l1, l2 := len([]rune(p1)), len([]rune(p2))
	lenRatio := float64(max(l1, l2)) / float64(min(l1, l2))

	if lenRatio < 1.5 {
		tsor := tokenSortRatio(p1, p2, ratio) * unbaseScale
		tser := tokenSetRatio(p1, p2, ratio) * unbaseScale
		return round(math.Max(base, math.Max(tsor, tser)))
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longTextScale
	}

	partial := partialRatio(p1, p2) * scale
	ptsor := tokenSortRatio(p1, p2, partialRatio) * unbaseScale * scale
	ptser := tokenSetRatio(p1, p2, partialRatio) * unbaseScale * scale
	return round(math.Max(math.Max(base, partial), math.Max(ptsor, ptser)))
}

// ratio is the normalized edit-distance similarity of a and b
func ratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 || lb == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(max(la, lb)))
}

// partialRatio is the best ratio of the shorter string against every
// same-length window of the longer one.
func partialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		return 0
	}

	s := string(shorter)
	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		r := ratio(s, string(longer[i:i+len(shorter)]))
		if r > best {
			best = r
		}
		if best >= 100 {
			break
		}
	}
	return best
}

func tokenSortRatio(a, b string, scorer func(string, string) float64) float64 {
	return scorer(sortedTokens(strings.Fields(a)), sortedTokens(strings.Fields(b)))
}

func tokenSetRatio(a, b string, scorer func(string, string) float64) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}

	sect := sortedTokens(common)
	combinedA := strings.TrimSpace(sect + " " + sortedTokens(onlyA))
	combinedB := strings.TrimSpace(sect + " " + sortedTokens(onlyB))

	return math.Max(
		math.Max(scorer(sect, combinedA), scorer(sect, combinedB)),
		scorer(combinedA, combinedB),
	)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Fields(s) {
		set[t] = true
	}
	return set
}

func sortedTokens(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

func round(f float64) int {
	return int(math.Round(f))
}
