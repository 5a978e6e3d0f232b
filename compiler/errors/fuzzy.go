package errors

import (
	"sort"
	"strings"
)

const (
	// DefaultMaxDistance is the largest edit distance still offered as a suggestion
	DefaultMaxDistance = 3
	// DefaultMaxSuggestions is the default maximum number of suggestions to return
	DefaultMaxSuggestions = 3
)

type candidate struct {
	value    string
	distance int
	index    int
}

// FindSimilar returns the candidates within DefaultMaxDistance edits of target, closest
// first. Matching ignores case; ties keep the candidates' order.
func FindSimilar(target string, candidates []string) []string {
	var matches []candidate
	lowered := strings.ToLower(target)
	for i, c := range candidates {
		dist := LevenshteinDistance(lowered, strings.ToLower(c))
		if dist <= DefaultMaxDistance {
			matches = append(matches, candidate{value: c, distance: dist, index: i})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].distance < matches[j].distance
	})

	out := make([]string, 0, DefaultMaxSuggestions)
	for i := 0; i < len(matches) && i < DefaultMaxSuggestions; i++ {
		out = append(out, matches[i].value)
	}
	return out
}

// Closest returns the single best suggestion for target
func Closest(target string, candidates []string) (string, bool) {
	matches := FindSimilar(target, candidates)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// LevenshteinDistance is the minimum number of single-rune insertions, deletions or
// substitutions that turn s1 into s2.
func LevenshteinDistance(s1, s2 string) int {
	a, b := []rune(s1), []rune(s2)
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(b)]
}
