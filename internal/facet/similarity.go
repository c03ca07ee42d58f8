package facet

import (
	"sort"
	"strings"
)

// Similarity scores how alike two strings are on a 0-100 scale. The
// breed resolver depends only on this interface so the matching
// algorithm is swappable.
type Similarity interface {
	Ratio(a, b string) float64
}

// TokenSortRatio is a similarity that sorts the whitespace tokens of
// both strings before computing a normalized edit-distance ratio, so
// word order does not matter ("retriever golden" matches "golden
// retriever").
type TokenSortRatio struct{}

var _ Similarity = TokenSortRatio{}

// Ratio returns 100 * (1 - distance/maxLen) over the token-sorted
// forms of a and b.
func (TokenSortRatio) Ratio(a, b string) float64 {
	as := tokenSort(a)
	bs := tokenSort(b)
	if as == bs {
		return 100
	}
	maxLen := len(as)
	if len(bs) > maxLen {
		maxLen = len(bs)
	}
	if maxLen == 0 {
		return 100
	}
	d := levenshtein(as, bs)
	return 100 * (1 - float64(d)/float64(maxLen))
}

func tokenSort(s string) string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshtein computes edit distance with a two-row table.
func levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
