package tui

import (
	"slices"
	"strings"
	"unicode"
)

// FuzzyMatch reports whether every rune of query occurs in target in order,
// ignoring case, and returns a score where higher is better. Runs of
// consecutive matches, a match on the first rune and matches right after a
// word separator all raise the score.
func FuzzyMatch(query, target string) (bool, int) {
	q := []rune(strings.ToLower(query))
	if len(q) == 0 {
		return true, 0
	}
	t := []rune(strings.ToLower(target))

	qi, score, run := 0, 0, 0
	for ti, r := range t {
		if qi == len(q) {
			break
		}
		if r != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run
		switch {
		case ti == 0:
			score += 3
		case isSeparator(t[ti-1]):
			score += 2
		}
	}
	return qi == len(q), score
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '-' || r == '_' || r == '/' || r == '.'
}

// Rank filters items by query and orders the matches by descending score.
// Ties keep their input order. An empty query returns every item.
func Rank[T any](query string, items []T, key func(T) string) []T {
	type hit struct {
		item  T
		score int
	}
	var hits []hit
	for _, it := range items {
		if ok, sc := FuzzyMatch(query, key(it)); ok {
			hits = append(hits, hit{it, sc})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return b.score - a.score })

	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}
