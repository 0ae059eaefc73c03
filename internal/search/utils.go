package search

import (
	"cmp"
	"slices"
	"strconv"
)

// sortHits orders hits by ascending score, ties by corpus position.
func sortHits(hits []hit) {
	slices.SortFunc(hits, func(a, b hit) int {
		if c := cmp.Compare(a.score, b.score); c != 0 {
			return c
		}
		return cmp.Compare(a.doc, b.doc)
	})
}

// compareIdentifiers orders article numbers numerically when both parse,
// else lexically, with numbers first.
func compareIdentifiers(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return cmp.Compare(a, b)
}
