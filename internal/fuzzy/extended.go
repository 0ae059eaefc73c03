package fuzzy

import "harshagw/qanun/internal/query"

// termMatcher is one compiled item of an extended query.
type termMatcher struct {
	kind    query.Kind
	pattern []rune
	fuzzy   *BitapSearcher
}

func newTermMatcher(t query.Term, opts Options) termMatcher {
	m := termMatcher{kind: t.Kind, pattern: Prepare(t.Pattern, opts).Runes}
	if t.Kind == query.KindFuzzy {
		m.fuzzy = NewBitapSearcher(t.Pattern, opts)
	}
	return m
}

func whole(text Text) [][2]int {
	return [][2]int{{0, text.Len() - 1}}
}

func (m termMatcher) search(text Text) Result {
	s, p := text.Runes, m.pattern
	var ok bool
	var indices [][2]int

	switch m.kind {
	case query.KindFuzzy:
		return m.fuzzy.SearchIn(text)
	case query.KindExact:
		ok = text.equal(p)
		indices = [][2]int{{0, len(p) - 1}}
	case query.KindInclude:
		for loc := 0; ; {
			i := indexRunes(s, p, loc)
			if i < 0 {
				break
			}
			loc = i + len(p)
			indices = append(indices, [2]int{i, loc - 1})
		}
		ok = len(indices) > 0
	case query.KindPrefix:
		ok = hasPrefix(s, p)
		indices = [][2]int{{0, len(p) - 1}}
	case query.KindInversePrefix:
		ok = !hasPrefix(s, p)
		indices = whole(text)
	case query.KindInverseSuffix:
		ok = !hasSuffix(s, p)
		indices = whole(text)
	case query.KindSuffix:
		ok = hasSuffix(s, p)
		indices = [][2]int{{len(s) - len(p), len(s) - 1}}
	case query.KindInverseExact:
		ok = indexRunes(s, p, 0) < 0
		indices = whole(text)
	}

	if !ok {
		return Result{Score: 1, Indices: indices}
	}
	return Result{IsMatch: true, Score: 0, Indices: indices}
}

// ExtendedSearcher evaluates the operator syntax parsed by query.Parse:
// groups separated by "|" are alternatives tried in order, and every item
// of a group must match. The first matching group wins with the mean score
// of its items.
type ExtendedSearcher struct {
	groups [][]termMatcher
}

func NewExtendedSearcher(pattern string, opts Options) *ExtendedSearcher {
	if !opts.IsCaseSensitive {
		pattern = string(Prepare(pattern, Options{}).Runes)
	}
	q := query.Parse(pattern)

	s := &ExtendedSearcher{groups: make([][]termMatcher, len(q))}
	for i, g := range q {
		for _, t := range g {
			s.groups[i] = append(s.groups[i], newTermMatcher(t, opts))
		}
	}
	return s
}

func (s *ExtendedSearcher) SearchIn(text Text) Result {
	var total float64
	for _, group := range s.groups {
		var indices [][2]int
		matched := 0
		for _, m := range group {
			r := m.search(text)
			if !r.IsMatch {
				total = 0
				matched = 0
				indices = nil
				break
			}
			matched++
			total += r.Score
			indices = append(indices, r.Indices...)
		}
		if matched > 0 {
			return Result{
				IsMatch: true,
				Score:   total / float64(matched),
				Indices: indices,
			}
		}
	}
	return Result{Score: 1}
}
