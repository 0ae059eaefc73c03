package search

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"harshagw/qanun/internal/analysis"
)

// Suggest completes an article number prefix into labels such as
// "المادة 12", one per source holding that number. A leading article term
// in prefix is ignored.
func (s *Searcher) Suggest(prefix string, limit int) ([]Suggestion, error) {
	if !s.idx.Ready() {
		return nil, nil
	}
	prefix = s.stripArticleTerm(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	numbers, err := s.idx.PrefixIdentifiers(prefix, 0)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(numbers, compareIdentifiers)

	var out []Suggestion
	for _, number := range numbers {
		docs, err := s.idx.Lookup(number)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool)
		for _, doc := range docs {
			rec, _ := s.idx.Record(doc)
			if seen[rec.SourceKey] {
				continue
			}
			seen[rec.SourceKey] = true
			out = append(out, Suggestion{
				Label:         s.registry.ArticleTerm(rec.SourceKey) + " " + number,
				ArticleNumber: number,
				SourceKey:     rec.SourceKey,
				BookID:        rec.BookID,
			})
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}

func (s *Searcher) stripArticleTerm(prefix string) string {
	for _, src := range s.registry.List() {
		term := s.registry.ArticleTerm(src.Key)
		if rest, ok := strings.CutPrefix(prefix, term); ok {
			return strings.TrimSpace(rest)
		}
	}
	return prefix
}

// DidYouMean proposes respellings of query built from the content
// vocabulary. Each proposal replaces one unknown word with a term at edit
// distance 1, or 2 for words of six runes or more. More frequent terms come
// first. A query whose words are all known yields nothing.
func (s *Searcher) DidYouMean(query string, limit int) ([]string, error) {
	if !s.idx.Ready() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	tokens := analysis.NewSimple().Analyze(query)
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.Term
	}

	type candidate struct {
		term string
		freq uint64
	}

	var out []string
	for i, word := range words {
		known, err := s.idx.HasTerm(word)
		if err != nil {
			return nil, err
		}
		if known {
			continue
		}

		fuzziness := uint8(1)
		if utf8.RuneCountInString(word) >= 6 {
			fuzziness = 2
		}
		terms, err := s.idx.SimilarTerms(word, fuzziness, 0)
		if err != nil {
			return nil, err
		}
		cands := make([]candidate, 0, len(terms))
		for _, t := range terms {
			freq, err := s.idx.DocFreq(t)
			if err != nil {
				return nil, err
			}
			cands = append(cands, candidate{t, freq})
		}
		slices.SortFunc(cands, func(a, b candidate) int {
			if c := cmp.Compare(b.freq, a.freq); c != 0 {
				return c
			}
			return cmp.Compare(a.term, b.term)
		})

		for _, c := range cands {
			respelled := slices.Clone(words)
			respelled[i] = c.term
			out = append(out, strings.Join(respelled, " "))
			if len(out) >= limit {
				return out, nil
			}
		}
	}
	return out, nil
}
