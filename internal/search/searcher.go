package search

import (
	"fmt"
	"time"

	"harshagw/qanun/internal/fuzzy"
	"harshagw/qanun/internal/index"
	"harshagw/qanun/internal/source"
)

const (
	MinQueryLength = 2
	DefaultLimit   = 20
)

// Observer receives one call per executed request.
type Observer interface {
	ObserveSearch(scope string, took time.Duration, results int, tooShort bool)
}

type Options struct {
	// Registry resolves per-source article terms. Nil uses the default
	// registry.
	Registry *source.Registry
	// Extended enables the operator syntax for Search and SearchSource.
	Extended bool
	Observer Observer
}

// Searcher runs ranked article queries against an index.
type Searcher struct {
	idx      *index.Index
	registry *source.Registry
	extended bool
	observer Observer
}

// New creates a searcher. idx may be nil or not yet ready, in which case
// every query returns no results.
func New(idx *index.Index, opts Options) *Searcher {
	if opts.Registry == nil {
		opts.Registry = source.Default()
	}
	return &Searcher{
		idx:      idx,
		registry: opts.Registry,
		extended: opts.Extended,
		observer: opts.Observer,
	}
}

// Index returns the searched index.
func (s *Searcher) Index() *index.Index { return s.idx }

// Search ranks every article against query.
func (s *Searcher) Search(query string, limit int) []Result {
	resp, _ := s.Run(Request{Query: query, Limit: limit, Extended: s.extended})
	return resp.Results
}

// SearchSource ranks the articles of one source against query. Scores are
// those a dedicated index over that source would produce.
func (s *Searcher) SearchSource(sourceKey, query string, limit int) []Result {
	resp, _ := s.Run(Request{Query: query, Source: sourceKey, Limit: limit, Extended: s.extended})
	return resp.Results
}

type hit struct {
	doc     int
	score   float64
	matches []fuzzy.FieldMatch
}

// Run executes a request. Queries shorter than MinQueryLength runes and
// queries against an index that is not ready return an empty response
// without error.
func (s *Searcher) Run(req Request) (resp Response, err error) {
	start := time.Now()
	resp = Response{Query: req.Query, Source: req.Source, Results: []Result{}}
	defer func() {
		resp.Took = time.Since(start)
		if s.observer != nil {
			scope := req.Source
			if scope == "" {
				scope = "global"
			}
			s.observer.ObserveSearch(scope, resp.Took, len(resp.Results), resp.TooShort)
		}
	}()

	if len([]rune(req.Query)) < MinQueryLength {
		resp.TooShort = true
		return resp, nil
	}
	if !s.idx.Ready() {
		return resp, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	opts := s.idx.Options()
	opts.UseExtendedSearch = req.Extended
	matcher := fuzzy.NewMatcher(req.Query, opts)

	var hits []hit
	score := func(doc int) {
		matches := fuzzy.MatchRecord(matcher, s.idx.Fields(doc))
		if len(matches) == 0 {
			return
		}
		hits = append(hits, hit{
			doc:     doc,
			score:   fuzzy.Combine(matches, s.idx.Keys(), opts.IgnoreFieldNorm),
			matches: matches,
		})
	}

	if req.Source != "" {
		docs, err := s.idx.Partition(req.Source)
		if err != nil {
			return resp, fmt.Errorf("failed to load source partition: %w", err)
		}
		it := docs.Iterator()
		for it.HasNext() {
			score(int(it.Next()))
		}
	} else {
		for doc := range s.idx.Len() {
			score(doc)
		}
	}

	sortHits(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}

	resp.Results = make([]Result, len(hits))
	for i, h := range hits {
		resp.Results[i] = s.result(h)
	}
	return resp, nil
}

func (s *Searcher) result(h hit) Result {
	rec, _ := s.idx.Record(h.doc)
	keys := s.idx.Keys()
	contentKey := s.idx.KeyIndex(index.ContentKey)

	r := Result{
		Record:   rec,
		Snippet:  rec.Content,
		Score:    h.score,
		RefIndex: h.doc,
	}
	for _, m := range h.matches {
		field := s.idx.Fields(h.doc)[m.KeyIndex]
		indices := make([][2]int, len(m.Indices))
		for i, span := range m.Indices {
			indices[i] = [2]int{field.Text.Orig(span[0]), field.Text.Orig(span[1])}
		}
		r.Matches = append(r.Matches, Match{Key: keys[m.KeyIndex].Name, Indices: indices})

		if m.KeyIndex == contentKey && len(indices) > 0 {
			r.Snippet = Snippet(rec.Content, indices[0][0], indices[0][1])
		}
	}
	return r
}

// ByIdentifier returns every article numbered number, in corpus order.
func (s *Searcher) ByIdentifier(number string) ([]Result, error) {
	if !s.idx.Ready() {
		return nil, nil
	}
	docs, err := s.idx.Lookup(number)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		rec, _ := s.idx.Record(doc)
		results = append(results, Result{Record: rec, Snippet: rec.Content, RefIndex: doc})
	}
	return results, nil
}
