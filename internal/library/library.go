// Package library ties the source catalog, the book loader and the search
// index together.
package library

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"harshagw/qanun/internal/extract"
	"harshagw/qanun/internal/index"
	"harshagw/qanun/internal/search"
	"harshagw/qanun/internal/source"
	"harshagw/qanun/internal/tree"
)

// Books provides parsed book trees.
type Books interface {
	BookIDs(key string) ([]string, error)
	Book(key, id string) (*tree.Node, bool, error)
	Fingerprint() (string, error)
}

// IndexObserver is told how the index became ready.
type IndexObserver interface {
	ObserveIndex(origin string, took time.Duration, records int)
}

type Options struct {
	// SnapshotDir persists the index between runs. Empty disables it.
	SnapshotDir string
	Index       index.Config
	// Extended enables the operator syntax in searches.
	Extended       bool
	SearchObserver search.Observer
	IndexObserver  IndexObserver
	Logger         zerolog.Logger
}

// Library serves articles and searches. The index is built on first use and
// shared by every caller afterwards.
type Library struct {
	registry *source.Registry
	books    Books
	opts     Options
	log      zerolog.Logger

	mu       sync.Mutex
	idx      *index.Index
	searcher *search.Searcher
	ready    atomic.Bool
}

func New(registry *source.Registry, books Books, opts Options) *Library {
	return &Library{
		registry: registry,
		books:    books,
		opts:     opts,
		log:      opts.Logger,
	}
}

// Registry returns the source catalog.
func (l *Library) Registry() *source.Registry { return l.registry }

// Ready reports whether the index has been built. It never blocks.
func (l *Library) Ready() bool { return l.ready.Load() }

// Records flattens every book of every source, in catalog order.
func (l *Library) Records() ([]extract.Record, error) {
	var records []extract.Record
	for _, src := range l.registry.List() {
		ids, err := l.books.BookIDs(src.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to list books of %s: %w", src.Key, err)
		}
		for _, id := range ids {
			root, ok, err := l.books.Book(src.Key, id)
			if err != nil {
				return nil, err
			}
			if !ok {
				l.log.Warn().Str("source", src.Key).Str("book", id).Msg("book not found")
				continue
			}
			records = append(records, extract.Extract(root, extract.Book{
				SourceKey: src.Key,
				ID:        id,
				Name:      l.bookName(root, src.Key),
				Title:     root.Title,
			})...)
		}
	}
	return records, nil
}

// bookName is the root's name, or its display label when it has none.
func (l *Library) bookName(root *tree.Node, key string) string {
	if root.Name != "" {
		return root.Name
	}
	return l.registry.Label(root, key)
}

// Index returns the search index, building it on first call. A snapshot
// matching the current books is reused; a stale or unreadable one is
// replaced.
func (l *Library) Index() (*index.Index, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.idx != nil {
		return l.idx, nil
	}

	start := time.Now()
	fingerprint, err := l.books.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint books: %w", err)
	}

	if dir := l.opts.SnapshotDir; dir != "" {
		idx, found, err := index.Open(dir, fingerprint, l.opts.Index)
		switch {
		case err != nil:
			l.log.Warn().Err(err).Str("dir", dir).Msg("snapshot unusable, rebuilding")
		case found:
			l.setIndex(idx, "snapshot", start)
			return idx, nil
		}
	}

	records, err := l.Records()
	if err != nil {
		return nil, err
	}
	idx, err := index.Build(records, l.opts.Index)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	if dir := l.opts.SnapshotDir; dir != "" {
		if err := idx.Save(dir, fingerprint); err != nil {
			l.log.Warn().Err(err).Str("dir", dir).Msg("failed to save snapshot")
		}
	}
	l.setIndex(idx, "built", start)
	return idx, nil
}

func (l *Library) setIndex(idx *index.Index, origin string, start time.Time) {
	took := time.Since(start)
	l.idx = idx
	l.ready.Store(true)
	if l.opts.IndexObserver != nil {
		l.opts.IndexObserver.ObserveIndex(origin, took, idx.Len())
	}
	l.log.Info().
		Str("origin", origin).
		Int("records", idx.Len()).
		Uint64("terms", idx.Vocabulary()).
		Dur("took", took).
		Msg("search index ready")
}

// Searcher returns a searcher over the index, building it if needed.
func (l *Library) Searcher() (*search.Searcher, error) {
	idx, err := l.Index()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.searcher == nil {
		l.searcher = search.New(idx, search.Options{
			Registry: l.registry,
			Extended: l.opts.Extended,
			Observer: l.opts.SearchObserver,
		})
	}
	return l.searcher, nil
}

// Close releases the index.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ready.Store(false)
	if l.idx == nil {
		return nil
	}
	err := l.idx.Close()
	l.idx = nil
	l.searcher = nil
	return err
}
