package index

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"

	"harshagw/qanun/internal/analysis"
	"harshagw/qanun/internal/extract"
	"harshagw/qanun/internal/fuzzy"
	"harshagw/qanun/internal/segment"
)

// Searchable keys of a record.
const (
	ArticleNumberKey = "articleNumber"
	ContentKey       = "content"
)

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("index is closed")

// DefaultKeys returns the article keys: the identifier weighs twice the
// content.
func DefaultKeys() []fuzzy.Key {
	return []fuzzy.Key{
		{Name: ArticleNumberKey, Weight: 2},
		{Name: ContentKey, Weight: 1},
	}
}

type Config struct {
	Keys     []fuzzy.Key
	Fuzzy    fuzzy.Options
	Analyzer analysis.Analyzer
}

func DefaultConfig() Config {
	return Config{
		Keys:     DefaultKeys(),
		Fuzzy:    fuzzy.DefaultOptions(),
		Analyzer: analysis.NewSimple(),
	}
}

func (c Config) withDefaults() Config {
	if len(c.Keys) == 0 {
		c.Keys = DefaultKeys()
	}
	if c.Analyzer == nil {
		c.Analyzer = analysis.NewSimple()
	}
	if c.Fuzzy == (fuzzy.Options{}) {
		c.Fuzzy = fuzzy.DefaultOptions()
	}
	return c
}

// Index is an immutable, searchable view of a record corpus. Records keep
// their corpus order; a record's position is its docNum.
type Index struct {
	mu sync.RWMutex

	seg     *segment.Segment
	records []extract.Record
	fields  [][]*fuzzy.Field // parallel to records, then to keys
	keys    []fuzzy.Key      // normalized
	opts    fuzzy.Options

	partitions map[string]*roaring.Bitmap

	ready  bool
	closed bool
}

// Build indexes records in order. An empty corpus yields a ready, empty
// index.
func Build(records []extract.Record, config Config) (*Index, error) {
	config = config.withDefaults()

	b := segment.NewBuilder(config.Analyzer)
	for _, rec := range records {
		b.Add(rec)
	}
	data, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to encode segment: %w", err)
	}
	seg, err := segment.Load(data, "memory")
	if err != nil {
		return nil, err
	}
	return newIndex(seg, b.Records, config), nil
}

func newIndex(seg *segment.Segment, records []extract.Record, config Config) *Index {
	idx := &Index{
		seg:        seg,
		records:    records,
		fields:     make([][]*fuzzy.Field, len(records)),
		keys:       fuzzy.NormalizeKeys(config.Keys),
		opts:       config.Fuzzy,
		partitions: make(map[string]*roaring.Bitmap),
	}
	for i, rec := range records {
		fields := make([]*fuzzy.Field, len(idx.keys))
		for k, key := range idx.keys {
			fields[k] = fuzzy.NewField(fieldValue(rec, key.Name), idx.opts)
		}
		idx.fields[i] = fields
	}
	idx.ready = true
	return idx
}

func fieldValue(rec extract.Record, key string) string {
	switch key {
	case ArticleNumberKey:
		return rec.ArticleNumber
	case ContentKey:
		return rec.Content
	case "bookName":
		return rec.BookName
	case "bookTitle":
		return rec.BookTitle
	case "chapterName":
		return rec.ChapterName
	case "chapterTitle":
		return rec.ChapterTitle
	}
	return ""
}

// Ready reports whether the index can serve queries. A nil index is not
// ready.
func (idx *Index) Ready() bool {
	if idx == nil {
		return false
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.ready && !idx.closed
}

// Len returns the number of indexed records.
func (idx *Index) Len() int { return len(idx.records) }

// Record returns the record at docNum.
func (idx *Index) Record(docNum int) (extract.Record, bool) {
	if docNum < 0 || docNum >= len(idx.records) {
		return extract.Record{}, false
	}
	return idx.records[docNum], true
}

// Records returns every record in corpus order. The slice must not be
// modified.
func (idx *Index) Records() []extract.Record { return idx.records }

// Fields returns the prepared key values of docNum, parallel to Keys. Blank
// values are nil.
func (idx *Index) Fields(docNum int) []*fuzzy.Field { return idx.fields[docNum] }

// Keys returns the normalized search keys.
func (idx *Index) Keys() []fuzzy.Key { return idx.keys }

// Options returns the matching options the fields were prepared with.
func (idx *Index) Options() fuzzy.Options { return idx.opts }

// KeyIndex returns the position of a key name, or -1.
func (idx *Index) KeyIndex(name string) int {
	for i, k := range idx.keys {
		if k.Name == name {
			return i
		}
	}
	return -1
}

// Close releases the underlying segment.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil
	}
	idx.closed = true
	idx.ready = false
	idx.partitions = nil
	return idx.seg.Close()
}
