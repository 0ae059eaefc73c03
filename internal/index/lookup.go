package index

import (
	"strings"

	"github.com/RoaringBitmap/roaring"

	"harshagw/qanun/internal/segment"
)

// Partition returns the docNums of a source. Unknown keys yield an empty
// set. The bitmap is shared and must not be modified.
func (idx *Index) Partition(sourceKey string) (*roaring.Bitmap, error) {
	idx.mu.RLock()
	if idx.closed {
		idx.mu.RUnlock()
		return nil, ErrClosed
	}
	bm, ok := idx.partitions[sourceKey]
	idx.mu.RUnlock()
	if ok {
		return bm, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.closed {
		return nil, ErrClosed
	}
	if bm, ok := idx.partitions[sourceKey]; ok {
		return bm, nil
	}
	bm, err := idx.seg.Postings(segment.SourceField, sourceKey)
	if err != nil {
		return nil, err
	}
	bm.RunOptimize()
	idx.partitions[sourceKey] = bm
	return bm, nil
}

// liveSegment returns the backing segment, or ErrClosed once the index is
// closed.
func (idx *Index) liveSegment() (*segment.Segment, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.closed {
		return nil, ErrClosed
	}
	return idx.seg, nil
}

// Lookup returns the docNums whose article number equals number, in corpus
// order.
func (idx *Index) Lookup(number string) ([]int, error) {
	seg, err := idx.liveSegment()
	if err != nil {
		return nil, err
	}
	bm, err := seg.Postings(segment.IDField, strings.TrimSpace(number))
	if err != nil {
		return nil, err
	}
	docs := make([]int, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		docs = append(docs, int(it.Next()))
	}
	return docs, nil
}

// PrefixIdentifiers returns distinct article numbers starting with prefix in
// dictionary order.
func (idx *Index) PrefixIdentifiers(prefix string, limit int) ([]string, error) {
	seg, err := idx.liveSegment()
	if err != nil {
		return nil, err
	}
	return seg.PrefixTerms(strings.TrimSpace(prefix), segment.IDField, limit)
}

// SimilarTerms returns content vocabulary within fuzziness edits of term.
func (idx *Index) SimilarTerms(term string, fuzziness uint8, limit int) ([]string, error) {
	seg, err := idx.liveSegment()
	if err != nil {
		return nil, err
	}
	return seg.FuzzyTerms(strings.ToLower(term), fuzziness, segment.TermsField, limit)
}

// HasTerm reports whether term occurs in the content vocabulary.
func (idx *Index) HasTerm(term string) (bool, error) {
	n, err := idx.DocFreq(term)
	return n > 0, err
}

// Vocabulary returns the number of distinct content terms.
func (idx *Index) Vocabulary() uint64 {
	seg, err := idx.liveSegment()
	if err != nil {
		return 0
	}
	return seg.NumTerms(segment.TermsField)
}

// DocFreq returns the number of records whose content contains term.
func (idx *Index) DocFreq(term string) (uint64, error) {
	seg, err := idx.liveSegment()
	if err != nil {
		return 0, err
	}
	return seg.DocFreq(segment.TermsField, strings.ToLower(term))
}
