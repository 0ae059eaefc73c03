package segment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring"
	"github.com/couchbase/vellum"
	"github.com/couchbase/vellum/levenshtein"
)

// ErrClosed is returned by lookups on a closed segment.
var ErrClosed = errors.New("segment is closed")

// getFieldMeta returns metadata for a field using O(1) map lookup.
func (s *Segment) getFieldMeta(fieldName string) *FieldMeta {
	return s.fieldMetaByName[fieldName]
}

// getFST returns the FST for a field, loading it lazily.
func (s *Segment) getFST(fieldName string) (*vellum.FST, error) {
	s.fstsMu.RLock()
	if s.fsts == nil {
		s.fstsMu.RUnlock()
		return nil, ErrClosed
	}
	fst, ok := s.fsts[fieldName]
	s.fstsMu.RUnlock()
	if ok {
		return fst, nil
	}

	s.fstsMu.Lock()
	defer s.fstsMu.Unlock()

	if s.fsts == nil {
		return nil, ErrClosed
	}
	// Double-check after acquiring write lock
	if fst, ok := s.fsts[fieldName]; ok {
		return fst, nil
	}

	meta := s.getFieldMeta(fieldName)
	if meta == nil {
		return nil, fmt.Errorf("field not found: %s", fieldName)
	}

	// FST data starts after the 8-byte size prefix
	fstOffset := meta.DictOffset
	if fstOffset+8 > uint64(len(s.data)) {
		return nil, fmt.Errorf("%w: dictionary offset out of range", ErrCorrupt)
	}
	fstSize := binary.BigEndian.Uint64(s.data[fstOffset:])
	if fstOffset+8+fstSize > uint64(len(s.data)) {
		return nil, fmt.Errorf("%w: dictionary overruns segment", ErrCorrupt)
	}

	fst, err := vellum.Load(s.data[fstOffset+8 : fstOffset+8+fstSize])
	if err != nil {
		return nil, fmt.Errorf("failed to load FST for field %s: %w", fieldName, err)
	}

	s.fsts[fieldName] = fst
	return fst, nil
}

// Postings returns the docNums holding term in a field. Unknown terms
// yield an empty bitmap.
func (s *Segment) Postings(fieldName, term string) (*roaring.Bitmap, error) {
	fst, err := s.getFST(fieldName)
	if err != nil {
		return nil, err
	}

	val, exists, err := fst.Get([]byte(term))
	if err != nil {
		return nil, err
	}
	if !exists {
		return roaring.New(), nil
	}

	if IsOneHit(val) {
		return roaring.BitmapOf(uint32(DecodeOneHit(val))), nil
	}

	meta := s.getFieldMeta(fieldName)
	offset := meta.PostingsOffset + val
	if offset >= meta.PostingsOffset+meta.PostingsSize {
		return nil, fmt.Errorf("%w: postings offset out of range", ErrCorrupt)
	}
	return DecodePostings(s.data[offset : meta.PostingsOffset+meta.PostingsSize])
}

// collect drains an FST iterator into at most limit keys (limit <= 0 means
// no limit).
func collect(iter *vellum.FSTIterator, err error, limit int) ([]string, error) {
	var terms []string
	for err == nil {
		key, _ := iter.Current()
		terms = append(terms, string(key))
		if limit > 0 && len(terms) >= limit {
			return terms, nil
		}
		err = iter.Next()
	}
	if err != vellum.ErrIteratorDone {
		return nil, err
	}
	return terms, nil
}

// One builder per distance, shared by every segment.
var levBuilders sync.Map // uint8 -> *levenshtein.LevenshteinAutomatonBuilder

func levenshteinBuilder(fuzziness uint8) (*levenshtein.LevenshteinAutomatonBuilder, error) {
	if b, ok := levBuilders.Load(fuzziness); ok {
		return b.(*levenshtein.LevenshteinAutomatonBuilder), nil
	}
	b, err := levenshtein.NewLevenshteinAutomatonBuilder(fuzziness, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create levenshtein builder: %w", err)
	}
	actual, _ := levBuilders.LoadOrStore(fuzziness, b)
	return actual.(*levenshtein.LevenshteinAutomatonBuilder), nil
}

// FuzzyTerms returns terms in a field within edit distance of the query.
func (s *Segment) FuzzyTerms(term string, fuzziness uint8, fieldName string, limit int) ([]string, error) {
	fst, err := s.getFST(fieldName)
	if err != nil {
		return nil, err
	}

	builder, err := levenshteinBuilder(fuzziness)
	if err != nil {
		return nil, err
	}
	aut, err := builder.BuildDfa(term, fuzziness)
	if err != nil {
		return nil, fmt.Errorf("failed to build fuzzy automaton: %w", err)
	}

	iter, err := fst.Search(aut, nil, nil)
	return collect(iter, err, limit)
}

// PrefixTerms returns the terms of a field that start with prefix, in byte
// order. Uses an FST range scan.
func (s *Segment) PrefixTerms(prefix, fieldName string, limit int) ([]string, error) {
	fst, err := s.getFST(fieldName)
	if err != nil {
		return nil, err
	}

	start := []byte(prefix)
	iter, err := fst.Iterator(start, prefixSuccessor(start))
	return collect(iter, err, limit)
}

// DocFreq returns the number of records containing term in a field.
func (s *Segment) DocFreq(fieldName, term string) (uint64, error) {
	bm, err := s.Postings(fieldName, term)
	if err != nil {
		return 0, err
	}
	return bm.GetCardinality(), nil
}

// prefixSuccessor returns the smallest key greater than every key starting
// with prefix, or nil when there is none.
func prefixSuccessor(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	succ := bytes.Clone(prefix)
	for i := len(succ) - 1; i >= 0; i-- {
		if succ[i] < 0xff {
			succ[i]++
			return succ[:i+1]
		}
	}
	return nil
}
