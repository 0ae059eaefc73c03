package segment

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// Segment file format constants
const (
	SegmentMagic   = "QNN\x00"
	SegmentVersion = uint32(1)
	ChunkSize      = 256 // records per stored chunk

	headerSize  = len(SegmentMagic) + 4 + 8
	trailerSize = 16
)

// Dictionary fields.
const (
	IDField     = "_id"     // article number
	SourceField = "_source" // source key
	TermsField  = "terms"   // content vocabulary
)

// ErrCorrupt is returned when segment data fails validation.
var ErrCorrupt = errors.New("corrupt segment")

// OneHitFlag - high bit set means value encodes a single docNum inline.
const OneHitFlag = uint64(1 << 63)

// IsOneHit checks if a value uses 1-hit encoding.
func IsOneHit(val uint64) bool {
	return (val & OneHitFlag) != 0
}

// EncodeOneHit encodes a single docNum inline.
func EncodeOneHit(docNum uint64) uint64 {
	return OneHitFlag | docNum
}

// DecodeOneHit extracts the docNum from a 1-hit encoded value.
func DecodeOneHit(val uint64) uint64 {
	return val &^ OneHitFlag
}

type Footer struct {
	StoredOffset uint64      `json:"stored_offset"`
	ChunkOffsets []uint64    `json:"chunks"`
	FieldsMeta   []FieldMeta `json:"fields"`
	NumDocs      uint64      `json:"num_docs"`
}

type FieldMeta struct {
	Name           string `json:"name"`
	DictOffset     uint64 `json:"dict_offset"`
	DictSize       uint64 `json:"dict_size"`
	PostingsOffset uint64 `json:"postings_offset"`
	PostingsSize   uint64 `json:"postings_size"`
	NumTerms       uint64 `json:"num_terms"`
}

// EncodePostings serializes a posting bitmap with a uvarint length prefix.
func EncodePostings(bm *roaring.Bitmap) ([]byte, error) {
	var body bytes.Buffer
	if _, err := bm.WriteTo(&body); err != nil {
		return nil, err
	}
	buf := binary.AppendUvarint(make([]byte, 0, body.Len()+binary.MaxVarintLen64), uint64(body.Len()))
	return append(buf, body.Bytes()...), nil
}

// DecodePostings reads a bitmap written by EncodePostings.
func DecodePostings(data []byte) (*roaring.Bitmap, error) {
	size, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, fmt.Errorf("%w: bad postings length", ErrCorrupt)
	}
	end := uint64(n) + size
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("%w: postings overrun", ErrCorrupt)
	}
	bm := roaring.New()
	if _, err := bm.FromBuffer(data[n:end]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return bm.Clone(), nil
}
