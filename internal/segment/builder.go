package segment

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring"

	"harshagw/qanun/internal/analysis"
	"harshagw/qanun/internal/extract"
)

// Builder accumulates records before encoding an immutable segment.
type Builder struct {
	Fields   map[string]map[string]*roaring.Bitmap // field -> term -> docNums
	Records  []extract.Record
	analyzer analysis.Analyzer
}

// NewBuilder creates a new segment builder.
func NewBuilder(analyzer analysis.Analyzer) *Builder {
	return &Builder{
		Fields: map[string]map[string]*roaring.Bitmap{
			IDField:     {},
			SourceField: {},
			TermsField:  {},
		},
		analyzer: analyzer,
	}
}

func (b *Builder) post(field, term string, docNum uint32) {
	bm, ok := b.Fields[field][term]
	if !ok {
		bm = roaring.New()
		b.Fields[field][term] = bm
	}
	bm.Add(docNum)
}

// Add adds a record to the builder and returns its docNum.
func (b *Builder) Add(rec extract.Record) uint32 {
	docNum := uint32(len(b.Records))
	b.Records = append(b.Records, rec)

	b.post(IDField, rec.ArticleNumber, docNum)
	b.post(SourceField, rec.SourceKey, docNum)
	for _, tok := range b.analyzer.Analyze(rec.Content) {
		b.post(TermsField, tok.Term, docNum)
	}
	return docNum
}

// NumDocs returns the number of records added so far.
func (b *Builder) NumDocs() uint64 {
	return uint64(len(b.Records))
}

// Bytes encodes the segment.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(SegmentMagic)
	binary.Write(&buf, binary.BigEndian, SegmentVersion)
	binary.Write(&buf, binary.BigEndian, b.NumDocs())

	storedOffset := uint64(buf.Len())
	chunkOffsets, err := b.writeStoredRecords(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to write stored records: %w", err)
	}

	fieldsMeta, err := b.writeFieldsIndex(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to write fields index: %w", err)
	}

	footerOffset := uint64(buf.Len())
	footerData, err := json.Marshal(Footer{
		StoredOffset: storedOffset,
		ChunkOffsets: chunkOffsets,
		FieldsMeta:   fieldsMeta,
		NumDocs:      b.NumDocs(),
	})
	if err != nil {
		return nil, err
	}
	buf.Write(footerData)

	binary.Write(&buf, binary.BigEndian, footerOffset)
	binary.Write(&buf, binary.BigEndian, uint64(len(footerData)))

	return buf.Bytes(), nil
}

// Build writes the segment to dir and returns its path. The file is written
// under a temporary name and renamed into place.
func (b *Builder) Build(dir, segmentID string) (string, error) {
	data, err := b.Bytes()
	if err != nil {
		return "", err
	}
	return WriteFile(dir, segmentID, data)
}

// WriteFile atomically stores encoded segment data as dir/segmentID.seg.
func WriteFile(dir, segmentID string, data []byte) (string, error) {
	segPath := filepath.Join(dir, segmentID+".seg")
	tmpPath := segPath + ".tmp"

	file, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	if err := os.Rename(tmpPath, segPath); err != nil {
		return "", err
	}
	return segPath, nil
}
