package segment

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"sort"

	"github.com/couchbase/vellum"
	"github.com/golang/snappy"
)

// writeStoredRecords writes chunked, compressed records.
func (b *Builder) writeStoredRecords(buf *bytes.Buffer) ([]uint64, error) {
	var chunkOffsets []uint64

	for i := 0; i < len(b.Records); i += ChunkSize {
		end := min(i+ChunkSize, len(b.Records))

		chunkData, err := json.Marshal(b.Records[i:end])
		if err != nil {
			return nil, err
		}
		compressed := snappy.Encode(nil, chunkData)

		chunkOffsets = append(chunkOffsets, uint64(buf.Len()))
		binary.Write(buf, binary.BigEndian, uint32(len(compressed)))
		buf.Write(compressed)
	}

	return chunkOffsets, nil
}

// writeFieldsIndex writes the FST dictionary and postings for each field.
func (b *Builder) writeFieldsIndex(buf *bytes.Buffer) ([]FieldMeta, error) {
	fieldNames := make([]string, 0, len(b.Fields))
	for name := range b.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)

	fieldsMeta := make([]FieldMeta, 0, len(fieldNames))
	for _, fieldName := range fieldNames {
		meta, err := b.writeFieldIndex(buf, fieldName)
		if err != nil {
			return nil, err
		}
		fieldsMeta = append(fieldsMeta, meta)
	}
	return fieldsMeta, nil
}

// writeFieldIndex writes postings and then the FST of a single field. Terms
// found in exactly one record are stored inline in the FST value.
func (b *Builder) writeFieldIndex(buf *bytes.Buffer, fieldName string) (FieldMeta, error) {
	terms := b.Fields[fieldName]
	meta := FieldMeta{Name: fieldName, NumTerms: uint64(len(terms))}

	termList := make([]string, 0, len(terms))
	for term := range terms {
		termList = append(termList, term)
	}
	sort.Strings(termList)

	meta.PostingsOffset = uint64(buf.Len())
	values := make(map[string]uint64, len(termList))
	for _, term := range termList {
		bm := terms[term]
		if bm.GetCardinality() == 1 {
			values[term] = EncodeOneHit(uint64(bm.Minimum()))
			continue
		}
		values[term] = uint64(buf.Len()) - meta.PostingsOffset
		encoded, err := EncodePostings(bm)
		if err != nil {
			return meta, err
		}
		buf.Write(encoded)
	}
	meta.PostingsSize = uint64(buf.Len()) - meta.PostingsOffset

	var fstBuf bytes.Buffer
	fstBuilder, err := vellum.New(&fstBuf, nil)
	if err != nil {
		return meta, err
	}
	for _, term := range termList {
		if err := fstBuilder.Insert([]byte(term), values[term]); err != nil {
			return meta, err
		}
	}
	if err := fstBuilder.Close(); err != nil {
		return meta, err
	}

	meta.DictOffset = uint64(buf.Len())
	binary.Write(buf, binary.BigEndian, uint64(fstBuf.Len()))
	buf.Write(fstBuf.Bytes())
	meta.DictSize = uint64(buf.Len()) - meta.DictOffset

	return meta, nil
}
