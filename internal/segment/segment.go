package segment

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/couchbase/vellum"
	"github.com/edsrzf/mmap-go"
	"github.com/golang/snappy"

	"harshagw/qanun/internal/extract"
)

// Segment is an immutable set of records with its dictionaries. Data is
// either mmap'd from a file or held in memory.
type Segment struct {
	id     string
	path   string
	file   *os.File
	mm     mmap.MMap
	data   []byte
	footer Footer

	fieldMetaByName map[string]*FieldMeta

	fsts   map[string]*vellum.FST
	fstsMu sync.RWMutex
}

// Open opens an existing segment file with mmap.
func Open(path, segmentID string) (*Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open segment %s: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if stat.Size() < int64(headerSize+trailerSize) {
		file.Close()
		return nil, fmt.Errorf("%w: file too small: %s", ErrCorrupt, path)
	}

	mm, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to mmap segment %s: %w", path, err)
	}

	seg, err := load(segmentID, []byte(mm))
	if err != nil {
		mm.Unmap()
		file.Close()
		return nil, fmt.Errorf("segment %s: %w", path, err)
	}
	seg.path = path
	seg.file = file
	seg.mm = mm
	return seg, nil
}

// Load reads a segment from encoded bytes. data must not be modified
// afterwards.
func Load(data []byte, segmentID string) (*Segment, error) {
	return load(segmentID, data)
}

func load(segmentID string, data []byte) (*Segment, error) {
	if len(data) < headerSize+trailerSize {
		return nil, fmt.Errorf("%w: too small", ErrCorrupt)
	}
	if string(data[:len(SegmentMagic)]) != SegmentMagic {
		return nil, fmt.Errorf("%w: invalid magic", ErrCorrupt)
	}
	if v := binary.BigEndian.Uint32(data[len(SegmentMagic):]); v != SegmentVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupt, v)
	}

	footerOffset := binary.BigEndian.Uint64(data[len(data)-16 : len(data)-8])
	footerSize := binary.BigEndian.Uint64(data[len(data)-8:])
	if footerOffset+footerSize > uint64(len(data)-trailerSize) || footerOffset+footerSize < footerOffset {
		return nil, fmt.Errorf("%w: footer out of range", ErrCorrupt)
	}

	var footer Footer
	if err := json.Unmarshal(data[footerOffset:footerOffset+footerSize], &footer); err != nil {
		return nil, fmt.Errorf("%w: failed to parse footer: %v", ErrCorrupt, err)
	}

	fieldMetaByName := make(map[string]*FieldMeta, len(footer.FieldsMeta))
	for i := range footer.FieldsMeta {
		fieldMetaByName[footer.FieldsMeta[i].Name] = &footer.FieldsMeta[i]
	}

	return &Segment{
		id:              segmentID,
		data:            data,
		footer:          footer,
		fieldMetaByName: fieldMetaByName,
		fsts:            make(map[string]*vellum.FST),
	}, nil
}

// ID returns the segment ID.
func (s *Segment) ID() string { return s.id }

// Path returns the segment file path, empty for in-memory segments.
func (s *Segment) Path() string { return s.path }

// NumDocs returns the total number of records.
func (s *Segment) NumDocs() uint64 { return s.footer.NumDocs }

// Data returns the encoded segment.
func (s *Segment) Data() []byte { return s.data }

// Fields returns the list of dictionary field names.
func (s *Segment) Fields() []string {
	fields := make([]string, len(s.footer.FieldsMeta))
	for i, fm := range s.footer.FieldsMeta {
		fields[i] = fm.Name
	}
	return fields
}

// NumTerms returns the dictionary size of a field.
func (s *Segment) NumTerms(field string) uint64 {
	if meta, ok := s.fieldMetaByName[field]; ok {
		return meta.NumTerms
	}
	return 0
}

func (s *Segment) loadChunk(chunkIdx int) ([]extract.Record, error) {
	if chunkIdx >= len(s.footer.ChunkOffsets) {
		return nil, fmt.Errorf("chunk index %d out of range", chunkIdx)
	}
	offset := s.footer.ChunkOffsets[chunkIdx]
	if offset+4 > uint64(len(s.data)) {
		return nil, fmt.Errorf("%w: chunk offset out of range", ErrCorrupt)
	}
	chunkLen := uint64(binary.BigEndian.Uint32(s.data[offset:]))
	if offset+4+chunkLen > uint64(len(s.data)) {
		return nil, fmt.Errorf("%w: chunk overruns segment", ErrCorrupt)
	}

	decompressed, err := snappy.Decode(nil, s.data[offset+4:offset+4+chunkLen])
	if err != nil {
		return nil, fmt.Errorf("failed to decompress chunk: %w", err)
	}

	var chunk []extract.Record
	if err := json.Unmarshal(decompressed, &chunk); err != nil {
		return nil, fmt.Errorf("failed to parse chunk: %w", err)
	}
	return chunk, nil
}

// LoadRecord loads a record by docNum from stored chunks.
func (s *Segment) LoadRecord(docNum uint64) (extract.Record, error) {
	if docNum >= s.footer.NumDocs {
		return extract.Record{}, fmt.Errorf("docNum %d out of range", docNum)
	}
	chunk, err := s.loadChunk(int(docNum / ChunkSize))
	if err != nil {
		return extract.Record{}, err
	}
	inChunk := docNum % ChunkSize
	if inChunk >= uint64(len(chunk)) {
		return extract.Record{}, fmt.Errorf("%w: record missing from chunk", ErrCorrupt)
	}
	return chunk[inChunk], nil
}

// Records decodes every stored record in docNum order.
func (s *Segment) Records() ([]extract.Record, error) {
	records := make([]extract.Record, 0, s.footer.NumDocs)
	for i := range s.footer.ChunkOffsets {
		chunk, err := s.loadChunk(i)
		if err != nil {
			return nil, err
		}
		records = append(records, chunk...)
	}
	if uint64(len(records)) != s.footer.NumDocs {
		return nil, fmt.Errorf("%w: expected %d records, found %d", ErrCorrupt, s.footer.NumDocs, len(records))
	}
	return records, nil
}

// Close releases segment resources.
func (s *Segment) Close() error {
	s.fstsMu.Lock()
	defer s.fstsMu.Unlock()

	for _, fst := range s.fsts {
		fst.Close()
	}
	s.fsts = nil

	if s.mm != nil {
		s.mm.Unmap()
		s.mm = nil
	}
	s.data = nil
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
