package segment

import (
	"errors"
	"slices"
	"testing"

	"harshagw/qanun/internal/analysis"
	"harshagw/qanun/internal/extract"
)

func rec(source, number, content string) extract.Record {
	return extract.Record{SourceKey: source, BookID: "book_1", ArticleNumber: number, Content: content}
}

// Helper to create a test segment on disk.
func makeSegment(t *testing.T, records ...extract.Record) *Segment {
	t.Helper()
	b := NewBuilder(analysis.NewSimple())
	for _, r := range records {
		b.Add(r)
	}
	segPath, err := b.Build(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	seg, err := Open(segPath, "test")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { seg.Close() })
	return seg
}

func TestSegment_Postings(t *testing.T) {
	seg := makeSegment(t,
		rec("cpp", "1", "theft of property"),
		rec("cpp", "2", "property damage"),
		rec("dp", "1", "appeal"),
	)

	bm, err := seg.Postings(TermsField, "property")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got := bm.ToArray(); !slices.Equal(got, []uint32{0, 1}) {
		t.Errorf("property postings = %v", got)
	}

	bm, err = seg.Postings(TermsField, "appeal")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if got := bm.ToArray(); !slices.Equal(got, []uint32{2}) {
		t.Errorf("appeal postings = %v", got)
	}

	bm, err = seg.Postings(TermsField, "missing")
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !bm.IsEmpty() {
		t.Errorf("expected empty postings, got %v", bm.ToArray())
	}
}

func TestSegment_IdentifierAndSourceFields(t *testing.T) {
	seg := makeSegment(t,
		rec("cpp", "1", "a text"),
		rec("dp", "1", "b text"),
		rec("dp", "12", "c text"),
	)

	bm, _ := seg.Postings(IDField, "1")
	if got := bm.ToArray(); !slices.Equal(got, []uint32{0, 1}) {
		t.Errorf("id 1 postings = %v", got)
	}
	bm, _ = seg.Postings(SourceField, "dp")
	if got := bm.ToArray(); !slices.Equal(got, []uint32{1, 2}) {
		t.Errorf("dp postings = %v", got)
	}
	if n := seg.NumTerms(SourceField); n != 2 {
		t.Errorf("NumTerms(_source) = %d, want 2", n)
	}
	if n, _ := seg.DocFreq(IDField, "12"); n != 1 {
		t.Errorf("DocFreq(12) = %d, want 1", n)
	}
}

func TestSegment_PrefixTerms(t *testing.T) {
	seg := makeSegment(t,
		rec("cpp", "1", "x"),
		rec("cpp", "10", "x"),
		rec("cpp", "12", "x"),
		rec("cpp", "2", "x"),
	)

	got, err := seg.PrefixTerms("1", IDField, 0)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !slices.Equal(got, []string{"1", "10", "12"}) {
		t.Errorf("PrefixTerms(1) = %v", got)
	}

	got, _ = seg.PrefixTerms("1", IDField, 2)
	if len(got) != 2 {
		t.Errorf("limit ignored: %v", got)
	}

	got, _ = seg.PrefixTerms("9", IDField, 0)
	if len(got) != 0 {
		t.Errorf("expected no terms, got %v", got)
	}

	got, _ = seg.PrefixTerms("", IDField, 0)
	if len(got) != 4 {
		t.Errorf("empty prefix should list all terms, got %v", got)
	}
}

func TestSegment_FuzzyTerms(t *testing.T) {
	seg := makeSegment(t,
		rec("cpp", "1", "kitten mitten"),
		rec("cpp", "2", "sitting"),
	)

	got, err := seg.FuzzyTerms("sitten", 1, TermsField, 0)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	slices.Sort(got)
	if !slices.Equal(got, []string{"kitten", "mitten"}) {
		t.Errorf("FuzzyTerms(sitten, 1) = %v", got)
	}

	got, _ = seg.FuzzyTerms("sitten", 2, TermsField, 0)
	if !slices.Contains(got, "sitting") {
		t.Errorf("distance 2 should reach sitting: %v", got)
	}
}

func TestSegment_Records(t *testing.T) {
	var records []extract.Record
	for i := range ChunkSize + 10 {
		records = append(records, rec("cpp", string(rune('a'+i%26)), "body"))
	}
	seg := makeSegment(t, records...)

	if seg.NumDocs() != uint64(len(records)) {
		t.Fatalf("NumDocs = %d", seg.NumDocs())
	}
	all, err := seg.Records()
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(all) != len(records) {
		t.Fatalf("Records len = %d", len(all))
	}

	last, err := seg.LoadRecord(uint64(ChunkSize + 9))
	if err != nil {
		t.Fatalf("LoadRecord error: %v", err)
	}
	if last != records[ChunkSize+9] {
		t.Errorf("LoadRecord = %+v", last)
	}
	if _, err := seg.LoadRecord(uint64(len(records))); err == nil {
		t.Error("expected error for docNum out of range")
	}
}

func TestSegment_LoadInMemory(t *testing.T) {
	b := NewBuilder(analysis.NewSimple())
	b.Add(rec("cpp", "7", "murder"))
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes error: %v", err)
	}
	seg, err := Load(data, "mem")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	defer seg.Close()

	if seg.Path() != "" {
		t.Errorf("in-memory segment has path %q", seg.Path())
	}
	r, err := seg.LoadRecord(0)
	if err != nil || r.ArticleNumber != "7" {
		t.Errorf("LoadRecord = %+v, %v", r, err)
	}
	if !slices.Equal(seg.Fields(), []string{IDField, SourceField, TermsField}) {
		t.Errorf("Fields = %v", seg.Fields())
	}
}

func TestSegment_Empty(t *testing.T) {
	seg := makeSegment(t)
	all, err := seg.Records()
	if err != nil {
		t.Fatalf("Records error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no records, got %d", len(all))
	}
}

func TestLoad_Corrupt(t *testing.T) {
	b := NewBuilder(analysis.NewSimple())
	b.Add(rec("cpp", "1", "text"))
	data, _ := b.Bytes()

	cases := map[string][]byte{
		"short":   data[:10],
		"magic":   append([]byte("XXXX"), data[4:]...),
		"trailer": append(slices.Clone(data[:len(data)-8]), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff),
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(d, "bad"); !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestSegment_Closed(t *testing.T) {
	b := NewBuilder(analysis.NewSimple())
	b.Add(rec("cpp", "1", "text"))
	data, _ := b.Bytes()
	seg, err := Load(data, "mem")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	seg.Close()

	if _, err := seg.Postings(TermsField, "text"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
