package index

import (
	"os"
	"path/filepath"
	"testing"

	"harshagw/qanun/internal/store"
)

func TestSnapshot_SaveOpen(t *testing.T) {
	dir := t.TempDir()
	idx, err := Build(corpus(), DefaultConfig())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if err := idx.Save(dir, "v1"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	idx.Close()

	opened, found, err := Open(dir, "v1", DefaultConfig())
	if err != nil || !found {
		t.Fatalf("Open: found=%v err=%v", found, err)
	}
	defer opened.Close()

	if opened.Len() != len(corpus()) {
		t.Fatalf("Len = %d", opened.Len())
	}
	for i, want := range corpus() {
		if got, _ := opened.Record(i); got != want {
			t.Errorf("record %d = %+v, want %+v", i, got, want)
		}
	}
	bm, _ := opened.Partition("cpp")
	if bm.GetCardinality() != 2 {
		t.Errorf("cpp partition = %v", bm.ToArray())
	}
}

func TestSnapshot_FingerprintMismatch(t *testing.T) {
	dir := t.TempDir()
	idx, _ := Build(corpus(), DefaultConfig())
	defer idx.Close()
	if err := idx.Save(dir, "v1"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	_, found, err := Open(dir, "v2", DefaultConfig())
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if found {
		t.Error("stale snapshot should be a miss")
	}
}

func TestSnapshot_Missing(t *testing.T) {
	_, found, err := Open(t.TempDir(), "v1", DefaultConfig())
	if err != nil || found {
		t.Errorf("empty dir: found=%v err=%v", found, err)
	}
}

func TestSnapshot_ReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	idx, _ := Build(corpus(), DefaultConfig())
	defer idx.Close()

	if err := idx.Save(dir, "v1"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := idx.Save(dir, "v2"); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	segs, _ := filepath.Glob(filepath.Join(dir, "*.seg"))
	if len(segs) != 1 {
		t.Errorf("segments on disk = %v", segs)
	}

	meta, err := store.NewMetadata(dir)
	if err != nil {
		t.Fatalf("NewMetadata: %v", err)
	}
	defer meta.Close()
	snap, _, _ := meta.Current()
	if snap.Fingerprint != "v2" || snap.NumRecords != uint64(len(corpus())) {
		t.Errorf("current snapshot = %+v", snap)
	}
	if _, err := os.Stat(filepath.Join(dir, snap.SegmentID+".seg")); err != nil {
		t.Errorf("current segment missing: %v", err)
	}
}
