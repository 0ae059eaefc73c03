package loader

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"harshagw/qanun/internal/source"
)

const book = `{
  "name": "الكتاب الأول",
  "title": "في التحري",
  "chapters": [
    {"name": "الباب الأول", "articles": [
      {"number": 1, "paragraphs": ["first"]},
      {"number": "2", "paragraphs": ["second"]}
    ]}
  ]
}`

func setup(t *testing.T, books bool) (*Dir, string) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "laws"), 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b_two.json", "a_one.json"} {
		if err := os.WriteFile(filepath.Join(root, "laws", name), []byte(book), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(filepath.Join(root, "laws", "notes.txt"), []byte("x"), 0o644)

	src := source.Source{Key: "law", Path: "laws"}
	if books {
		src.Books = []string{"b_two", "missing"}
	}
	reg, err := source.New(src)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(root, reg, Options{CacheSize: 1})
	if err != nil {
		t.Fatal(err)
	}
	return d, root
}

func TestBookIDs(t *testing.T) {
	d, _ := setup(t, false)
	ids, err := d.BookIDs("law")
	if err != nil {
		t.Fatalf("BookIDs: %v", err)
	}
	if !slices.Equal(ids, []string{"a_one", "b_two"}) {
		t.Errorf("BookIDs = %v", ids)
	}

	d, _ = setup(t, true)
	ids, _ = d.BookIDs("law")
	if !slices.Equal(ids, []string{"b_two", "missing"}) {
		t.Errorf("catalog BookIDs = %v", ids)
	}
	if ids, _ := d.BookIDs("nope"); ids != nil {
		t.Errorf("unknown source = %v", ids)
	}
}

func TestBook(t *testing.T) {
	d, root := setup(t, false)

	n, ok, err := d.Book("law", "a_one")
	if err != nil || !ok {
		t.Fatalf("Book: ok=%v err=%v", ok, err)
	}
	if n.Name != "الكتاب الأول" || len(n.Chapters[0].Articles) != 2 || n.Chapters[0].Articles[0].Number != "1" {
		t.Errorf("parsed tree = %+v", n)
	}

	again, _, _ := d.Book("law", "a_one")
	if again != n {
		t.Error("second load not served from cache")
	}

	for _, id := range []string{"missing", "../laws/a_one", ""} {
		if _, ok, err := d.Book("law", id); ok || err != nil {
			t.Errorf("Book(%q) ok=%v err=%v", id, ok, err)
		}
	}

	os.WriteFile(filepath.Join(root, "laws", "broken.json"), []byte("{"), 0o644)
	if _, _, err := d.Book("law", "broken"); err == nil {
		t.Error("expected parse error")
	}
}

func TestFingerprint(t *testing.T) {
	d, root := setup(t, false)
	first, err := d.Fingerprint()
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	same, _ := d.Fingerprint()
	if first != same {
		t.Error("fingerprint not stable")
	}

	path := filepath.Join(root, "laws", "a_one.json")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	changed, _ := d.Fingerprint()
	if changed == first {
		t.Error("fingerprint ignored a modified book")
	}
}
