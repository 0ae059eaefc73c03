package extract

import (
	"testing"

	"harshagw/qanun/internal/tree"
)

func testBook() *tree.Node {
	return &tree.Node{
		Name:  "الكتاب الأول",
		Title: "التحري",
		Articles: []*tree.Node{
			{Number: "0", Paragraphs: []string{"تمهيد"}},
		},
		Chapters: []*tree.Node{
			{
				Name:  "الباب الأول",
				Title: "أحكام",
				Articles: []*tree.Node{
					{Number: "1", Paragraphs: []string{"الفقرة", "الثانية"}},
				},
				Sections: []*tree.Node{
					{
						Name:  "الفرع الأول",
						Title: "البحث",
						Subsections: []*tree.Node{
							{
								Title:    "التفتيش",
								Articles: []*tree.Node{{Number: "2"}},
							},
						},
					},
				},
			},
			{
				// unnamed container does not extend the trail
				Articles: []*tree.Node{{Number: "3", Paragraphs: []string{"x"}}},
			},
		},
	}
}

func TestExtract_DocumentOrderAndTrail(t *testing.T) {
	book := Book{SourceKey: "cpp", ID: "book_1st", Name: "الكتاب الأول", Title: "التحري"}
	records := Extract(testBook(), book)

	// chapters come before articles in enumeration order
	want := []string{"2", "1", "3", "0"}
	if len(records) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(records))
	}
	for i, r := range records {
		if r.ArticleNumber != want[i] {
			t.Errorf("record %d: expected %s, got %s", i, want[i], r.ArticleNumber)
		}
		if r.SourceKey != "cpp" || r.BookID != "book_1st" {
			t.Errorf("record %d: unexpected book fields %+v", i, r)
		}
	}

	nested := records[0]
	if nested.ChapterName != "الباب الأول" || nested.ChapterTitle != "أحكام" {
		t.Errorf("unexpected chapter: %q / %q", nested.ChapterName, nested.ChapterTitle)
	}
	if nested.SectionName != "الفرع الأول" {
		t.Errorf("unexpected section name: %q", nested.SectionName)
	}
	if nested.SectionTitle != "البحث > التفتيش" {
		t.Errorf("unexpected section title: %q", nested.SectionTitle)
	}
	if nested.Content != "" {
		t.Errorf("expected empty content, got %q", nested.Content)
	}

	if records[1].Content != "الفقرة الثانية" {
		t.Errorf("paragraphs should join with one space, got %q", records[1].Content)
	}
	if records[1].SectionName != "" || records[1].SectionTitle != "" {
		t.Errorf("chapter-level article should have no section: %+v", records[1])
	}

	// no named ancestor: chapter falls back to the book
	for _, r := range records[2:] {
		if r.ChapterName != book.Name || r.ChapterTitle != book.Title {
			t.Errorf("record %s: expected book fallback, got %q / %q", r.ArticleNumber, r.ChapterName, r.ChapterTitle)
		}
	}
}

func TestExtract_LeafWithChildren(t *testing.T) {
	root := &tree.Node{Articles: []*tree.Node{
		{Number: "5", Name: "مكرر", Subsections: []*tree.Node{{Number: "5-1"}}},
	}}
	records := Extract(root, Book{SourceKey: "dp", ID: "b", Name: "B"})
	if len(records) != 2 || records[0].ArticleNumber != "5" || records[1].ArticleNumber != "5-1" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].ChapterName != "B" {
		t.Errorf("a leaf's own name should not label itself, got %q", records[0].ChapterName)
	}
	if records[1].ChapterName != "مكرر" {
		t.Errorf("descendants should inherit the container label, got %q", records[1].ChapterName)
	}
}

func TestExtract_Empty(t *testing.T) {
	if got := Extract(&tree.Node{}, Book{}); len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
	if got := Extract(nil, Book{}); len(got) != 0 {
		t.Errorf("expected no records, got %d", len(got))
	}
}

func TestExtract_Pure(t *testing.T) {
	root := testBook()
	a := Extract(root, Book{ID: "x"})
	b := Extract(root, Book{ID: "x"})
	if len(a) != len(b) {
		t.Fatal("repeated extraction differs")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("record %d differs", i)
		}
	}
}

func TestRecord_Breadcrumb(t *testing.T) {
	r := Record{BookName: "ك", ChapterName: "ب", SectionName: "ف"}
	if got := r.Breadcrumb(); got != "ك • ب • ف" {
		t.Errorf("got %q", got)
	}
	r = Record{BookName: "ك", ChapterName: "ك"}
	if got := r.Breadcrumb(); got != "ك" {
		t.Errorf("got %q", got)
	}
}
