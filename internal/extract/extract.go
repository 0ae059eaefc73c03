package extract

import (
	"strings"

	"harshagw/qanun/internal/tree"
)

// SectionSep joins the labels of nested sections below the chapter level.
const SectionSep = " > "

// CrumbSep separates the levels of a rendered location.
const CrumbSep = " • "

// Record is the flat, searchable projection of one article.
type Record struct {
	ArticleNumber string `json:"articleNumber"`
	SourceKey     string `json:"sourceKey"`
	BookID        string `json:"bookId"`
	BookName      string `json:"bookName"`
	BookTitle     string `json:"bookTitle"`
	ChapterName   string `json:"chapterName"`
	ChapterTitle  string `json:"chapterTitle"`
	SectionName   string `json:"sectionName,omitempty"`
	SectionTitle  string `json:"sectionTitle,omitempty"`
	Content       string `json:"content"`
}

// Book identifies the tree being extracted.
type Book struct {
	SourceKey string
	ID        string
	Name      string
	Title     string
}

type crumb struct {
	name, title string
}

// Extract flattens every leaf under root into a Record, in document order.
// Containers with a name or title extend the trail that becomes the chapter
// and section fields of the leaves below them.
func Extract(root *tree.Node, book Book) []Record {
	var records []Record
	var walk func(n *tree.Node, trail []crumb)
	walk = func(n *tree.Node, trail []crumb) {
		if n.IsLeaf() {
			records = append(records, newRecord(n, book, trail))
		}
		if n != root && n.HasChildren() && (n.Name != "" || n.Title != "") {
			trail = append(trail[:len(trail):len(trail)], crumb{name: n.Name, title: n.Title})
		}
		for _, c := range n.ChildCollections() {
			for _, child := range c.Children {
				walk(child, trail)
			}
		}
	}
	if root != nil {
		walk(root, nil)
	}
	return records
}

func newRecord(n *tree.Node, book Book, trail []crumb) Record {
	rec := Record{
		ArticleNumber: n.Number,
		SourceKey:     book.SourceKey,
		BookID:        book.ID,
		BookName:      book.Name,
		BookTitle:     book.Title,
		ChapterName:   book.Name,
		ChapterTitle:  book.Title,
		Content:       n.Content(),
	}
	if len(trail) == 0 {
		return rec
	}

	rec.ChapterName = trail[0].name
	rec.ChapterTitle = trail[0].title

	var names, titles []string
	for _, c := range trail[1:] {
		if c.name != "" {
			names = append(names, c.name)
		}
		if c.title != "" {
			titles = append(titles, c.title)
		}
	}
	rec.SectionName = strings.Join(names, SectionSep)
	rec.SectionTitle = strings.Join(titles, SectionSep)
	return rec
}

// Breadcrumb returns the record's location as "book • chapter • section".
func (r Record) Breadcrumb() string {
	parts := []string{r.BookName}
	if r.ChapterName != "" && r.ChapterName != r.BookName {
		parts = append(parts, r.ChapterName)
	}
	if r.SectionName != "" {
		parts = append(parts, r.SectionName)
	}
	return strings.Join(parts, CrumbSep)
}
