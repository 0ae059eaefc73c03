package library

import (
	"net/url"

	"harshagw/qanun/internal/source"
	"harshagw/qanun/internal/tree"
)

// Crumb is one ancestor of an article.
type Crumb struct {
	Label string `json:"label"`
	// Link reopens the book expanded down to this ancestor.
	Link string `json:"link"`
}

// Neighbor points at the previous or next article of a book.
type Neighbor struct {
	Number string `json:"number"`
	Label  string `json:"label"`
	Link   string `json:"link"`
}

// ArticleView is everything needed to render one article page.
type ArticleView struct {
	Source      source.Source `json:"source"`
	BookID      string        `json:"bookId"`
	BookName    string        `json:"bookName"`
	BookTitle   string        `json:"bookTitle"`
	Node        *tree.Node    `json:"node"`
	Label       string        `json:"label"`
	Content     string        `json:"content"`
	Breadcrumbs []Crumb       `json:"breadcrumbs"`
	Path        []int         `json:"path"`
	ExpandToken string        `json:"expandToken"`
	ExpandLink  string        `json:"expandLink"`
	Prev        *Neighbor     `json:"prev,omitempty"`
	Next        *Neighbor     `json:"next,omitempty"`
}

// BookInfo summarizes a book for listings.
type BookInfo struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	FirstArticle string `json:"firstArticle,omitempty"`
	Link         string `json:"link"`
}

// ArticleLink returns the page URL of an article.
func ArticleLink(sourceKey, bookID, number string) string {
	return "/" + url.PathEscape(sourceKey) + "/" + url.PathEscape(bookID) + "/" + url.PathEscape(number)
}

func (l *Library) book(key, bookID string) (source.Source, *tree.Node, bool, error) {
	src, ok := l.registry.Get(key)
	if !ok {
		return source.Source{}, nil, false, nil
	}
	root, ok, err := l.books.Book(key, bookID)
	if err != nil || !ok {
		return src, nil, false, err
	}
	return src, root, true, nil
}

func (l *Library) neighbor(src source.Source, bookID string, n *tree.Node) *Neighbor {
	if n == nil {
		return nil
	}
	return &Neighbor{
		Number: n.Number,
		Label:  l.registry.Label(n, src.Key),
		Link:   ArticleLink(src.Key, bookID, n.Number),
	}
}

// Article looks up an article by number within one book.
func (l *Library) Article(key, bookID, number string) (ArticleView, bool, error) {
	src, root, ok, err := l.book(key, bookID)
	if err != nil || !ok {
		return ArticleView{}, false, err
	}
	m, ok := tree.FindByIdentifier(root, number)
	if !ok {
		return ArticleView{}, false, nil
	}

	view := ArticleView{
		Source:      src,
		BookID:      bookID,
		BookName:    l.bookName(root, key),
		BookTitle:   root.Title,
		Node:        m.Node,
		Label:       l.registry.Label(m.Node, key),
		Content:     m.Node.Content(),
		Path:        m.Path,
		ExpandToken: tree.EncodePath(m.Path),
		ExpandLink:  tree.ExpandLink(key, bookID, m.Path),
	}
	for i, anc := range m.Ancestors {
		view.Breadcrumbs = append(view.Breadcrumbs, Crumb{
			Label: l.registry.Label(anc, key),
			Link:  tree.ExpandLink(key, bookID, m.Path[:i]),
		})
	}

	prev, next := tree.Neighbors(root, number)
	view.Prev = l.neighbor(src, bookID, prev)
	view.Next = l.neighbor(src, bookID, next)
	return view, true, nil
}

// Expand resolves an expand token to the node it addresses. Malformed
// tokens address the book root.
func (l *Library) Expand(key, bookID, token string) (*tree.Node, bool, error) {
	_, root, ok, err := l.book(key, bookID)
	if err != nil || !ok {
		return nil, false, err
	}
	n := tree.ResolveByPath(root, tree.DecodePath(token))
	return n, n != nil, nil
}

// FirstArticle returns the first article of a book in document order.
func (l *Library) FirstArticle(key, bookID string) (*tree.Node, bool, error) {
	_, root, ok, err := l.book(key, bookID)
	if err != nil || !ok {
		return nil, false, err
	}
	leaf := tree.FindFirstLeaf(root)
	return leaf, leaf != nil, nil
}

// Books lists the books of a source with their first article.
func (l *Library) Books(key string) ([]BookInfo, error) {
	ids, err := l.books.BookIDs(key)
	if err != nil {
		return nil, err
	}
	var out []BookInfo
	for _, id := range ids {
		root, ok, err := l.books.Book(key, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		info := BookInfo{ID: id, Name: l.bookName(root, key), Title: root.Title, Link: tree.ExpandLink(key, id, nil)}
		if leaf := tree.FindFirstLeaf(root); leaf != nil {
			info.FirstArticle = leaf.Number
		}
		out = append(out, info)
	}
	return out, nil
}
