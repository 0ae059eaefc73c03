package tree

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies one of the named child collections a node may carry.
type Kind int

const (
	KindChapters Kind = iota
	KindSections
	KindBranches
	KindArticles
	KindSubsections
)

// Kinds lists the child collections in enumeration priority order.
var Kinds = []Kind{KindChapters, KindSections, KindBranches, KindArticles, KindSubsections}

func (k Kind) String() string {
	switch k {
	case KindChapters:
		return "chapters"
	case KindSections:
		return "sections"
	case KindBranches:
		return "branches"
	case KindArticles:
		return "articles"
	case KindSubsections:
		return "subsections"
	default:
		return "unknown"
	}
}

const (
	// DefaultArticleTerm is used when no source-specific term is known.
	DefaultArticleTerm = "المادة"
	// Placeholder labels a node with neither name, title nor number.
	Placeholder = "عنصر"
)

// Node is one element of a legal code tree. Books, chapters, sections and
// articles all share this shape; which fields are populated decides the role.
type Node struct {
	Name       string   `json:"name,omitempty"`
	Title      string   `json:"title,omitempty"`
	Number     string   `json:"number,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`

	Chapters    []*Node `json:"chapters,omitempty"`
	Sections    []*Node `json:"sections,omitempty"`
	Branches    []*Node `json:"branches,omitempty"`
	Articles    []*Node `json:"articles,omitempty"`
	Subsections []*Node `json:"subsections,omitempty"`
}

// UnmarshalJSON accepts "number" as either a string or a JSON number.
func (n *Node) UnmarshalJSON(data []byte) error {
	type plain Node
	var raw struct {
		plain
		Number json.RawMessage `json:"number"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Node(raw.plain)

	if len(raw.Number) == 0 || string(raw.Number) == "null" {
		n.Number = ""
		return nil
	}
	if raw.Number[0] == '"' {
		return json.Unmarshal(raw.Number, &n.Number)
	}
	var num json.Number
	if err := json.Unmarshal(raw.Number, &num); err != nil {
		return fmt.Errorf("invalid number %s: %w", raw.Number, err)
	}
	n.Number = num.String()
	return nil
}

// Collection is a non-empty named child collection of a node.
type Collection struct {
	Kind     Kind
	Children []*Node
}

func (n *Node) collection(k Kind) []*Node {
	switch k {
	case KindChapters:
		return n.Chapters
	case KindSections:
		return n.Sections
	case KindBranches:
		return n.Branches
	case KindArticles:
		return n.Articles
	case KindSubsections:
		return n.Subsections
	}
	return nil
}

// ChildCollections returns the non-empty child collections in priority order.
func (n *Node) ChildCollections() []Collection {
	if n == nil {
		return nil
	}
	var out []Collection
	for _, k := range Kinds {
		if children := n.collection(k); len(children) > 0 {
			out = append(out, Collection{Kind: k, Children: children})
		}
	}
	return out
}

// Children returns all children flattened in document order. The position of
// a child in this slice is its flat index.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.ChildCollections() {
		out = append(out, c.Children...)
	}
	return out
}

func (n *Node) HasChildren() bool {
	if n == nil {
		return false
	}
	for _, k := range Kinds {
		if len(n.collection(k)) > 0 {
			return true
		}
	}
	return false
}

// IsLeaf reports whether the node is a navigable article.
func (n *Node) IsLeaf() bool {
	return n != nil && n.Number != ""
}

// Content joins the paragraphs with single spaces.
func (n *Node) Content() string {
	return strings.Join(n.Paragraphs, " ")
}

// Label returns the display label of the node. articleTerm names articles
// ("المادة", "الفصل"); an empty term falls back to DefaultArticleTerm.
func (n *Node) Label(articleTerm string) string {
	switch {
	case n.Name != "" && n.Title != "":
		return n.Name + ": " + n.Title
	case n.Name != "":
		return n.Name
	case n.Title != "":
		return n.Title
	case n.Number != "":
		if articleTerm == "" {
			articleTerm = DefaultArticleTerm
		}
		return articleTerm + " " + n.Number
	}
	return Placeholder
}
