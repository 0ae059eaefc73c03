package search

import (
	"time"

	"harshagw/qanun/internal/extract"
)

// Result is one ranked article hit.
type Result struct {
	extract.Record
	// Snippet is the content window around the first content match, or the
	// whole content when only the identifier matched.
	Snippet string  `json:"matchedText"`
	Score   float64 `json:"score"`
	// RefIndex is the record's position in the corpus.
	RefIndex int     `json:"refIndex"`
	Matches  []Match `json:"matches,omitempty"`
}

// Match lists the matched rune spans of one key, ends inclusive.
type Match struct {
	Key     string   `json:"key"`
	Indices [][2]int `json:"indices"`
}

// Request is a search over the whole corpus or one source.
type Request struct {
	Query    string `json:"query"`
	Source   string `json:"source,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Extended bool   `json:"extended,omitempty"`
}

type Response struct {
	Query  string `json:"query"`
	Source string `json:"source,omitempty"`
	// TooShort is set when the query was rejected without touching the
	// index.
	TooShort bool          `json:"tooShort,omitempty"`
	Results  []Result      `json:"results"`
	Took     time.Duration `json:"took"`
}

// Suggestion is an identifier completion.
type Suggestion struct {
	Label         string `json:"label"`
	ArticleNumber string `json:"articleNumber"`
	SourceKey     string `json:"sourceKey"`
	BookID        string `json:"bookId"`
}

// FormatLegalPath renders the book of a result as "name • title", or just
// the name when there is no title.
func FormatLegalPath(r Result) string {
	switch {
	case r.BookName != "" && r.BookTitle != "":
		return r.BookName + extract.CrumbSep + r.BookTitle
	case r.BookName != "":
		return r.BookName
	}
	return ""
}
