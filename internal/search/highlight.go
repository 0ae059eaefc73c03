package search

import (
	"regexp"

	"golang.org/x/net/html"
)

const markOpen = `<mark class="bg-yellow-300/50 dark:bg-yellow-500/30 text-inherit rounded-sm px-0.5">`

// Highlight HTML-escapes text and wraps every case-insensitive occurrence
// of query in a mark element. The query is escaped the same way before it
// is matched, so it can never inject markup.
func Highlight(text, query string) string {
	escaped := html.EscapeString(text)
	if len([]rune(query)) < MinQueryLength {
		return escaped
	}
	pattern, err := regexp.Compile("(?i)" + regexp.QuoteMeta(html.EscapeString(query)))
	if err != nil {
		return escaped
	}
	return pattern.ReplaceAllString(escaped, markOpen+"${0}</mark>")
}
