package search

const (
	Ellipsis      = "..."
	contextBefore = 50
	contextAfter  = 100
)

// Snippet cuts the window [start-50, end+100) out of content, where start
// and end are the inclusive rune bounds of a match. Ellipses mark the sides
// that were cut.
func Snippet(content string, start, end int) string {
	runes := []rune(content)
	from := max(0, start-contextBefore)
	to := min(len(runes), end+contextAfter)
	if from > len(runes) {
		from = len(runes)
	}
	if to < from {
		to = from
	}

	out := string(runes[from:to])
	if from > 0 {
		out = Ellipsis + out
	}
	if to < len(runes) {
		out += Ellipsis
	}
	return out
}
