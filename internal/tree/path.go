package tree

import (
	"net/url"
	"strconv"
	"strings"
)

// Path token format: one "depth-index" pair per level joined by "_",
// e.g. [0 2 1] encodes as "0-0_1-2_2-1".
const (
	pathLevelSep = "_"
	pathPairSep  = "-"
)

// EncodePath encodes a flat-index path as a URL-safe token.
func EncodePath(path []int) string {
	parts := make([]string, len(path))
	for depth, idx := range path {
		parts[depth] = strconv.Itoa(depth) + pathPairSep + strconv.Itoa(idx)
	}
	return strings.Join(parts, pathLevelSep)
}

// DecodePath parses a token produced by EncodePath. Malformed input yields an
// empty path: missing pairs, non-numeric parts, negative indices and depth
// tags that disagree with their position all reject the whole token.
func DecodePath(token string) []int {
	if token == "" {
		return []int{}
	}
	levels := strings.Split(token, pathLevelSep)
	path := make([]int, 0, len(levels))
	for depth, level := range levels {
		d, i, ok := strings.Cut(level, pathPairSep)
		if !ok {
			return []int{}
		}
		gotDepth, err := strconv.Atoi(d)
		if err != nil || gotDepth != depth {
			return []int{}
		}
		idx, err := strconv.Atoi(i)
		if err != nil || idx < 0 {
			return []int{}
		}
		path = append(path, idx)
	}
	return path
}

// ResolveByPath follows path from root. An empty path resolves to root; any
// out-of-range index yields nil.
func ResolveByPath(root *Node, path []int) *Node {
	n := root
	for _, idx := range path {
		if n == nil {
			return nil
		}
		children := n.Children()
		if idx < 0 || idx >= len(children) {
			return nil
		}
		n = children[idx]
	}
	return n
}

// ExpandLink returns the book URL that reopens the tree expanded along path.
func ExpandLink(sourceKey, bookID string, path []int) string {
	base := "/" + url.PathEscape(sourceKey) + "/" + url.PathEscape(bookID)
	if len(path) == 0 {
		return base
	}
	return base + "?expand=" + EncodePath(path)
}
