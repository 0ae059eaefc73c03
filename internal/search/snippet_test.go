package search

import (
	"strings"
	"testing"
)

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 300)

	tests := []struct {
		name       string
		content    string
		start, end int
		prefix     bool
		suffix     bool
		length     int
	}{
		{"middle", long, 100, 104, true, true, 154},
		{"near start", long, 10, 14, false, true, 114},
		{"near end", long, 280, 290, true, false, 70},
		{"short content", "hello world", 0, 4, false, false, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Snippet(tt.content, tt.start, tt.end)
			if strings.HasPrefix(got, Ellipsis) != tt.prefix {
				t.Errorf("prefix ellipsis = %v, want %v", !tt.prefix, tt.prefix)
			}
			if strings.HasSuffix(got, Ellipsis) != tt.suffix {
				t.Errorf("suffix ellipsis = %v, want %v", !tt.suffix, tt.suffix)
			}
			body := strings.TrimSuffix(strings.TrimPrefix(got, Ellipsis), Ellipsis)
			if len([]rune(body)) != tt.length {
				t.Errorf("window length = %d, want %d", len([]rune(body)), tt.length)
			}
		})
	}
}

func TestSnippet_Bounded(t *testing.T) {
	content := "قال المشرع في هذه المادة ما يلي"
	n := len([]rune(content))
	for start := 0; start < n; start++ {
		for end := start; end < n+5; end++ {
			got := Snippet(content, start, end)
			if len([]rune(got)) > n+2*len(Ellipsis) {
				t.Fatalf("Snippet(%d,%d) too long: %q", start, end, got)
			}
		}
	}
	if got := Snippet(content, n+100, n+200); strings.Contains(got, "�") {
		t.Errorf("out of range window produced %q", got)
	}
}
