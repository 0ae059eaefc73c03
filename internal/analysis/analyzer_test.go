package analysis

import (
	"slices"
	"testing"
)

func terms(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Term
	}
	return out
}

func TestSimple_Analyze(t *testing.T) {
	a := NewSimple()

	got := a.Analyze("Garde à vue, 48 heures; ضابط الشرطة القضائية")
	want := []string{"garde", "vue", "48", "heures", "ضابط", "الشرطة", "القضائية"}
	if !slices.Equal(terms(got), want) {
		t.Errorf("expected %v, got %v", want, terms(got))
	}
	for i, tok := range got {
		if tok.Position != i {
			t.Errorf("token %q: expected position %d, got %d", tok.Term, i, tok.Position)
		}
	}
}

func TestSimple_RuneOffsets(t *testing.T) {
	text := "في المادة"
	tokens := NewSimple().Analyze(text)
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	r := []rune(text)
	for _, tok := range tokens {
		if string(r[tok.Start:tok.End]) != tok.Term {
			t.Errorf("offsets [%d,%d) do not cover %q", tok.Start, tok.End, tok.Term)
		}
	}
}

func TestSimple_KeepsCombiningMarks(t *testing.T) {
	tokens := NewSimple().Analyze("الْمَادَّة")
	if len(tokens) != 1 {
		t.Errorf("harakat should not split words, got %v", terms(tokens))
	}
}

func TestSimple_MinLength(t *testing.T) {
	a := &Simple{MinLength: 1}
	if got := terms(a.Analyze("a b")); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
	if got := NewSimple().Analyze("a b"); len(got) != 0 {
		t.Errorf("expected single letters to be dropped, got %v", terms(got))
	}
}

func TestSpaceTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"  one  two ", 2},
		{"a\tb c", 2},
		{"المادة 12 من القانون", 4},
	}
	for _, tt := range tests {
		if got := SpaceTokens(tt.text); got != tt.want {
			t.Errorf("SpaceTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestTerms_Distinct(t *testing.T) {
	got := Terms(NewSimple(), "de la Loi, de LA loi")
	if !slices.Equal(got, []string{"de", "la", "loi"}) {
		t.Errorf("got %v", got)
	}
}
